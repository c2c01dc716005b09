package auth

import "context"

type ctxKey struct{}

// WithUserID binds the authenticated account id to the request context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// UserIDFrom returns the account id bound by the auth middleware, if any.
func UserIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok
}
