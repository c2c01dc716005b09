package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/schedulewise/backend/internal/auth"
	"github.com/schedulewise/backend/internal/models"
)

// unauthorizedBody is the single response written for every guard failure.
// Missing header, bad scheme, forged/expired token, and vanished account must
// be indistinguishable to the caller.
const unauthorizedBody = `{"error":"unauthorized"}`

// TokenVerifier resolves a raw bearer token to its claims.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// AccountSource looks up a live account by id.
type AccountSource interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// RequireAuth validates the Authorization header and injects the resolved
// account id into the request context. It runs before any resource handler.
func RequireAuth(tokens TokenVerifier, users AccountSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || raw == "" {
				unauthorized(w)
				return
			}

			claims, err := tokens.Verify(raw)
			if err != nil {
				unauthorized(w)
				return
			}

			user, err := users.GetUserByID(r.Context(), claims.UserID)
			if err != nil || user == nil {
				unauthorized(w)
				return
			}

			ctx := auth.WithUserID(r.Context(), user.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	http.Error(w, unauthorizedBody, http.StatusUnauthorized)
}
