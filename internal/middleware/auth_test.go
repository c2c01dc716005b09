package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schedulewise/backend/internal/auth"
	"github.com/schedulewise/backend/internal/models"
)

type fakeAccounts map[string]*models.User

func (f fakeAccounts) GetUserByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return u, nil
}

func expiredToken(t *testing.T, secret []byte, userID string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
		UserID: userID,
	})
	signed, err := tok.SignedString(secret)
	require.NoError(t, err)
	return signed
}

func TestRequireAuth_FailureModesAreIdentical(t *testing.T) {
	secret := []byte("secret")
	tokens := auth.NewTokens(secret)
	accounts := fakeAccounts{"u1": {ID: "u1", Email: "a@x.com"}}

	validToken, err := tokens.Issue("u1", "a@x.com")
	require.NoError(t, err)
	vanishedToken, err := tokens.Issue("gone", "gone@x.com")
	require.NoError(t, err)
	forgedToken, err := auth.NewTokens([]byte("other-secret")).Issue("u1", "a@x.com")
	require.NoError(t, err)

	var nextCalls int
	guarded := RequireAuth(tokens, accounts)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalls++
		w.WriteHeader(http.StatusOK)
	}))

	cases := map[string]string{
		"no header":       "",
		"wrong scheme":    "Basic " + validToken,
		"no token":        "Bearer ",
		"malformed token": "Bearer not.a.jwt",
		"forged token":    "Bearer " + forgedToken,
		"expired token":   "Bearer " + expiredToken(t, secret, "u1"),
		"vanished user":   "Bearer " + vanishedToken,
	}

	var bodies []string
	for name, header := range cases {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "case %q", name)
		bodies = append(bodies, rec.Body.String())
	}

	// No failure mode may be distinguishable from another.
	for i := 1; i < len(bodies); i++ {
		assert.Equal(t, bodies[0], bodies[i])
	}
	assert.Zero(t, nextCalls, "handler must not run on guard failure")
}

func TestRequireAuth_BindsAccountID(t *testing.T) {
	tokens := auth.NewTokens([]byte("secret"))
	accounts := fakeAccounts{"u1": {ID: "u1", Email: "a@x.com"}}

	token, err := tokens.Issue("u1", "a@x.com")
	require.NoError(t, err)

	var boundID string
	guarded := RequireAuth(tokens, accounts)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.UserIDFrom(r.Context())
		require.True(t, ok)
		boundID = id
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", boundID)
}
