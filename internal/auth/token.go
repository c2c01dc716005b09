package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL bounds the lifetime of every issued token. There is no server-side
// revocation list; rotating the secret invalidates all outstanding tokens.
const TokenTTL = 24 * time.Hour

// ErrInvalidToken covers every verification failure: bad signature, malformed
// input, unexpected algorithm, and expiry. Callers must not be able to tell
// these apart.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload carried inside a session token.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Tokens issues and verifies HS256-signed session tokens. The secret is fixed
// at construction and never mutated.
type Tokens struct {
	secret []byte
}

func NewTokens(secret []byte) *Tokens {
	return &Tokens{secret: secret}
}

// Issue signs a token for the given account, expiring TokenTTL from now.
func (t *Tokens) Issue(userID, email string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenTTL)),
		},
		UserID: userID,
		Email:  email,
	})
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string. Any failure, including
// attacker-controlled garbage, returns ErrInvalidToken.
func (t *Tokens) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
