package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the authenticated principal for one request. The zero value
// means no remote identity is established and every operation stays on the
// local path. Identity is derived per request from the bearer token the
// app shell holds, never from ambient state, so tests can inject one
// directly.
type Identity struct {
	UserID    string
	ExpiresAt time.Time
}

// Established reports whether a remote identity is present. This is the
// gate consulted before every remote attempt; it is a pure field check,
// no network round-trip.
func (id Identity) Established() bool {
	return id.UserID != ""
}

// SessionVerifier validates backend-issued access tokens locally.
type SessionVerifier struct {
	secret string
}

// NewSessionVerifier creates a verifier for tokens signed with the
// backend's shared HS256 secret.
func NewSessionVerifier(secret string) *SessionVerifier {
	return &SessionVerifier{secret: secret}
}

// Verify parses and validates a token and returns the identity it
// carries. Expired or malformed tokens yield an error; callers treat that
// the same as no token at all.
func (v *SessionVerifier) Verify(tokenString string) (Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(v.secret), nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return Identity{}, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, fmt.Errorf("invalid token claims")
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return Identity{}, fmt.Errorf("subject not found in token")
	}

	id := Identity{UserID: subject}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		id.ExpiresAt = exp.Time
	}
	return id, nil
}
