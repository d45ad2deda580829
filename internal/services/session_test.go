package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return s
}

func TestVerifyValidToken(t *testing.T) {
	v := NewSessionVerifier(testSecret)
	exp := time.Now().Add(time.Hour)
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-42",
		"exp": exp.Unix(),
	})

	id, err := v.Verify(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if id.UserID != "user-42" {
		t.Errorf("expected subject user-42, got %q", id.UserID)
	}
	if !id.Established() {
		t.Error("identity should be established")
	}
	if id.ExpiresAt.Unix() != exp.Unix() {
		t.Errorf("expiry mismatch: got %v, want %v", id.ExpiresAt, exp)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	v := NewSessionVerifier(testSecret)
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-42",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})
	if _, err := v.Verify(token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	v := NewSessionVerifier(testSecret)
	token := signToken(t, "other-secret", jwt.MapClaims{
		"sub": "user-42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	if _, err := v.Verify(token); err == nil {
		t.Error("expected error for wrong signing secret")
	}
}

func TestVerifyMissingSubject(t *testing.T) {
	v := NewSessionVerifier(testSecret)
	token := signToken(t, testSecret, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	if _, err := v.Verify(token); err == nil {
		t.Error("expected error for token without subject")
	}
}

func TestVerifyGarbage(t *testing.T) {
	v := NewSessionVerifier(testSecret)
	if _, err := v.Verify("not-a-token"); err == nil {
		t.Error("expected error for malformed token")
	}
}

func TestZeroIdentityNotEstablished(t *testing.T) {
	if (Identity{}).Established() {
		t.Error("zero identity must not be established")
	}
}
