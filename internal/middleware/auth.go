package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/cpatestos/bloomrn-app-esrvct/internal/services"

	"github.com/rs/zerolog/log"
)

type contextKey string

const identityKey contextKey = "identity"

// OptionalAuth extracts a remote identity from the Authorization header
// when one is present and valid. A missing or invalid token is NOT an
// error: the request proceeds anonymously and every operation stays on
// the local path. Offline use is a first-class mode, so this middleware
// never responds 401.
func OptionalAuth(verifier *services.SessionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := identityFromHeader(r, verifier)
			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func identityFromHeader(r *http.Request, verifier *services.SessionVerifier) services.Identity {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return services.Identity{}
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return services.Identity{}
	}

	id, err := verifier.Verify(parts[1])
	if err != nil {
		// Expired and malformed tokens both mean "no remote identity".
		log.Debug().Err(err).Msg("Bearer token rejected, proceeding anonymously")
		return services.Identity{}
	}
	return id
}

// GetIdentity extracts the request's identity from context. The zero
// Identity means anonymous.
func GetIdentity(ctx context.Context) services.Identity {
	id, ok := ctx.Value(identityKey).(services.Identity)
	if !ok {
		return services.Identity{}
	}
	return id
}

// ValidateWebSocketToken validates a token passed as a WebSocket query
// parameter, where headers are unavailable. Empty token means anonymous.
func ValidateWebSocketToken(token string, verifier *services.SessionVerifier) services.Identity {
	if token == "" {
		return services.Identity{}
	}
	id, err := verifier.Verify(token)
	if err != nil {
		return services.Identity{}
	}
	return id
}
