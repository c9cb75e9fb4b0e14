package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"buildestate/internal/utils"
)

type contextKey string

// UserIDKey is where the auth middleware stores the authenticated identity's
// hex id in the request context.
const UserIDKey contextKey = "userID"

// NewAuthMiddleware returns middleware that validates the bearer token and
// injects the identity id into the context. Tokens without an id claim
// (admin tokens included) are rejected.
func NewAuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	secret := []byte(jwtSecret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := r.Header.Get("Authorization")
			if tokenString == "" {
				http.Error(w, "Missing token", http.StatusUnauthorized)
				return
			}

			if !strings.HasPrefix(tokenString, "Bearer ") {
				http.Error(w, "Invalid token format", http.StatusUnauthorized)
				return
			}
			tokenString = tokenString[len("Bearer "):]

			userID, err := utils.ParseUserToken(secret, tokenString)
			if err != nil {
				log.Warn().Err(err).Msg("Rejected bearer token")
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID.Hex())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
