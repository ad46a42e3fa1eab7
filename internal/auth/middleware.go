package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// Service handles API authentication against a single configured token.
// When no token hash is configured the middleware is a pass-through, which
// keeps local development friction-free.
type Service struct {
	tokenBcryptHash string
}

// NewService creates a new auth service. tokenBcryptHash is the bcrypt hash
// of the accepted bearer token; empty disables authentication.
func NewService(tokenBcryptHash string) *Service {
	if tokenBcryptHash == "" {
		log.Warn().Msg("No API token configured, /v1 endpoints are open")
	}
	return &Service{tokenBcryptHash: tokenBcryptHash}
}

// Enabled reports whether authentication is configured.
func (s *Service) Enabled() bool {
	return s.tokenBcryptHash != ""
}

// Middleware creates an authentication middleware
func (s *Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeJSONError(w, http.StatusUnauthorized, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			writeJSONError(w, http.StatusUnauthorized, "invalid authorization header format")
			return
		}

		token := parts[1]
		if token == "" {
			writeJSONError(w, http.StatusUnauthorized, "empty api token")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(s.tokenBcryptHash), []byte(token)); err != nil {
			log.Debug().Msg("API token rejected")
			writeJSONError(w, http.StatusUnauthorized, "invalid api token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
