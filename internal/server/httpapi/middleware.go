package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/tetherhq/tether/internal/common"
	"github.com/tetherhq/tether/internal/server/auth"
	"github.com/tetherhq/tether/internal/server/models"
)

type ctxKey string

const requestIDKey ctxKey = "requestID"

// authedHandler is a protected operation: it runs only after the bearer token
// has been validated and resolved to a live user.
type authedHandler func(w http.ResponseWriter, r *http.Request, user *models.User)

// requireAuth guards a handler behind bearer-token authentication. The token
// is taken from the Authorization header, validated, and resolved to a user
// through the user service. Missing header, malformed or expired token, and a
// vanished user are all answered with the same 401.
func (s *HTTPServer) requireAuth(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerToken(r)
		if err != nil {
			s.writeUnauthorized(w, r)
			return
		}

		userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
		if err != nil {
			s.writeUnauthorized(w, r)
			return
		}

		user, err := s.users.GetUserByID(r.Context(), userID)
		if err != nil {
			// A token for a deleted user reads the same as a bad token.
			s.writeUnauthorized(w, r)
			return
		}

		next(w, r, user)
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) (string, error) {
	authz := r.Header.Get("Authorization")
	if authz == "" {
		return "", common.ErrorInvalidAuthHeaderFormat
	}

	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", common.ErrorInvalidAuthHeaderFormat
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", common.ErrorInvalidAuthHeaderFormat
	}

	return token, nil
}

func (s *HTTPServer) writeUnauthorized(w http.ResponseWriter, r *http.Request) {
	s.logger.Warn(r.Context(), "request rejected", "reason", "invalid or missing token", "request_id", requestIDFrom(r.Context()))
	writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid or missing token"})
}

// withRequestID tags every request with a fresh uuid, available to handlers
// via the context for log correlation.
func (s *HTTPServer) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), requestIDKey, uuid.NewString())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// withTimeout applies the configured per-request deadline. Expiry surfaces as
// a context error in the storage layer and the request fails as transient;
// no partial state is left behind.
func (s *HTTPServer) withTimeout(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.requestTimeout <= 0 {
			next.ServeHTTP(w, r)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestIDFrom(ctx context.Context) string {
	if v := ctx.Value(requestIDKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
