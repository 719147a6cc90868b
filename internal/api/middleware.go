package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/openshelf/openshelf-server/internal/http/response"
)

// tokenCookieName is the cookie consulted when no Authorization header is
// present, so browser clients don't have to manage the header themselves.
const tokenCookieName = "openshelf_token"

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	contextKeyCustomerID contextKey = "customer_id"
	contextKeyEmail      contextKey = "email"
	contextKeySessionID  contextKey = "session_id"
)

// requireAuth validates the access token and attaches customer context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := extractToken(r)
		if tokenString == "" {
			response.Unauthorized(w, "Missing authorization token", s.logger)
			return
		}

		customer, claims, err := s.authService.VerifyAccessToken(r.Context(), tokenString)
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token", s.logger)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyCustomerID, customer.ID)
		ctx = context.WithValue(ctx, contextKeyEmail, customer.Email)
		ctx = context.WithValue(ctx, contextKeySessionID, claims.TokenID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractToken pulls the access token from the Authorization header, or
// falls back to the session cookie.
func extractToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}

	if cookie, err := r.Cookie(tokenCookieName); err == nil {
		return cookie.Value
	}

	return ""
}

// getCustomerID extracts the authenticated customer ID from request context.
// Returns empty string if not authenticated.
func getCustomerID(ctx context.Context) string {
	if customerID, ok := ctx.Value(contextKeyCustomerID).(string); ok {
		return customerID
	}
	return ""
}

// getSessionID extracts the session ID from request context.
// Returns empty string if not available.
func getSessionID(ctx context.Context) string {
	if sessionID, ok := ctx.Value(contextKeySessionID).(string); ok {
		return sessionID
	}
	return ""
}
