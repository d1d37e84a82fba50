package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/pulseboard/backend/internal/api"
	"github.com/pulseboard/backend/internal/apperr"
	"github.com/pulseboard/backend/internal/models"
)

type contextKey string

const userIDKey contextKey = "user_id"

// UserID returns the authenticated user id from the request context, or ""
// on an unprotected route.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// WithUserID injects a user id into the context. Exposed for tests.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// TokenVerifier validates a bearer token and returns the embedded user id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// UserChecker confirms the token's user still exists in storage.
type UserChecker interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// RequireAuth validates the Authorization bearer token and injects the user
// id into the request context. A missing token is 401; an invalid or expired
// token is 403, as is a token whose user has since been deleted. The storage
// re-check means deleting a user revokes every token it holds.
func RequireAuth(tokens TokenVerifier, users UserChecker, respond *api.Responder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				respond.Err(w, apperr.Unauthorized("Access token required"))
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				respond.Err(w, apperr.Unauthorized("Access token required"))
				return
			}

			userID, err := tokens.Verify(strings.TrimSpace(token))
			if err != nil {
				respond.Err(w, apperr.Forbidden("Invalid or expired token"))
				return
			}

			if _, err := users.GetUserByID(r.Context(), userID); err != nil {
				respond.Err(w, apperr.Forbidden("Invalid or expired token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}
