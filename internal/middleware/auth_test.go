package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulseboard/backend/internal/api"
	"github.com/pulseboard/backend/internal/auth"
	"github.com/pulseboard/backend/internal/middleware"
	"github.com/pulseboard/backend/internal/store"
)

const testSecret = "pulseboard_test_jwt_secret_key_1234567890"

func newProtectedHandler(t *testing.T, tokens *auth.TokenManager, users middleware.UserChecker) http.Handler {
	t.Helper()
	respond := api.NewResponder(false, zerolog.Nop())
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(middleware.UserID(r.Context())))
	})
	return middleware.RequireAuth(tokens, users, respond)(inner)
}

func TestRequireAuth_MissingToken(t *testing.T) {
	tokens := auth.NewTokenManager(testSecret, time.Hour)
	h := newProtectedHandler(t, tokens, store.NewMemoryStore())

	for _, header := range []string{"", "Bearer ", "Basic abc"} {
		req := httptest.NewRequest(http.MethodGet, "/profile", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp := httptest.NewRecorder()
		h.ServeHTTP(resp, req)
		assert.Equal(t, http.StatusUnauthorized, resp.Code, "header %q", header)
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	tokens := auth.NewTokenManager(testSecret, time.Hour)
	h := newProtectedHandler(t, tokens, store.NewMemoryStore())

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	expired := auth.NewTokenManager(testSecret, -time.Minute)
	ms := store.NewMemoryStore()
	user, err := ms.CreateUser(context.Background(), "Alice", "a@x.com", "hash")
	require.NoError(t, err)

	token, err := expired.Mint(user.ID)
	require.NoError(t, err)

	h := newProtectedHandler(t, auth.NewTokenManager(testSecret, time.Hour), ms)
	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestRequireAuth_DeletedUserIsRevoked(t *testing.T) {
	tokens := auth.NewTokenManager(testSecret, time.Hour)
	ms := store.NewMemoryStore()

	token, err := tokens.Mint("ghost-user")
	require.NoError(t, err)

	h := newProtectedHandler(t, tokens, ms)
	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusForbidden, resp.Code,
		"a token whose user no longer exists is rejected")
}

func TestRequireAuth_ValidTokenInjectsUserID(t *testing.T) {
	tokens := auth.NewTokenManager(testSecret, time.Hour)
	ms := store.NewMemoryStore()
	user, err := ms.CreateUser(context.Background(), "Alice", "a@x.com", "hash")
	require.NoError(t, err)

	token, err := tokens.Mint(user.ID)
	require.NoError(t, err)

	h := newProtectedHandler(t, tokens, ms)
	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, user.ID, resp.Body.String())
}
