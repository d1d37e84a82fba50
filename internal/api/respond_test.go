package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulseboard/backend/internal/apperr"
)

func decode(t *testing.T, resp *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
	return env
}

func TestOK(t *testing.T) {
	rs := NewResponder(false, zerolog.Nop())
	resp := httptest.NewRecorder()

	rs.OK(resp, http.StatusCreated, "created", map[string]string{"id": "1"})

	assert.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, "application/json", resp.Header().Get("Content-Type"))
	env := decode(t, resp)
	assert.True(t, env.Success)
	assert.Equal(t, "created", env.Message)
}

func TestErr_ValidationCarriesFields(t *testing.T) {
	rs := NewResponder(false, zerolog.Nop())
	resp := httptest.NewRecorder()

	rs.Err(resp, apperr.Validation("bad name", "bad email"))

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	env := decode(t, resp)
	assert.False(t, env.Success)
	assert.Equal(t, []string{"bad name", "bad email"}, env.Errors)
}

func TestErr_InternalHidesDetailInProduction(t *testing.T) {
	rs := NewResponder(false, zerolog.Nop())
	resp := httptest.NewRecorder()

	rs.Err(resp, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	env := decode(t, resp)
	assert.Equal(t, "Internal server error", env.Message)
	assert.Empty(t, env.Error)
}

func TestErr_InternalExposesDetailInDevelopment(t *testing.T) {
	rs := NewResponder(true, zerolog.Nop())
	resp := httptest.NewRecorder()

	rs.Err(resp, errors.New("pq: connection refused"))

	env := decode(t, resp)
	assert.Contains(t, env.Error, "connection refused")
}
