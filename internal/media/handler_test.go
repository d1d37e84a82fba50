package media

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/pulseboard/backend/internal/api"
	"github.com/pulseboard/backend/internal/store"
)

type fakeFileStore struct {
	objects map[string]fakeObject
}

type fakeObject struct {
	data        []byte
	contentType string
}

func (f *fakeFileStore) Download(_ context.Context, key string) ([]byte, string, error) {
	obj, ok := f.objects[key]
	if !ok {
		return nil, "", store.ErrNotFound
	}
	return obj.data, obj.contentType, nil
}

func newMediaRouter(files FileStore) http.Handler {
	h := NewHandler(files, api.NewResponder(false, zerolog.Nop()))
	r := chi.NewRouter()
	r.Get("/media/*", h.Serve)
	return r
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
	return resp
}

func TestServe_ReturnsStoredObject(t *testing.T) {
	files := &fakeFileStore{objects: map[string]fakeObject{
		"user-1/avatar-abc.png": {data: []byte("png-bytes"), contentType: "image/png"},
	}}
	r := newMediaRouter(files)

	resp := get(r, "/media/user-1/avatar-abc.png")

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, []byte("png-bytes"), resp.Body.Bytes())
	assert.Equal(t, "image/png", resp.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=86400", resp.Header().Get("Cache-Control"))
}

func TestServe_UnknownKeyIsNotFound(t *testing.T) {
	r := newMediaRouter(&fakeFileStore{objects: map[string]fakeObject{}})

	resp := get(r, "/media/user-1/missing.png")

	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), "Media not found")
}

func TestServe_NilStoreIsNotFound(t *testing.T) {
	r := newMediaRouter(nil)

	resp := get(r, "/media/anything.png")

	assert.Equal(t, http.StatusNotFound, resp.Code)
}
