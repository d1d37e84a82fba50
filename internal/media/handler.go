package media

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pulseboard/backend/internal/api"
	"github.com/pulseboard/backend/internal/apperr"
)

// FileStore defines the object storage the media routes read from.
type FileStore interface {
	Download(ctx context.Context, key string) ([]byte, string, error)
}

// Handler streams stored media objects so issued avatar and post image URLs
// resolve.
type Handler struct {
	files   FileStore
	respond *api.Responder
}

func NewHandler(files FileStore, respond *api.Responder) *Handler {
	return &Handler{files: files, respond: respond}
}

// Serve handles GET /media/*.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if key == "" || h.files == nil {
		h.respond.Err(w, apperr.NotFound("Media not found"))
		return
	}

	data, contentType, err := h.files.Download(r.Context(), key)
	if err != nil {
		h.respond.Err(w, apperr.NotFound("Media not found"))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(data)
}
