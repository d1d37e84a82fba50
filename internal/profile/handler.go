package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pulseboard/backend/internal/activity"
	"github.com/pulseboard/backend/internal/api"
	"github.com/pulseboard/backend/internal/apperr"
	"github.com/pulseboard/backend/internal/middleware"
)

const maxAvatarBytes = 5 << 20 // 5 MiB

// FileStore defines the media storage avatar uploads need.
type FileStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
}

// Handler holds the profile HTTP handlers.
type Handler struct {
	svc          *Service
	media        FileStore
	mediaBaseURL string
	respond      *api.Responder
	recorder     *activity.Recorder
}

func NewHandler(svc *Service, media FileStore, mediaBaseURL string, respond *api.Responder, recorder *activity.Recorder) *Handler {
	return &Handler{
		svc:          svc,
		media:        media,
		mediaBaseURL: strings.TrimRight(mediaBaseURL, "/"),
		respond:      respond,
		recorder:     recorder,
	}
}

func (h *Handler) upsert(w http.ResponseWriter, r *http.Request, status int) {
	userID := middleware.UserID(r.Context())

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respond.Err(w, apperr.Validation("Invalid request body"))
		return
	}

	user, err := h.svc.Upsert(r.Context(), userID, req)
	if err != nil {
		h.respond.Err(w, err)
		return
	}

	h.recorder.Record(userID, activity.ActionProfileUpdate, "")
	h.respond.OK(w, status, "Profile updated successfully", map[string]interface{}{
		"profile": user,
	})
}

// Update handles PUT /profile.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	h.upsert(w, r, http.StatusOK)
}

// Complete handles POST /profile/complete. Same semantics as Update; kept as
// a separate route so a fresh signup can finish onboarding with one call.
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	h.upsert(w, r, http.StatusCreated)
}

// GetOwn handles GET /profile.
func (h *Handler) GetOwn(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.GetOwn(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		h.respond.Err(w, err)
		return
	}
	h.respond.OK(w, http.StatusOK, "Profile fetched successfully", map[string]interface{}{
		"user": user,
	})
}

// GetPublic handles GET /profile/public/{id}.
func (h *Handler) GetPublic(w http.ResponseWriter, r *http.Request) {
	pub, err := h.svc.GetPublic(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respond.Err(w, err)
		return
	}
	h.respond.OK(w, http.StatusOK, "Public profile fetched successfully", map[string]interface{}{
		"profile": pub,
	})
}

// UploadAvatar handles POST /profile/avatar: stores the image in media
// storage and points the profile avatar at the issued URL.
func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	if h.media == nil {
		h.respond.Err(w, apperr.Internal("Media storage is not configured", nil))
		return
	}

	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		h.respond.Err(w, apperr.Validation("Avatar file is too large or malformed"))
		return
	}
	file, header, err := r.FormFile("avatar")
	if err != nil {
		h.respond.Err(w, apperr.Validation("Avatar file is required"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		h.respond.Err(w, apperr.Validation("Avatar must be an image"))
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxAvatarBytes+1))
	if err != nil {
		h.respond.Err(w, apperr.Internal("Failed to read avatar file", err))
		return
	}
	if len(data) > maxAvatarBytes {
		h.respond.Err(w, apperr.Validation("Avatar file is too large or malformed"))
		return
	}

	key := fmt.Sprintf("%s/avatar-%s%s", userID, uuid.New().String(), path.Ext(header.Filename))
	if err := h.media.Upload(r.Context(), key, data, contentType); err != nil {
		h.respond.Err(w, apperr.Internal("Failed to store avatar", err))
		return
	}

	avatarURL := h.mediaBaseURL + "/" + key
	user, err := h.svc.Upsert(r.Context(), userID, UpdateRequest{Avatar: &avatarURL})
	if err != nil {
		h.respond.Err(w, err)
		return
	}

	h.recorder.Record(userID, activity.ActionProfileUpdate, "")
	h.respond.OK(w, http.StatusCreated, "Avatar uploaded successfully", map[string]interface{}{
		"profile": user,
	})
}
