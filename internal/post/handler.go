package post

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pulseboard/backend/internal/activity"
	"github.com/pulseboard/backend/internal/api"
	"github.com/pulseboard/backend/internal/apperr"
	"github.com/pulseboard/backend/internal/middleware"
	"github.com/pulseboard/backend/internal/models"
)

// Handler holds the post HTTP handlers.
type Handler struct {
	svc      *Service
	respond  *api.Responder
	recorder *activity.Recorder
}

func NewHandler(svc *Service, respond *api.Responder, recorder *activity.Recorder) *Handler {
	return &Handler{svc: svc, respond: respond, recorder: recorder}
}

// Create handles POST /posts.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	authorID := middleware.UserID(r.Context())

	var req models.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respond.Err(w, apperr.Validation("Invalid request body"))
		return
	}

	created, err := h.svc.Create(r.Context(), authorID, req.Title, req.Content, req.Img)
	if err != nil {
		h.respond.Err(w, err)
		return
	}

	h.recorder.Record(authorID, activity.ActionPostCreate, created.ID)
	h.respond.OK(w, http.StatusCreated, "Post created successfully", map[string]interface{}{
		"post": created,
	})
}

// List handles GET /posts.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.ListAll(r.Context())
	if err != nil {
		h.respond.Err(w, err)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	h.respond.OK(w, http.StatusOK, "Posts fetched successfully", map[string]interface{}{
		"posts": posts,
	})
}

// Get handles GET /posts/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respond.Err(w, err)
		return
	}
	h.respond.OK(w, http.StatusOK, "Post fetched successfully", map[string]interface{}{
		"post": p,
	})
}

// MyPosts handles GET /posts/my/posts.
func (h *Handler) MyPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.ListByAuthor(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		h.respond.Err(w, err)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	h.respond.OK(w, http.StatusOK, "Posts fetched successfully", map[string]interface{}{
		"posts": posts,
	})
}

// Update handles PUT /posts/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	authorID := middleware.UserID(r.Context())
	postID := chi.URLParam(r, "id")

	var patch models.PostPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.respond.Err(w, apperr.Validation("Invalid request body"))
		return
	}

	updated, err := h.svc.Update(r.Context(), authorID, postID, patch)
	if err != nil {
		h.respond.Err(w, err)
		return
	}

	h.recorder.Record(authorID, activity.ActionPostUpdate, postID)
	h.respond.OK(w, http.StatusOK, "Post updated successfully", map[string]interface{}{
		"post": updated,
	})
}

// Delete handles DELETE /posts/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	authorID := middleware.UserID(r.Context())
	postID := chi.URLParam(r, "id")

	if err := h.svc.Delete(r.Context(), authorID, postID); err != nil {
		h.respond.Err(w, err)
		return
	}

	h.recorder.Record(authorID, activity.ActionPostDelete, postID)
	h.respond.OK(w, http.StatusOK, "Post deleted successfully", nil)
}
