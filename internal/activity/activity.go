package activity

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/pulseboard/backend/internal/api"
	"github.com/pulseboard/backend/internal/middleware"
	"github.com/pulseboard/backend/internal/models"
)

// Actions recorded in the trail.
const (
	ActionSignup        = "signup"
	ActionLogin         = "login"
	ActionProfileUpdate = "profile_update"
	ActionPostCreate    = "post_create"
	ActionPostUpdate    = "post_update"
	ActionPostDelete    = "post_delete"
)

const (
	recordTimeout = 2 * time.Second
	listLimit     = 50
)

// EventStore defines the persistence the recorder needs.
type EventStore interface {
	InsertEvent(ctx context.Context, ev *models.ActivityEvent) error
	ListEventsByUser(ctx context.Context, userID string, limit int64) ([]models.ActivityEvent, error)
}

// Recorder writes activity events best-effort: failures are logged and never
// surfaced to the request. A Recorder with a nil store is a no-op.
type Recorder struct {
	store EventStore
	log   zerolog.Logger
}

func NewRecorder(store EventStore, log zerolog.Logger) *Recorder {
	return &Recorder{store: store, log: log}
}

// Record persists an event in the background, detached from the request
// context so a finished request doesn't cancel the write.
func (r *Recorder) Record(userID, action, objectID string) {
	if r == nil || r.store == nil {
		return
	}
	ev := &models.ActivityEvent{
		UserID:    userID,
		Action:    action,
		ObjectID:  objectID,
		CreatedAt: time.Now(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		if err := r.store.InsertEvent(ctx, ev); err != nil {
			r.log.Warn().Err(err).Str("action", action).Msg("activity record failed")
		}
	}()
}

// Handler serves the caller's activity trail.
type Handler struct {
	store   EventStore
	respond *api.Responder
}

func NewHandler(store EventStore, respond *api.Responder) *Handler {
	return &Handler{store: store, respond: respond}
}

// List handles GET /activity.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	if h.store == nil {
		h.respond.OK(w, http.StatusOK, "Activity fetched successfully", map[string]interface{}{
			"activities": []models.ActivityEvent{},
		})
		return
	}

	events, err := h.store.ListEventsByUser(r.Context(), userID, listLimit)
	if err != nil {
		h.respond.Err(w, err)
		return
	}
	if events == nil {
		events = []models.ActivityEvent{}
	}
	h.respond.OK(w, http.StatusOK, "Activity fetched successfully", map[string]interface{}{
		"activities": events,
	})
}
