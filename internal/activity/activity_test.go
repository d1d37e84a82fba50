package activity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulseboard/backend/internal/api"
	"github.com/pulseboard/backend/internal/middleware"
	"github.com/pulseboard/backend/internal/models"
)

type fakeEventStore struct {
	inserted chan *models.ActivityEvent
	events   []models.ActivityEvent
}

func (f *fakeEventStore) InsertEvent(_ context.Context, ev *models.ActivityEvent) error {
	f.inserted <- ev
	return nil
}

func (f *fakeEventStore) ListEventsByUser(_ context.Context, userID string, _ int64) ([]models.ActivityEvent, error) {
	var out []models.ActivityEvent
	for _, ev := range f.events {
		if ev.UserID == userID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func TestRecorder_WritesInBackground(t *testing.T) {
	fake := &fakeEventStore{inserted: make(chan *models.ActivityEvent, 1)}
	rec := NewRecorder(fake, zerolog.Nop())

	rec.Record("user-1", ActionPostCreate, "post-9")

	select {
	case ev := <-fake.inserted:
		assert.Equal(t, "user-1", ev.UserID)
		assert.Equal(t, ActionPostCreate, ev.Action)
		assert.Equal(t, "post-9", ev.ObjectID)
		assert.False(t, ev.CreatedAt.IsZero())
	case <-time.After(time.Second):
		t.Fatal("event was never inserted")
	}
}

func TestRecorder_NilStoreIsNoop(t *testing.T) {
	rec := NewRecorder(nil, zerolog.Nop())
	rec.Record("user-1", ActionLogin, "")
}

func TestHandlerList(t *testing.T) {
	fake := &fakeEventStore{
		events: []models.ActivityEvent{
			{UserID: "user-1", Action: ActionLogin, CreatedAt: time.Now()},
			{UserID: "user-2", Action: ActionSignup, CreatedAt: time.Now()},
		},
	}
	h := NewHandler(fake, api.NewResponder(false, zerolog.Nop()))

	req := httptest.NewRequest(http.MethodGet, "/activity", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), "user-1"))
	resp := httptest.NewRecorder()
	h.List(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	var env api.Envelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
	activities := env.Data.(map[string]interface{})["activities"].([]interface{})
	require.Len(t, activities, 1)
	first := activities[0].(map[string]interface{})
	assert.Equal(t, ActionLogin, first["action"])
}

func TestHandlerList_NoStore(t *testing.T) {
	h := NewHandler(nil, api.NewResponder(false, zerolog.Nop()))

	req := httptest.NewRequest(http.MethodGet, "/activity", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), "user-1"))
	resp := httptest.NewRecorder()
	h.List(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
}
