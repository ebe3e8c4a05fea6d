package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "precinct/pkg/domain"
	"precinct/pkg/requestcontext"
)

type stubTracker struct {
	touched []id.SessionID
}

func (t *stubTracker) Touch(_ context.Context, sessionID id.SessionID) {
	t.touched = append(t.touched, sessionID)
}

func TestTrackActivityTouchesSession(t *testing.T) {
	tracker := &stubTracker{}
	sessionID := id.SessionID(uuid.New())

	var reached bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/crime-records", nil)
	req = req.WithContext(requestcontext.WithSessionID(req.Context(), sessionID))
	rec := httptest.NewRecorder()
	TrackActivity(tracker)(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
	require.Len(t, tracker.touched, 1)
	assert.Equal(t, sessionID, tracker.touched[0], "the authenticated session is touched on every request")
}

func TestTrackActivityPassesNilSessionThrough(t *testing.T) {
	tracker := &stubTracker{}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/crime-records", nil)
	rec := httptest.NewRecorder()
	TrackActivity(tracker)(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, tracker.touched, 1)
	assert.True(t, tracker.touched[0].IsNil(), "missing session IDs reach Touch, which ignores them")
}
