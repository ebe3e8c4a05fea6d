package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"precinct/internal/session"
	id "precinct/pkg/domain"
	dErrors "precinct/pkg/domain-errors"
	"precinct/pkg/platform/httputil"
	"precinct/pkg/requestcontext"
)

type stubService struct {
	summaries []session.Summary
	err       error

	gotOfficer id.OfficerID
	gotCurrent id.SessionID
}

func (s *stubService) History(_ context.Context, officerID id.OfficerID, currentSessionID id.SessionID) ([]session.Summary, error) {
	s.gotOfficer = officerID
	s.gotCurrent = currentSessionID
	return s.summaries, s.err
}

func newTestRouter(service *stubService) http.Handler {
	logger := slog.New(slog.NewTextHandler(nopWriter{}, nil))
	r := chi.NewRouter()
	New(service, logger).Register(r)
	return r
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestHandleHistory(t *testing.T) {
	officerID := id.OfficerID(uuid.New())
	currentID := id.SessionID(uuid.New())
	service := &stubService{
		summaries: []session.Summary{{
			SessionID:      currentID,
			Device:         "Chrome on Windows",
			IPAddress:      "1.2.3.4",
			Location:       "Pune, India",
			LoginTime:      time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
			LastActiveTime: time.Date(2026, 8, 30, 11, 0, 0, 0, time.UTC),
			IsActive:       true,
			IsCurrent:      true,
		}},
	}
	router := newTestRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/sessions/history", nil)
	ctx := requestcontext.WithOfficerID(req.Context(), officerID)
	ctx = requestcontext.WithSessionID(ctx, currentID)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req.WithContext(ctx))

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Status string            `json:"status"`
		Data   []session.Summary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, httputil.StatusSuccess, envelope.Status)
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "Chrome on Windows", envelope.Data[0].Device)
	assert.True(t, envelope.Data[0].IsCurrent)

	assert.Equal(t, officerID, service.gotOfficer)
	assert.Equal(t, currentID, service.gotCurrent)
}

func TestHandleHistoryUnauthenticated(t *testing.T) {
	router := newTestRouter(&stubService{})

	req := httptest.NewRequest(http.MethodGet, "/sessions/history", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var envelope struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, httputil.StatusError, envelope.Status)
	assert.Equal(t, "authentication required", envelope.Message)
}

func TestHandleHistoryServiceError(t *testing.T) {
	service := &stubService{err: dErrors.Wrap(errors.New("pg down"), dErrors.CodeInternal, "failed to list sessions")}
	router := newTestRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/sessions/history", nil)
	ctx := requestcontext.WithOfficerID(req.Context(), id.OfficerID(uuid.New()))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req.WithContext(ctx))

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var envelope struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, httputil.StatusError, envelope.Status)
	assert.Equal(t, "internal error", envelope.Message, "internal detail must not leak to clients")
}
