package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"precinct/internal/session"
	id "precinct/pkg/domain"
	dErrors "precinct/pkg/domain-errors"
	"precinct/pkg/platform/httputil"
	"precinct/pkg/requestcontext"
)

// Service defines the session operations the settings page consumes.
type Service interface {
	History(ctx context.Context, officerID id.OfficerID, currentSessionID id.SessionID) ([]session.Summary, error)
}

// Handler exposes the session history endpoint. Mounted behind RequireAuth.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts session endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/sessions/history", h.HandleHistory)
}

// HandleHistory handles GET /sessions/history.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	officerID := requestcontext.OfficerID(ctx)
	if officerID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	summaries, err := h.service.History(ctx, officerID, requestcontext.SessionID(ctx))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list session history",
			"request_id", requestcontext.RequestID(ctx),
			"officer_id", officerID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, summaries, "")
}
