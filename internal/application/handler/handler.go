// Package handler exposes the applications HTTP endpoints. All routes sit
// behind RequireAuth.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"precinct/internal/application"
	"precinct/internal/application/store"
	id "precinct/pkg/domain"
	"precinct/pkg/platform/httputil"
)

// Service defines the application operations the handler consumes.
type Service interface {
	Create(ctx context.Context, in application.CreateInput) (*application.Application, error)
	Get(ctx context.Context, applicationID id.ApplicationID) (*application.Application, error)
	List(ctx context.Context, filter store.Filter) ([]*application.Application, error)
	Update(ctx context.Context, applicationID id.ApplicationID, in application.UpdateInput) (*application.Application, error)
	Delete(ctx context.Context, applicationID id.ApplicationID) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts application endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/applications", func(r chi.Router) {
		r.Post("/", h.HandleCreate)
		r.Get("/", h.HandleList)
		r.Get("/{applicationID}", h.HandleGet)
		r.Patch("/{applicationID}", h.HandleUpdate)
		r.Delete("/{applicationID}", h.HandleDelete)
	})
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeAndPrepare[application.CreateInput](w, r, h.logger)
	if !ok {
		return
	}

	app, err := h.service.Create(r.Context(), *req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, app, "application created")
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	applicationID, err := id.ParseApplicationID(chi.URLParam(r, "applicationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	app, err := h.service.Get(r.Context(), applicationID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, app, "")
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	var filter store.Filter
	if raw := r.URL.Query().Get("station_id"); raw != "" {
		stationID, err := id.ParseStationID(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		filter.StationID = stationID
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		filter.Status = application.Status(raw)
	}

	apps, err := h.service.List(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, apps, "")
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	applicationID, err := id.ParseApplicationID(chi.URLParam(r, "applicationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[application.UpdateInput](w, r, h.logger)
	if !ok {
		return
	}

	app, err := h.service.Update(r.Context(), applicationID, *req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, app, "application updated")
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	applicationID, err := id.ParseApplicationID(chi.URLParam(r, "applicationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), applicationID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, nil, "application deleted")
}
