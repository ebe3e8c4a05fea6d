// Package handler exposes the crime-records HTTP endpoints. All routes sit
// behind RequireAuth.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"precinct/internal/crime"
	"precinct/internal/crime/store"
	id "precinct/pkg/domain"
	"precinct/pkg/platform/httputil"
)

// Service defines the crime-record operations the handler consumes.
type Service interface {
	Create(ctx context.Context, in crime.CreateInput) (*crime.Record, error)
	Get(ctx context.Context, crimeID id.CrimeID) (*crime.Record, error)
	List(ctx context.Context, filter store.Filter) ([]*crime.Record, error)
	Update(ctx context.Context, crimeID id.CrimeID, in crime.UpdateInput) (*crime.Record, error)
	Delete(ctx context.Context, crimeID id.CrimeID) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts crime-record endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/crime-records", func(r chi.Router) {
		r.Post("/", h.HandleCreate)
		r.Get("/", h.HandleList)
		r.Get("/{crimeID}", h.HandleGet)
		r.Patch("/{crimeID}", h.HandleUpdate)
		r.Delete("/{crimeID}", h.HandleDelete)
	})
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeAndPrepare[crime.CreateInput](w, r, h.logger)
	if !ok {
		return
	}

	record, err := h.service.Create(r.Context(), *req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, record, "crime record created")
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	crimeID, err := id.ParseCrimeID(chi.URLParam(r, "crimeID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	record, err := h.service.Get(r.Context(), crimeID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record, "")
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
		filter.Status = crime.Status(raw)
	}

	records, err := h.service.List(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, records, "")
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	crimeID, err := id.ParseCrimeID(chi.URLParam(r, "crimeID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[crime.UpdateInput](w, r, h.logger)
	if !ok {
		return
	}

	record, err := h.service.Update(r.Context(), crimeID, *req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record, "crime record updated")
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	crimeID, err := id.ParseCrimeID(chi.URLParam(r, "crimeID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), crimeID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, nil, "crime record deleted")
}
