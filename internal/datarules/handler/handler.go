// Package handler exposes the data-rules HTTP endpoints. All routes sit
// behind RequireAuth.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"precinct/internal/datarules"
	"precinct/internal/datarules/store"
	id "precinct/pkg/domain"
	"precinct/pkg/platform/httputil"
)

// Service defines the taxonomy operations the handler consumes.
type Service interface {
	Create(ctx context.Context, in datarules.CreateInput) (*datarules.Rule, error)
	Get(ctx context.Context, ruleID id.RuleID) (*datarules.Rule, error)
	List(ctx context.Context, filter store.Filter) ([]*datarules.Rule, error)
	Update(ctx context.Context, ruleID id.RuleID, in datarules.UpdateInput) (*datarules.Rule, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts data-rule endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/data-rules", func(r chi.Router) {
		r.Post("/", h.HandleCreate)
		r.Get("/", h.HandleList)
		r.Get("/{ruleID}", h.HandleGet)
		r.Patch("/{ruleID}", h.HandleUpdate)
	})
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeAndPrepare[datarules.CreateInput](w, r, h.logger)
	if !ok {
		return
	}

	rule, err := h.service.Create(r.Context(), *req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, rule, "data rule created")
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ruleID, err := id.ParseRuleID(chi.URLParam(r, "ruleID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	rule, err := h.service.Get(r.Context(), ruleID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rule, "")
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	var filter store.Filter
	if raw := r.URL.Query().Get("kind"); raw != "" {
		filter.Kind = datarules.Kind(raw)
	}
	if raw := r.URL.Query().Get("parent_id"); raw != "" {
		parentID, err := id.ParseRuleID(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		filter.ParentID = parentID
	}

	rules, err := h.service.List(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rules, "")
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ruleID, err := id.ParseRuleID(chi.URLParam(r, "ruleID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[datarules.UpdateInput](w, r, h.logger)
	if !ok {
		return
	}

	rule, err := h.service.Update(r.Context(), ruleID, *req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rule, "data rule updated")
}
