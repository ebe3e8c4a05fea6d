// Package handler exposes the police-officers HTTP endpoints. Login is the
// only public route; everything else sits behind RequireAuth.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"precinct/internal/officer"
	officersvc "precinct/internal/officer/service"
	"precinct/internal/session"
	id "precinct/pkg/domain"
	dErrors "precinct/pkg/domain-errors"
	"precinct/pkg/platform/httputil"
)

// Service defines the officer operations the handler consumes.
type Service interface {
	Login(ctx context.Context, email, password string, descriptor session.Descriptor) (*officersvc.LoginResult, error)
	Logout(ctx context.Context) error
	GetProfile(ctx context.Context) (*officer.Profile, error)
	Create(ctx context.Context, in officer.CreateInput) (*officer.Profile, error)
	List(ctx context.Context, stationID id.StationID) ([]officer.Profile, error)
	Update(ctx context.Context, officerID id.OfficerID, in officer.UpdateInput) (*officer.Profile, error)
	Deactivate(ctx context.Context, officerID id.OfficerID) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterPublic mounts the unauthenticated routes.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/police-officers/login", h.HandleLogin)
}

// Register mounts the authenticated routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/police-officers/get-officer-profile", h.HandleGetProfile)
	r.Post("/police-officers/create-officer", h.HandleCreate)
	r.Get("/police-officers", h.HandleList)
	r.Patch("/police-officers/{officerID}", h.HandleUpdate)
	r.Delete("/police-officers/{officerID}", h.HandleDeactivate)
	r.Post("/police-officers/logout", h.HandleLogout)
}

// LoginRequest is the login body. SessionInfo is the descriptor the console
// assembled before the credential check.
type LoginRequest struct {
	Email       string             `json:"email"`
	Password    string             `json:"password"`
	SessionInfo session.Descriptor `json:"sessionInfo"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.SessionInfo.Normalize()
}

func (r *LoginRequest) Validate() error {
	if r.Email == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "email is required")
	}
	if r.Password == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "password is required")
	}
	return r.SessionInfo.Validate()
}

// HandleLogin handles POST /police-officers/login.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.DecodeAndPrepare[LoginRequest](w, r, h.logger)
	if !ok {
		return
	}

	result, err := h.service.Login(ctx, req.Email, req.Password, req.SessionInfo)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result, "login successful")
}

// HandleLogout handles POST /police-officers/logout.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context()); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, nil, "logged out")
}

// HandleGetProfile handles GET /police-officers/get-officer-profile.
func (h *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.GetProfile(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, profile, "")
}

// HandleCreate handles POST /police-officers/create-officer.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeAndPrepare[officer.CreateInput](w, r, h.logger)
	if !ok {
		return
	}

	profile, err := h.service.Create(r.Context(), *req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, profile, "officer created")
}

// HandleList handles GET /police-officers. The optional station_id query
// parameter narrows the result to one station.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	var stationID id.StationID
	if raw := r.URL.Query().Get("station_id"); raw != "" {
		parsed, err := id.ParseStationID(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		stationID = parsed
	}

	profiles, err := h.service.List(r.Context(), stationID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, profiles, "")
}

// HandleUpdate handles PATCH /police-officers/{officerID}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	officerID, err := id.ParseOfficerID(chi.URLParam(r, "officerID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[officer.UpdateInput](w, r, h.logger)
	if !ok {
		return
	}

	profile, err := h.service.Update(r.Context(), officerID, *req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, profile, "officer updated")
}

// HandleDeactivate handles DELETE /police-officers/{officerID}.
func (h *Handler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	officerID, err := id.ParseOfficerID(chi.URLParam(r, "officerID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Deactivate(r.Context(), officerID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, nil, "officer deactivated")
}
