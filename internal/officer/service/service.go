// Package service implements officer authentication and administration.
//
// Login is deliberately sequenced: the client-supplied session descriptor is
// recorded first, then credentials are checked, then a token is issued. A
// failed credential check therefore still leaves an inactive descriptor trail
// for security review, but never a token.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"precinct/internal/officer"
	"precinct/internal/officer/store"
	"precinct/internal/session"
	id "precinct/pkg/domain"
	dErrors "precinct/pkg/domain-errors"
	"precinct/pkg/platform/audit"
	"precinct/pkg/platform/sentinel"
	"precinct/pkg/requestcontext"
)

// Sessions is the slice of the session service Login and Logout need.
type Sessions interface {
	Record(ctx context.Context, officerID id.OfficerID, descriptor session.Descriptor) error
	Deactivate(ctx context.Context, sessionID id.SessionID) error
}

// Tokens issues signed access tokens.
type Tokens interface {
	GenerateAccessToken(officerID id.OfficerID, sessionID id.SessionID, stationID id.StationID, expiresIn time.Duration) (token string, jti string, err error)
}

// TokenRevoker invalidates a JTI until the token would expire on its own.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
}

// Auditor records security and operations events. Emission never blocks.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event)
}

type Service struct {
	store    store.Store
	sessions Sessions
	tokens   Tokens
	revoker  TokenRevoker
	auditor  Auditor
	logger   *slog.Logger
	metrics  *Metrics
	tokenTTL time.Duration
}

func New(
	st store.Store,
	sessions Sessions,
	tokens Tokens,
	revoker TokenRevoker,
	auditor Auditor,
	logger *slog.Logger,
	metrics *Metrics,
	tokenTTL time.Duration,
) *Service {
	return &Service{
		store:    st,
		sessions: sessions,
		tokens:   tokens,
		revoker:  revoker,
		auditor:  auditor,
		logger:   logger,
		metrics:  metrics,
		tokenTTL: tokenTTL,
	}
}

// LoginResult is what a successful login returns. The console stores the
// token and re-fetches the profile with it.
type LoginResult struct {
	Token     string       `json:"token"`
	SessionID id.SessionID `json:"session_id"`
	ExpiresIn int64        `json:"expires_in"`
}

// Login verifies credentials and issues an access token bound to the
// client-supplied session descriptor. All credential failures collapse to one
// message so the response does not reveal which accounts exist.
func (s *Service) Login(ctx context.Context, email, password string, descriptor session.Descriptor) (*LoginResult, error) {
	invalidCredentials := dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")

	acct, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.auditFailedLogin(ctx, email, "unknown account")
			// burn comparable time so unknown emails are not distinguishable
			_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"), []byte(password))
			return nil, invalidCredentials
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up officer")
	}

	if !acct.CanAuthenticate() {
		s.auditFailedLogin(ctx, email, "account not active")
		return nil, invalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		s.auditFailedLogin(ctx, email, "bad password")
		return nil, invalidCredentials
	}

	if err := s.sessions.Record(ctx, acct.ID, descriptor); err != nil {
		return nil, err
	}

	token, jti, err := s.tokens.GenerateAccessToken(acct.ID, descriptor.SessionID, acct.StationID, s.tokenTTL)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue access token")
	}

	if s.metrics != nil {
		s.metrics.IncLoginSuccess()
	}
	s.auditor.Emit(ctx, audit.Event{
		Category:  audit.CategorySecurity,
		OfficerID: acct.ID,
		StationID: acct.StationID,
		SessionID: descriptor.SessionID,
		Action:    string(audit.EventSessionCreated),
		RequestID: requestcontext.RequestID(ctx),
		ClientIP:  requestcontext.ClientIP(ctx),
	})
	s.logger.InfoContext(ctx, "officer logged in",
		"officer_id", acct.ID.String(),
		"session_id", descriptor.SessionID.String(),
		"jti", jti,
	)

	return &LoginResult{
		Token:     token,
		SessionID: descriptor.SessionID,
		ExpiresIn: int64(s.tokenTTL.Seconds()),
	}, nil
}

// Logout deactivates the current session and revokes the presented token.
// Idempotent: repeating it, or calling it with an already-dead session,
// succeeds.
func (s *Service) Logout(ctx context.Context) error {
	sessionID := requestcontext.SessionID(ctx)
	if !sessionID.IsNil() {
		if err := s.sessions.Deactivate(ctx, sessionID); err != nil {
			return err
		}
	}

	if jti := requestcontext.TokenID(ctx); jti != "" && s.revoker != nil {
		if err := s.revoker.Revoke(ctx, jti, s.tokenTTL); err != nil {
			// the session row is already dead; a failed revocation only
			// shortens nothing, so log and continue
			s.logger.ErrorContext(ctx, "failed to revoke token", "error", err, "jti", jti)
		}
	}

	if s.metrics != nil {
		s.metrics.IncLogout()
	}
	s.auditor.Emit(ctx, audit.Event{
		Category:  audit.CategorySecurity,
		OfficerID: requestcontext.OfficerID(ctx),
		SessionID: sessionID,
		Action:    string(audit.EventSessionRevoked),
		RequestID: requestcontext.RequestID(ctx),
		ClientIP:  requestcontext.ClientIP(ctx),
	})
	return nil
}

// GetProfile returns the authenticated officer's own profile.
func (s *Service) GetProfile(ctx context.Context) (*officer.Profile, error) {
	officerID := requestcontext.OfficerID(ctx)
	if officerID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}

	acct, err := s.store.FindByID(ctx, officerID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "account no longer exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile")
	}

	profile := acct.ToProfile()
	return &profile, nil
}

// Create provisions a new officer account.
func (s *Service) Create(ctx context.Context, in officer.CreateInput) (*officer.Profile, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	now := requestcontext.Now(ctx)
	acct := &officer.Officer{
		ID:           id.OfficerID(uuid.New()),
		StationID:    in.StationID,
		Name:         in.Name,
		Username:     in.Username,
		Email:        in.Email,
		Designation:  in.Designation,
		BadgeNumber:  in.BadgeNumber,
		MobileNumber: in.MobileNumber,
		JoiningDate:  in.JoiningDate,
		Status:       officer.StatusActive,
		PasswordHash: string(hash),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
		CreatedBy:    requestcontext.OfficerID(ctx),
		UpdatedBy:    requestcontext.OfficerID(ctx),
	}

	if err := s.store.Create(ctx, acct); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "an officer with this email already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create officer")
	}

	s.auditor.Emit(ctx, audit.Event{
		Category:  audit.CategoryOperations,
		OfficerID: requestcontext.OfficerID(ctx),
		StationID: acct.StationID,
		Action:    string(audit.EventOfficerCreated),
		Subject:   acct.ID.String(),
		RequestID: requestcontext.RequestID(ctx),
	})

	profile := acct.ToProfile()
	return &profile, nil
}

// List returns officer profiles, optionally filtered by station.
func (s *Service) List(ctx context.Context, stationID id.StationID) ([]officer.Profile, error) {
	accounts, err := s.store.ListByStation(ctx, stationID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list officers")
	}
	profiles := make([]officer.Profile, 0, len(accounts))
	for _, acct := range accounts {
		profiles = append(profiles, acct.ToProfile())
	}
	return profiles, nil
}

// Update edits an existing account.
func (s *Service) Update(ctx context.Context, officerID id.OfficerID, in officer.UpdateInput) (*officer.Profile, error) {
	acct, err := s.store.FindByID(ctx, officerID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "officer not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load officer")
	}

	acct.Apply(in, requestcontext.Now(ctx), requestcontext.OfficerID(ctx))
	if err := s.store.Update(ctx, acct); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update officer")
	}

	s.auditor.Emit(ctx, audit.Event{
		Category:  audit.CategoryOperations,
		OfficerID: requestcontext.OfficerID(ctx),
		StationID: acct.StationID,
		Action:    string(audit.EventOfficerUpdated),
		Subject:   acct.ID.String(),
		RequestID: requestcontext.RequestID(ctx),
	})

	profile := acct.ToProfile()
	return &profile, nil
}

// Deactivate soft-deletes an account. Idempotent.
func (s *Service) Deactivate(ctx context.Context, officerID id.OfficerID) error {
	acct, err := s.store.FindByID(ctx, officerID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load officer")
	}

	now := requestcontext.Now(ctx)
	acct.IsActive = false
	acct.IsDeleted = true
	acct.DeletedAt = &now
	acct.DeletedBy = requestcontext.OfficerID(ctx)
	acct.UpdatedAt = now
	acct.UpdatedBy = requestcontext.OfficerID(ctx)

	if err := s.store.Update(ctx, acct); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to deactivate officer")
	}

	s.auditor.Emit(ctx, audit.Event{
		Category:  audit.CategorySecurity,
		OfficerID: requestcontext.OfficerID(ctx),
		StationID: acct.StationID,
		Action:    string(audit.EventOfficerDeactivated),
		Subject:   acct.ID.String(),
		RequestID: requestcontext.RequestID(ctx),
	})
	return nil
}

func (s *Service) auditFailedLogin(ctx context.Context, email, reason string) {
	if s.metrics != nil {
		s.metrics.IncLoginFailure()
	}
	s.auditor.Emit(ctx, audit.Event{
		Category:  audit.CategorySecurity,
		Action:    string(audit.EventAuthFailed),
		Email:     email,
		Reason:    reason,
		RequestID: requestcontext.RequestID(ctx),
		ClientIP:  requestcontext.ClientIP(ctx),
	})
}
