// Package service owns the lifecycle of the backend's session records: one
// per login attempt, superseded wholesale, touched on activity, deactivated on
// logout.
package service

import (
	"context"
	"errors"
	"log/slog"

	"precinct/internal/session"
	"precinct/internal/session/store"
	id "precinct/pkg/domain"
	dErrors "precinct/pkg/domain-errors"
	"precinct/pkg/platform/sentinel"
	"precinct/pkg/requestcontext"
)

// Cache is the optional hot-path lookup in front of the store. Failures are
// logged and ignored; the store stays authoritative.
type Cache interface {
	Put(ctx context.Context, record *session.Record) error
	Delete(ctx context.Context, sessionID id.SessionID) error
}

type Service struct {
	store   store.Store
	cache   Cache
	logger  *slog.Logger
	metrics *Metrics
}

func New(st store.Store, cache Cache, logger *slog.Logger, metrics *Metrics) *Service {
	return &Service{store: st, cache: cache, logger: logger, metrics: metrics}
}

// Record persists the backend's copy of a login-time descriptor. The previous
// descriptor for the same session ID, if any, is replaced, never merged.
func (s *Service) Record(ctx context.Context, officerID id.OfficerID, descriptor session.Descriptor) error {
	if officerID.IsNil() {
		return dErrors.New(dErrors.CodeUnauthorized, "officer ID required")
	}
	descriptor.Normalize()
	if err := descriptor.Validate(); err != nil {
		return err
	}

	record := &session.Record{
		Descriptor: descriptor,
		OfficerID:  officerID,
		UserAgent:  requestcontext.UserAgent(ctx),
	}
	if err := s.store.Save(ctx, record); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record session")
	}
	s.cachePut(ctx, record)

	if s.metrics != nil {
		s.metrics.IncRecorded()
	}
	return nil
}

// History lists the officer's sessions, newest login first, for the settings
// page. The current session is flagged so the UI can pin it.
func (s *Service) History(ctx context.Context, officerID id.OfficerID, currentSessionID id.SessionID) ([]session.Summary, error) {
	if officerID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "officer ID required")
	}

	records, err := s.store.ListByOfficer(ctx, officerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list sessions")
	}

	summaries := make([]session.Summary, 0, len(records))
	for _, record := range records {
		summaries = append(summaries, session.Summary{
			SessionID:      record.Descriptor.SessionID,
			Device:         session.DisplayName(record.UserAgent),
			IPAddress:      record.Descriptor.IPAddress,
			Location:       session.Location(record.Descriptor),
			LoginTime:      record.Descriptor.LoginTime,
			LastActiveTime: record.Descriptor.LastActiveTime,
			IsActive:       record.Descriptor.IsActive,
			IsCurrent:      record.Descriptor.SessionID == currentSessionID,
		})
	}
	return summaries, nil
}

// Touch advances a session's last_active_time to the request time. Stale
// touches are silently ignored; unknown sessions are not an error because the
// token may outlive a pruned history row.
func (s *Service) Touch(ctx context.Context, sessionID id.SessionID) {
	if sessionID.IsNil() {
		return
	}
	err := s.store.Touch(ctx, sessionID, requestcontext.Now(ctx))
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		s.logger.WarnContext(ctx, "failed to touch session",
			"error", err,
			"session_id", sessionID.String(),
		)
	}
}

// Deactivate marks a session inactive on logout. Idempotent: deactivating an
// already-inactive or missing session succeeds.
func (s *Service) Deactivate(ctx context.Context, sessionID id.SessionID) error {
	if sessionID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "session ID required")
	}

	err := s.store.Deactivate(ctx, sessionID, requestcontext.Now(ctx))
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to deactivate session")
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, sessionID); err != nil {
			s.logger.WarnContext(ctx, "failed to evict cached session",
				"error", err,
				"session_id", sessionID.String(),
			)
		}
	}
	if s.metrics != nil {
		s.metrics.IncDeactivated()
	}
	return nil
}

func (s *Service) cachePut(ctx context.Context, record *session.Record) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Put(ctx, record); err != nil {
		s.logger.WarnContext(ctx, "failed to cache session record",
			"error", err,
			"session_id", record.Descriptor.SessionID.String(),
		)
	}
}
