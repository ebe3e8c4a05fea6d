// Package store defines session record persistence. Implementations return
// sentinel errors; the service translates them into domain errors.
package store

import (
	"context"
	"time"

	"precinct/internal/session"
	id "precinct/pkg/domain"
)

// Store persists the backend's copy of session descriptors.
type Store interface {
	// Save inserts or wholesale-replaces the record for its session ID.
	// Descriptors are superseded, never merged.
	Save(ctx context.Context, record *session.Record) error
	FindByID(ctx context.Context, sessionID id.SessionID) (*session.Record, error)
	// ListByOfficer returns records newest login first.
	ListByOfficer(ctx context.Context, officerID id.OfficerID) ([]*session.Record, error)
	// Touch advances last_active_time, never backwards.
	Touch(ctx context.Context, sessionID id.SessionID, now time.Time) error
	// Deactivate marks the session inactive. Idempotent; missing sessions
	// return sentinel.ErrNotFound.
	Deactivate(ctx context.Context, sessionID id.SessionID, now time.Time) error
}
