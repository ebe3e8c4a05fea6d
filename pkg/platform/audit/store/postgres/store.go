package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	id "precinct/pkg/domain"
	audit "precinct/pkg/platform/audit"
)

// Store persists audit events in PostgreSQL. Append-only; rows are never
// updated or deleted by application code.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	query := `
		INSERT INTO audit_events
			(category, occurred_at, officer_id, station_id, session_id, action, subject, reason, email, request_id, client_ip)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(ctx, query,
		string(event.Category),
		event.Timestamp,
		nullableID(uuid.UUID(event.OfficerID)),
		nullableID(uuid.UUID(event.StationID)),
		nullableID(uuid.UUID(event.SessionID)),
		event.Action,
		event.Subject,
		event.Reason,
		event.Email,
		event.RequestID,
		event.ClientIP,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *Store) ListByOfficer(ctx context.Context, officerID id.OfficerID) ([]audit.Event, error) {
	query := `
		SELECT category, occurred_at, officer_id, station_id, session_id, action, subject, reason, email, request_id, client_ip
		FROM audit_events
		WHERE officer_id = $1
		ORDER BY occurred_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(officerID))
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var (
			e                               audit.Event
			officerID, stationID, sessionID sql.Null[uuid.UUID]
		)
		if err := rows.Scan(
			&e.Category, &e.Timestamp, &officerID, &stationID, &sessionID,
			&e.Action, &e.Subject, &e.Reason, &e.Email, &e.RequestID, &e.ClientIP,
		); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		if officerID.Valid {
			e.OfficerID = id.OfficerID(officerID.V)
		}
		if stationID.Valid {
			e.StationID = id.StationID(stationID.V)
		}
		if sessionID.Valid {
			e.SessionID = id.SessionID(sessionID.V)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}

func nullableID(u uuid.UUID) any {
	if u == uuid.Nil {
		return nil
	}
	return u
}
