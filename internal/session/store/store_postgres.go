package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"precinct/internal/session"
	id "precinct/pkg/domain"
	"precinct/pkg/platform/sentinel"
)

// Postgres persists session records with pgx. Sessions are the highest-write
// table in the system (one row per login attempt plus touches), so this store
// uses the pool driver directly rather than database/sql.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (s *Postgres) Save(ctx context.Context, record *session.Record) error {
	query := `
		INSERT INTO officer_sessions
			(session_id, officer_id, officer_email, ip_address, browser, os, device,
			 latitude, longitude, city, country, user_agent, login_time, last_active_time, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (session_id) DO UPDATE SET
			officer_id = EXCLUDED.officer_id,
			officer_email = EXCLUDED.officer_email,
			ip_address = EXCLUDED.ip_address,
			browser = EXCLUDED.browser,
			os = EXCLUDED.os,
			device = EXCLUDED.device,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			city = EXCLUDED.city,
			country = EXCLUDED.country,
			user_agent = EXCLUDED.user_agent,
			login_time = EXCLUDED.login_time,
			last_active_time = EXCLUDED.last_active_time,
			is_active = EXCLUDED.is_active
	`
	d := record.Descriptor
	_, err := s.pool.Exec(ctx, query,
		uuid.UUID(d.SessionID), uuid.UUID(record.OfficerID), d.OfficerEmail, d.IPAddress,
		d.DeviceInfo.Browser, d.DeviceInfo.OS, d.DeviceInfo.Device,
		d.Latitude, d.Longitude, d.City, d.Country, record.UserAgent,
		d.LoginTime, d.LastActiveTime, d.IsActive,
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, sessionID id.SessionID) (*session.Record, error) {
	query := selectColumns + ` WHERE session_id = $1`
	record, err := scanRecord(s.pool.QueryRow(ctx, query, uuid.UUID(sessionID)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	return record, nil
}

func (s *Postgres) ListByOfficer(ctx context.Context, officerID id.OfficerID) ([]*session.Record, error) {
	query := selectColumns + ` WHERE officer_id = $1 ORDER BY login_time DESC`
	rows, err := s.pool.Query(ctx, query, uuid.UUID(officerID))
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var records []*session.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return records, nil
}

func (s *Postgres) Touch(ctx context.Context, sessionID id.SessionID, now time.Time) error {
	// GREATEST keeps last_active_time monotonic under out-of-order touches.
	query := `
		UPDATE officer_sessions
		SET last_active_time = GREATEST(last_active_time, $2)
		WHERE session_id = $1
	`
	tag, err := s.pool.Exec(ctx, query, uuid.UUID(sessionID), now)
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) Deactivate(ctx context.Context, sessionID id.SessionID, now time.Time) error {
	query := `
		UPDATE officer_sessions
		SET is_active = FALSE,
		    last_active_time = GREATEST(last_active_time, $2)
		WHERE session_id = $1
	`
	tag, err := s.pool.Exec(ctx, query, uuid.UUID(sessionID), now)
	if err != nil {
		return fmt.Errorf("deactivate session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

const selectColumns = `
	SELECT session_id, officer_id, officer_email, ip_address, browser, os, device,
	       latitude, longitude, city, country, user_agent, login_time, last_active_time, is_active
	FROM officer_sessions`

func scanRecord(row pgx.Row) (*session.Record, error) {
	var (
		record               session.Record
		sessionID, officerID uuid.UUID
	)
	err := row.Scan(
		&sessionID, &officerID,
		&record.Descriptor.OfficerEmail, &record.Descriptor.IPAddress,
		&record.Descriptor.DeviceInfo.Browser, &record.Descriptor.DeviceInfo.OS, &record.Descriptor.DeviceInfo.Device,
		&record.Descriptor.Latitude, &record.Descriptor.Longitude,
		&record.Descriptor.City, &record.Descriptor.Country,
		&record.UserAgent,
		&record.Descriptor.LoginTime, &record.Descriptor.LastActiveTime, &record.Descriptor.IsActive,
	)
	if err != nil {
		return nil, err
	}
	record.Descriptor.SessionID = id.SessionID(sessionID)
	record.OfficerID = id.OfficerID(officerID)
	return &record, nil
}
