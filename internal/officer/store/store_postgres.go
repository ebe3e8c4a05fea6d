package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"precinct/internal/officer"
	id "precinct/pkg/domain"
	"precinct/pkg/platform/sentinel"
)

const pqUniqueViolation = "23505"

// Postgres persists officer accounts in the officers table.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const officerColumns = `
	officer_id, station_id, officer_name, officer_username, officer_email,
	officer_designation, officer_badge_number, officer_mobile_number,
	officer_joining_date, officer_status, password_hash,
	is_active, is_deleted, created_at, updated_at, created_by, updated_by,
	deleted_at, deleted_by`

func (s *Postgres) Create(ctx context.Context, o *officer.Officer) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO officers (`+officerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		uuid.UUID(o.ID), uuid.UUID(o.StationID), o.Name, o.Username, o.Email,
		o.Designation, o.BadgeNumber, o.MobileNumber,
		o.JoiningDate, string(o.Status), o.PasswordHash,
		o.IsActive, o.IsDeleted, o.CreatedAt, o.UpdatedAt,
		nullableID(uuid.UUID(o.CreatedBy)), nullableID(uuid.UUID(o.UpdatedBy)),
		o.DeletedAt, nullableID(uuid.UUID(o.DeletedBy)),
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert officer: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, officerID id.OfficerID) (*officer.Officer, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+officerColumns+`
		FROM officers
		WHERE officer_id = $1 AND is_deleted = FALSE`,
		uuid.UUID(officerID),
	)
	return scanOfficer(row)
}

func (s *Postgres) FindByEmail(ctx context.Context, email string) (*officer.Officer, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+officerColumns+`
		FROM officers
		WHERE officer_email = $1 AND is_deleted = FALSE`,
		email,
	)
	return scanOfficer(row)
}

func (s *Postgres) ListByStation(ctx context.Context, stationID id.StationID) ([]*officer.Officer, error) {
	query := `
		SELECT ` + officerColumns + `
		FROM officers
		WHERE is_deleted = FALSE`
	args := []any{}
	if !stationID.IsNil() {
		query += ` AND station_id = $1`
		args = append(args, uuid.UUID(stationID))
	}
	query += ` ORDER BY officer_name ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list officers: %w", err)
	}
	defer rows.Close()

	var out []*officer.Officer
	for rows.Next() {
		o, err := scanOfficer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *Postgres) Update(ctx context.Context, o *officer.Officer) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE officers SET
			officer_name = $2, officer_username = $3, officer_email = $4,
			officer_designation = $5, officer_badge_number = $6,
			officer_mobile_number = $7, officer_status = $8, password_hash = $9,
			is_active = $10, is_deleted = $11, updated_at = $12, updated_by = $13,
			deleted_at = $14, deleted_by = $15
		WHERE officer_id = $1`,
		uuid.UUID(o.ID), o.Name, o.Username, o.Email,
		o.Designation, o.BadgeNumber,
		o.MobileNumber, string(o.Status), o.PasswordHash,
		o.IsActive, o.IsDeleted, o.UpdatedAt, nullableID(uuid.UUID(o.UpdatedBy)),
		o.DeletedAt, nullableID(uuid.UUID(o.DeletedBy)),
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("update officer: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update officer: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOfficer(row rowScanner) (*officer.Officer, error) {
	var (
		o          officer.Officer
		officerID  uuid.UUID
		stationID  uuid.UUID
		status     string
		createdBy  sql.Null[uuid.UUID]
		updatedBy  sql.Null[uuid.UUID]
		deletedBy  sql.Null[uuid.UUID]
		deletedAt  sql.NullTime
		joiningRaw time.Time
	)
	err := row.Scan(
		&officerID, &stationID, &o.Name, &o.Username, &o.Email,
		&o.Designation, &o.BadgeNumber, &o.MobileNumber,
		&joiningRaw, &status, &o.PasswordHash,
		&o.IsActive, &o.IsDeleted, &o.CreatedAt, &o.UpdatedAt,
		&createdBy, &updatedBy, &deletedAt, &deletedBy,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan officer: %w", err)
	}

	o.ID = id.OfficerID(officerID)
	o.StationID = id.StationID(stationID)
	o.JoiningDate = joiningRaw
	o.Status = officer.Status(status)
	if createdBy.Valid {
		o.CreatedBy = id.OfficerID(createdBy.V)
	}
	if updatedBy.Valid {
		o.UpdatedBy = id.OfficerID(updatedBy.V)
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		o.DeletedAt = &t
	}
	if deletedBy.Valid {
		o.DeletedBy = id.OfficerID(deletedBy.V)
	}
	return &o, nil
}

func nullableID(u uuid.UUID) any {
	if u == uuid.Nil {
		return nil
	}
	return u
}
