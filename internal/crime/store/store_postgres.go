package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"precinct/internal/crime"
	id "precinct/pkg/domain"
	"precinct/pkg/platform/sentinel"
)

// Postgres persists crime records in the crime_records table.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const crimeColumns = `
	crime_id, station_id, part_rule_id, type_rule_id, subtype_rule_id,
	description, location, status, occurred_at, reported_by, assigned_to,
	created_at, updated_at, is_deleted`

func (s *Postgres) Create(ctx context.Context, record *crime.Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO crime_records (`+crimeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		uuid.UUID(record.ID), uuid.UUID(record.StationID),
		uuid.UUID(record.PartRuleID), uuid.UUID(record.TypeRuleID),
		nullableID(uuid.UUID(record.SubtypeRuleID)),
		record.Description, record.Location, string(record.Status),
		record.OccurredAt, uuid.UUID(record.ReportedBy),
		nullableID(uuid.UUID(record.AssignedTo)),
		record.CreatedAt, record.UpdatedAt, record.IsDeleted,
	)
	if err != nil {
		return fmt.Errorf("insert crime record: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, crimeID id.CrimeID) (*crime.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+crimeColumns+`
		FROM crime_records
		WHERE crime_id = $1 AND is_deleted = FALSE`,
		uuid.UUID(crimeID),
	)
	return scanRecord(row)
}

func (s *Postgres) List(ctx context.Context, filter Filter) ([]*crime.Record, error) {
	query := `
		SELECT ` + crimeColumns + `
		FROM crime_records
		WHERE is_deleted = FALSE`
	args := []any{}
	if !filter.StationID.IsNil() {
		args = append(args, uuid.UUID(filter.StationID))
		query += fmt.Sprintf(" AND station_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += ` ORDER BY occurred_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list crime records: %w", err)
	}
	defer rows.Close()

	var out []*crime.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

func (s *Postgres) Update(ctx context.Context, record *crime.Record) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE crime_records SET
			description = $2, location = $3, status = $4, assigned_to = $5,
			updated_at = $6, is_deleted = $7
		WHERE crime_id = $1`,
		uuid.UUID(record.ID), record.Description, record.Location,
		string(record.Status), nullableID(uuid.UUID(record.AssignedTo)),
		record.UpdatedAt, record.IsDeleted,
	)
	if err != nil {
		return fmt.Errorf("update crime record: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update crime record: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*crime.Record, error) {
	var (
		record      crime.Record
		crimeID     uuid.UUID
		stationID   uuid.UUID
		partRuleID  uuid.UUID
		typeRuleID  uuid.UUID
		subtypeRule sql.Null[uuid.UUID]
		reportedBy  uuid.UUID
		assignedTo  sql.Null[uuid.UUID]
		status      string
	)
	err := row.Scan(
		&crimeID, &stationID, &partRuleID, &typeRuleID, &subtypeRule,
		&record.Description, &record.Location, &status, &record.OccurredAt,
		&reportedBy, &assignedTo, &record.CreatedAt, &record.UpdatedAt,
		&record.IsDeleted,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan crime record: %w", err)
	}

	record.ID = id.CrimeID(crimeID)
	record.StationID = id.StationID(stationID)
	record.PartRuleID = id.RuleID(partRuleID)
	record.TypeRuleID = id.RuleID(typeRuleID)
	record.ReportedBy = id.OfficerID(reportedBy)
	record.Status = crime.Status(status)
	if subtypeRule.Valid {
		record.SubtypeRuleID = id.RuleID(subtypeRule.V)
	}
	if assignedTo.Valid {
		record.AssignedTo = id.OfficerID(assignedTo.V)
	}
	return &record, nil
}

func nullableID(u uuid.UUID) any {
	if u == uuid.Nil {
		return nil
	}
	return u
}
