package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"precinct/internal/application"
	id "precinct/pkg/domain"
	"precinct/pkg/platform/sentinel"
)

// Postgres persists applications in the applications table.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const applicationColumns = `
	application_id, station_id, type_rule_id, classification_rule_id,
	subject, body, applicant_name, applicant_contact, status,
	reviewed_by, created_at, updated_at, is_deleted`

func (s *Postgres) Create(ctx context.Context, app *application.Application) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO applications (`+applicationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		uuid.UUID(app.ID), uuid.UUID(app.StationID),
		uuid.UUID(app.TypeRuleID), nullableID(uuid.UUID(app.ClassificationRuleID)),
		app.Subject, app.Body, app.ApplicantName, app.ApplicantContact,
		string(app.Status), nullableID(uuid.UUID(app.ReviewedBy)),
		app.CreatedAt, app.UpdatedAt, app.IsDeleted,
	)
	if err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, applicationID id.ApplicationID) (*application.Application, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+applicationColumns+`
		FROM applications
		WHERE application_id = $1 AND is_deleted = FALSE`,
		uuid.UUID(applicationID),
	)
	return scanApplication(row)
}

func (s *Postgres) List(ctx context.Context, filter Filter) ([]*application.Application, error) {
	query := `
		SELECT ` + applicationColumns + `
		FROM applications
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
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var out []*application.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, app)
	}
	return out, rows.Err()
}

func (s *Postgres) Update(ctx context.Context, app *application.Application) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE applications SET
			subject = $2, body = $3, status = $4, reviewed_by = $5,
			updated_at = $6, is_deleted = $7
		WHERE application_id = $1`,
		uuid.UUID(app.ID), app.Subject, app.Body, string(app.Status),
		nullableID(uuid.UUID(app.ReviewedBy)), app.UpdatedAt, app.IsDeleted,
	)
	if err != nil {
		return fmt.Errorf("update application: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update application: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (*application.Application, error) {
	var (
		app            application.Application
		applicationID  uuid.UUID
		stationID      uuid.UUID
		typeRuleID     uuid.UUID
		classification sql.Null[uuid.UUID]
		reviewedBy     sql.Null[uuid.UUID]
		status         string
	)
	err := row.Scan(
		&applicationID, &stationID, &typeRuleID, &classification,
		&app.Subject, &app.Body, &app.ApplicantName, &app.ApplicantContact,
		&status, &reviewedBy, &app.CreatedAt, &app.UpdatedAt, &app.IsDeleted,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan application: %w", err)
	}

	app.ID = id.ApplicationID(applicationID)
	app.StationID = id.StationID(stationID)
	app.TypeRuleID = id.RuleID(typeRuleID)
	if classification.Valid {
		app.ClassificationRuleID = id.RuleID(classification.V)
	}
	if reviewedBy.Valid {
		app.ReviewedBy = id.OfficerID(reviewedBy.V)
	}
	app.Status = application.Status(status)
	return &app, nil
}

func nullableID(u uuid.UUID) any {
	if u == uuid.Nil {
		return nil
	}
	return u
}
