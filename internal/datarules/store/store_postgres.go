package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"precinct/internal/datarules"
	id "precinct/pkg/domain"
	"precinct/pkg/platform/sentinel"
)

// Postgres persists taxonomy rules in the data_rules table.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const ruleColumns = `
	rule_id, kind, parent_id, label, sort_order, is_active, created_at, updated_at`

func (s *Postgres) Create(ctx context.Context, rule *datarules.Rule) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO data_rules (`+ruleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.UUID(rule.ID), string(rule.Kind), nullableID(uuid.UUID(rule.ParentID)),
		rule.Label, rule.SortOrder, rule.IsActive, rule.CreatedAt, rule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert data rule: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, ruleID id.RuleID) (*datarules.Rule, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+ruleColumns+`
		FROM data_rules
		WHERE rule_id = $1`,
		uuid.UUID(ruleID),
	)
	return scanRule(row)
}

func (s *Postgres) List(ctx context.Context, filter Filter) ([]*datarules.Rule, error) {
	query := `
		SELECT ` + ruleColumns + `
		FROM data_rules
		WHERE TRUE`
	args := []any{}
	if filter.Kind != "" {
		args = append(args, string(filter.Kind))
		query += fmt.Sprintf(" AND kind = $%d", len(args))
	}
	if !filter.ParentID.IsNil() {
		args = append(args, uuid.UUID(filter.ParentID))
		query += fmt.Sprintf(" AND parent_id = $%d", len(args))
	}
	query += ` ORDER BY sort_order ASC, label ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list data rules: %w", err)
	}
	defer rows.Close()

	var out []*datarules.Rule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	return out, rows.Err()
}

func (s *Postgres) Update(ctx context.Context, rule *datarules.Rule) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE data_rules SET
			label = $2, sort_order = $3, is_active = $4, updated_at = $5
		WHERE rule_id = $1`,
		uuid.UUID(rule.ID), rule.Label, rule.SortOrder, rule.IsActive, rule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update data rule: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update data rule: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRule(row rowScanner) (*datarules.Rule, error) {
	var (
		rule     datarules.Rule
		ruleID   uuid.UUID
		parentID sql.Null[uuid.UUID]
		kind     string
	)
	err := row.Scan(
		&ruleID, &kind, &parentID, &rule.Label, &rule.SortOrder,
		&rule.IsActive, &rule.CreatedAt, &rule.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan data rule: %w", err)
	}

	rule.ID = id.RuleID(ruleID)
	rule.Kind = datarules.Kind(kind)
	if parentID.Valid {
		rule.ParentID = id.RuleID(parentID.V)
	}
	return &rule, nil
}

func nullableID(u uuid.UUID) any {
	if u == uuid.Nil {
		return nil
	}
	return u
}
