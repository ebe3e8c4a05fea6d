// Package service implements crime-record workflows.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"precinct/internal/crime"
	"precinct/internal/crime/store"
	id "precinct/pkg/domain"
	dErrors "precinct/pkg/domain-errors"
	"precinct/pkg/platform/audit"
	"precinct/pkg/platform/sentinel"
	"precinct/pkg/requestcontext"
)

// RuleChecker verifies taxonomy references point at live rules.
type RuleChecker interface {
	RuleExists(ctx context.Context, ruleID id.RuleID) (bool, error)
}

// Auditor records operations events. Emission never blocks.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event)
}

type Service struct {
	store   store.Store
	rules   RuleChecker
	auditor Auditor
	logger  *slog.Logger
}

func New(st store.Store, rules RuleChecker, auditor Auditor, logger *slog.Logger) *Service {
	return &Service{store: st, rules: rules, auditor: auditor, logger: logger}
}

// Create files a new report after checking its taxonomy references. The
// authenticated officer becomes the reporter.
func (s *Service) Create(ctx context.Context, in crime.CreateInput) (*crime.Record, error) {
	officerID := requestcontext.OfficerID(ctx)
	if officerID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}

	if err := s.checkRule(ctx, in.PartRuleID, "part_rule_id"); err != nil {
		return nil, err
	}
	if err := s.checkRule(ctx, in.TypeRuleID, "type_rule_id"); err != nil {
		return nil, err
	}
	if !in.SubtypeRuleID.IsNil() {
		if err := s.checkRule(ctx, in.SubtypeRuleID, "subtype_rule_id"); err != nil {
			return nil, err
		}
	}

	now := requestcontext.Now(ctx)
	record := &crime.Record{
		ID:            id.CrimeID(uuid.New()),
		StationID:     in.StationID,
		PartRuleID:    in.PartRuleID,
		TypeRuleID:    in.TypeRuleID,
		SubtypeRuleID: in.SubtypeRuleID,
		Description:   in.Description,
		Location:      in.Location,
		Status:        crime.StatusOpen,
		OccurredAt:    in.OccurredAt,
		ReportedBy:    officerID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.store.Create(ctx, record); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create crime record")
	}

	s.auditor.Emit(ctx, audit.Event{
		Category:  audit.CategoryOperations,
		OfficerID: officerID,
		StationID: record.StationID,
		Action:    string(audit.EventRecordCreated),
		Subject:   record.ID.String(),
		RequestID: requestcontext.RequestID(ctx),
	})
	return record, nil
}

// Get loads one record.
func (s *Service) Get(ctx context.Context, crimeID id.CrimeID) (*crime.Record, error) {
	record, err := s.store.FindByID(ctx, crimeID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "crime record not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load crime record")
	}
	return record, nil
}

// List returns records matching the filter, most recent first.
func (s *Service) List(ctx context.Context, filter store.Filter) ([]*crime.Record, error) {
	records, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list crime records")
	}
	return records, nil
}

// Update edits a record. Closed records are immutable.
func (s *Service) Update(ctx context.Context, crimeID id.CrimeID, in crime.UpdateInput) (*crime.Record, error) {
	record, err := s.Get(ctx, crimeID)
	if err != nil {
		return nil, err
	}
	if record.Status == crime.StatusClosed {
		return nil, dErrors.New(dErrors.CodeConflict, "closed records cannot be edited")
	}

	record.Apply(in, requestcontext.Now(ctx))
	if err := s.store.Update(ctx, record); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update crime record")
	}

	s.auditor.Emit(ctx, audit.Event{
		Category:  audit.CategoryOperations,
		OfficerID: requestcontext.OfficerID(ctx),
		StationID: record.StationID,
		Action:    string(audit.EventRecordUpdated),
		Subject:   record.ID.String(),
		RequestID: requestcontext.RequestID(ctx),
	})
	return record, nil
}

// Delete soft-deletes a record. Idempotent.
func (s *Service) Delete(ctx context.Context, crimeID id.CrimeID) error {
	record, err := s.store.FindByID(ctx, crimeID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load crime record")
	}

	record.IsDeleted = true
	record.UpdatedAt = requestcontext.Now(ctx)
	if err := s.store.Update(ctx, record); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete crime record")
	}

	s.auditor.Emit(ctx, audit.Event{
		Category:  audit.CategoryOperations,
		OfficerID: requestcontext.OfficerID(ctx),
		StationID: record.StationID,
		Action:    string(audit.EventRecordDeleted),
		Subject:   record.ID.String(),
		RequestID: requestcontext.RequestID(ctx),
	})
	return nil
}

func (s *Service) checkRule(ctx context.Context, ruleID id.RuleID, field string) error {
	if s.rules == nil {
		return nil
	}
	exists, err := s.rules.RuleExists(ctx, ruleID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify "+field)
	}
	if !exists {
		return dErrors.New(dErrors.CodeInvalidInput, field+" references an unknown rule")
	}
	return nil
}
