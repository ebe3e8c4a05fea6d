// Package service implements application review workflows.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"precinct/internal/application"
	"precinct/internal/application/store"
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

// Create files a new application after checking its taxonomy references.
func (s *Service) Create(ctx context.Context, in application.CreateInput) (*application.Application, error) {
	officerID := requestcontext.OfficerID(ctx)
	if officerID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}

	if err := s.checkRule(ctx, in.TypeRuleID, "type_rule_id"); err != nil {
		return nil, err
	}
	if !in.ClassificationRuleID.IsNil() {
		if err := s.checkRule(ctx, in.ClassificationRuleID, "classification_rule_id"); err != nil {
			return nil, err
		}
	}

	now := requestcontext.Now(ctx)
	app := &application.Application{
		ID:                   id.ApplicationID(uuid.New()),
		StationID:            in.StationID,
		TypeRuleID:           in.TypeRuleID,
		ClassificationRuleID: in.ClassificationRuleID,
		Subject:              in.Subject,
		Body:                 in.Body,
		ApplicantName:        in.ApplicantName,
		ApplicantContact:     in.ApplicantContact,
		Status:               application.StatusSubmitted,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := s.store.Create(ctx, app); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create application")
	}

	s.auditor.Emit(ctx, audit.Event{
		Category:  audit.CategoryOperations,
		OfficerID: officerID,
		StationID: app.StationID,
		Action:    string(audit.EventRecordCreated),
		Subject:   app.ID.String(),
		RequestID: requestcontext.RequestID(ctx),
	})
	return app, nil
}

// Get loads one application.
func (s *Service) Get(ctx context.Context, applicationID id.ApplicationID) (*application.Application, error) {
	app, err := s.store.FindByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "application not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load application")
	}
	return app, nil
}

// List returns applications matching the filter, newest first.
func (s *Service) List(ctx context.Context, filter store.Filter) ([]*application.Application, error) {
	apps, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list applications")
	}
	return apps, nil
}

// Update edits an application. Approved and rejected applications are final.
func (s *Service) Update(ctx context.Context, applicationID id.ApplicationID, in application.UpdateInput) (*application.Application, error) {
	app, err := s.Get(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Terminal() {
		return nil, dErrors.New(dErrors.CodeConflict, "decided applications cannot be edited")
	}

	app.Apply(in, requestcontext.Now(ctx), requestcontext.OfficerID(ctx))
	if err := s.store.Update(ctx, app); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update application")
	}

	s.auditor.Emit(ctx, audit.Event{
		Category:  audit.CategoryOperations,
		OfficerID: requestcontext.OfficerID(ctx),
		StationID: app.StationID,
		Action:    string(audit.EventRecordUpdated),
		Subject:   app.ID.String(),
		RequestID: requestcontext.RequestID(ctx),
	})
	return app, nil
}

// Delete soft-deletes an application. Idempotent.
func (s *Service) Delete(ctx context.Context, applicationID id.ApplicationID) error {
	app, err := s.store.FindByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load application")
	}

	app.IsDeleted = true
	app.UpdatedAt = requestcontext.Now(ctx)
	if err := s.store.Update(ctx, app); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete application")
	}

	s.auditor.Emit(ctx, audit.Event{
		Category:  audit.CategoryOperations,
		OfficerID: requestcontext.OfficerID(ctx),
		StationID: app.StationID,
		Action:    string(audit.EventRecordDeleted),
		Subject:   app.ID.String(),
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
