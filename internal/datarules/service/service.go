// Package service implements taxonomy administration. Rules are deactivated
// rather than deleted so historical records keep valid references.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"precinct/internal/datarules"
	"precinct/internal/datarules/store"
	id "precinct/pkg/domain"
	dErrors "precinct/pkg/domain-errors"
	"precinct/pkg/platform/audit"
	"precinct/pkg/platform/sentinel"
	"precinct/pkg/requestcontext"
)

// Auditor records operations events. Emission never blocks.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event)
}

type Service struct {
	store   store.Store
	auditor Auditor
	logger  *slog.Logger
}

func New(st store.Store, auditor Auditor, logger *slog.Logger) *Service {
	return &Service{store: st, auditor: auditor, logger: logger}
}

// parentKind maps each child level to its required parent level. Roots map to
// the empty string.
var parentKind = map[datarules.Kind]datarules.Kind{
	datarules.KindCrimePart:                 "",
	datarules.KindCrimeType:                 datarules.KindCrimePart,
	datarules.KindCrimeSubtype:              datarules.KindCrimeType,
	datarules.KindApplicationType:           "",
	datarules.KindApplicationClassification: datarules.KindApplicationType,
}

// Create adds a taxonomy rule, enforcing the parent level for non-roots.
func (s *Service) Create(ctx context.Context, in datarules.CreateInput) (*datarules.Rule, error) {
	required := parentKind[in.Kind]
	if required == "" && !in.ParentID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "root rules cannot have a parent")
	}
	if required != "" {
		if in.ParentID.IsNil() {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "parent_id is required for "+string(in.Kind))
		}
		parent, err := s.store.FindByID(ctx, in.ParentID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil, dErrors.New(dErrors.CodeInvalidInput, "parent_id references an unknown rule")
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify parent rule")
		}
		if parent.Kind != required {
			return nil, dErrors.New(dErrors.CodeInvalidInput, string(in.Kind)+" must be parented by a "+string(required))
		}
	}

	now := requestcontext.Now(ctx)
	rule := &datarules.Rule{
		ID:        id.RuleID(uuid.New()),
		Kind:      in.Kind,
		ParentID:  in.ParentID,
		Label:     in.Label,
		SortOrder: in.SortOrder,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Create(ctx, rule); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create data rule")
	}
	s.emitRuleChanged(ctx, rule)
	return rule, nil
}

// Get loads one rule.
func (s *Service) Get(ctx context.Context, ruleID id.RuleID) (*datarules.Rule, error) {
	rule, err := s.store.FindByID(ctx, ruleID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "data rule not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load data rule")
	}
	return rule, nil
}

// List returns rules matching the filter in display order.
func (s *Service) List(ctx context.Context, filter store.Filter) ([]*datarules.Rule, error) {
	rules, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list data rules")
	}
	return rules, nil
}

// Update edits a rule.
func (s *Service) Update(ctx context.Context, ruleID id.RuleID, in datarules.UpdateInput) (*datarules.Rule, error) {
	rule, err := s.Get(ctx, ruleID)
	if err != nil {
		return nil, err
	}

	rule.Apply(in, requestcontext.Now(ctx))
	if err := s.store.Update(ctx, rule); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update data rule")
	}
	s.emitRuleChanged(ctx, rule)
	return rule, nil
}

// RuleExists reports whether a rule exists and is active. Used by the
// application service to validate taxonomy references.
func (s *Service) RuleExists(ctx context.Context, ruleID id.RuleID) (bool, error) {
	rule, err := s.store.FindByID(ctx, ruleID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return rule.IsActive, nil
}

func (s *Service) emitRuleChanged(ctx context.Context, rule *datarules.Rule) {
	s.auditor.Emit(ctx, audit.Event{
		Category:  audit.CategoryOperations,
		OfficerID: requestcontext.OfficerID(ctx),
		Action:    string(audit.EventRuleChanged),
		Subject:   rule.ID.String(),
		RequestID: requestcontext.RequestID(ctx),
	})
}
