// Package store persists taxonomy rules.
package store

import (
	"context"

	"precinct/internal/datarules"
	id "precinct/pkg/domain"
)

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Kind     datarules.Kind
	ParentID id.RuleID
}

type Store interface {
	Create(ctx context.Context, rule *datarules.Rule) error
	FindByID(ctx context.Context, ruleID id.RuleID) (*datarules.Rule, error)
	List(ctx context.Context, filter Filter) ([]*datarules.Rule, error)
	Update(ctx context.Context, rule *datarules.Rule) error
}
