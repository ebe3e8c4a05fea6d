package store

import (
	"context"
	"sort"
	"sync"

	"precinct/internal/datarules"
	id "precinct/pkg/domain"
	"precinct/pkg/platform/sentinel"
)

// InMemory keeps rules in a map. Used by tests and by deployments without
// Postgres configured.
type InMemory struct {
	mu    sync.RWMutex
	rules map[id.RuleID]*datarules.Rule
}

func NewInMemory() *InMemory {
	return &InMemory{rules: make(map[id.RuleID]*datarules.Rule)}
}

func (s *InMemory) Create(_ context.Context, rule *datarules.Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.rules[rule.ID]; exists {
		return sentinel.ErrConflict
	}
	cp := *rule
	s.rules[rule.ID] = &cp
	return nil
}

func (s *InMemory) FindByID(_ context.Context, ruleID id.RuleID) (*datarules.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rule, ok := s.rules[ruleID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *rule
	return &cp, nil
}

func (s *InMemory) List(_ context.Context, filter Filter) ([]*datarules.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*datarules.Rule
	for _, rule := range s.rules {
		if filter.Kind != "" && rule.Kind != filter.Kind {
			continue
		}
		if !filter.ParentID.IsNil() && rule.ParentID != filter.ParentID {
			continue
		}
		cp := *rule
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Label < out[j].Label
	})
	return out, nil
}

func (s *InMemory) Update(_ context.Context, rule *datarules.Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rules[rule.ID]; !ok {
		return sentinel.ErrNotFound
	}
	cp := *rule
	s.rules[rule.ID] = &cp
	return nil
}
