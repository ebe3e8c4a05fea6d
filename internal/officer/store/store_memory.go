package store

import (
	"context"
	"sort"
	"sync"

	"precinct/internal/officer"
	id "precinct/pkg/domain"
	"precinct/pkg/platform/sentinel"
)

// InMemory keeps officer accounts in maps. Used by tests and by deployments
// without Postgres configured.
type InMemory struct {
	mu      sync.RWMutex
	byID    map[id.OfficerID]*officer.Officer
	byEmail map[string]id.OfficerID
}

func NewInMemory() *InMemory {
	return &InMemory{
		byID:    make(map[id.OfficerID]*officer.Officer),
		byEmail: make(map[string]id.OfficerID),
	}
}

func (s *InMemory) Create(_ context.Context, o *officer.Officer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[o.ID]; exists {
		return sentinel.ErrConflict
	}
	if _, exists := s.byEmail[o.Email]; exists {
		return sentinel.ErrConflict
	}
	cp := *o
	s.byID[o.ID] = &cp
	s.byEmail[o.Email] = o.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, officerID id.OfficerID) (*officer.Officer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.byID[officerID]
	if !ok || o.IsDeleted {
		return nil, sentinel.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *InMemory) FindByEmail(_ context.Context, email string) (*officer.Officer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	officerID, ok := s.byEmail[email]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	o := s.byID[officerID]
	if o == nil || o.IsDeleted {
		return nil, sentinel.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *InMemory) ListByStation(_ context.Context, stationID id.StationID) ([]*officer.Officer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*officer.Officer
	for _, o := range s.byID {
		if o.IsDeleted {
			continue
		}
		if !stationID.IsNil() && o.StationID != stationID {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *InMemory) Update(_ context.Context, o *officer.Officer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.byID[o.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if existing.Email != o.Email {
		delete(s.byEmail, existing.Email)
		s.byEmail[o.Email] = o.ID
	}
	cp := *o
	s.byID[o.ID] = &cp
	return nil
}
