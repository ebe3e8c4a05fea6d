package store

import (
	"context"
	"sort"
	"sync"

	"precinct/internal/crime"
	id "precinct/pkg/domain"
	"precinct/pkg/platform/sentinel"
)

// InMemory keeps crime records in a map. Used by tests and by deployments
// without Postgres configured.
type InMemory struct {
	mu      sync.RWMutex
	records map[id.CrimeID]*crime.Record
}

func NewInMemory() *InMemory {
	return &InMemory{records: make(map[id.CrimeID]*crime.Record)}
}

func (s *InMemory) Create(_ context.Context, record *crime.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[record.ID]; exists {
		return sentinel.ErrConflict
	}
	cp := *record
	s.records[record.ID] = &cp
	return nil
}

func (s *InMemory) FindByID(_ context.Context, crimeID id.CrimeID) (*crime.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[crimeID]
	if !ok || record.IsDeleted {
		return nil, sentinel.ErrNotFound
	}
	cp := *record
	return &cp, nil
}

func (s *InMemory) List(_ context.Context, filter Filter) ([]*crime.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*crime.Record
	for _, record := range s.records {
		if record.IsDeleted {
			continue
		}
		if !filter.StationID.IsNil() && record.StationID != filter.StationID {
			continue
		}
		if filter.Status != "" && record.Status != filter.Status {
			continue
		}
		cp := *record
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].OccurredAt.After(out[j].OccurredAt)
	})
	return out, nil
}

func (s *InMemory) Update(_ context.Context, record *crime.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[record.ID]; !ok {
		return sentinel.ErrNotFound
	}
	cp := *record
	s.records[record.ID] = &cp
	return nil
}
