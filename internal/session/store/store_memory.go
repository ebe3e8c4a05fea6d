package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"precinct/internal/session"
	id "precinct/pkg/domain"
	"precinct/pkg/platform/sentinel"
)

// InMemory keeps session records in a map. Used by tests and by deployments
// without Postgres configured.
type InMemory struct {
	mu      sync.RWMutex
	records map[id.SessionID]*session.Record
}

func NewInMemory() *InMemory {
	return &InMemory{records: make(map[id.SessionID]*session.Record)}
}

func (s *InMemory) Save(_ context.Context, record *session.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *record
	s.records[record.Descriptor.SessionID] = &cp
	return nil
}

func (s *InMemory) FindByID(_ context.Context, sessionID id.SessionID) (*session.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[sessionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *record
	return &cp, nil
}

func (s *InMemory) ListByOfficer(_ context.Context, officerID id.OfficerID) ([]*session.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*session.Record
	for _, record := range s.records {
		if record.OfficerID == officerID {
			cp := *record
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Descriptor.LoginTime.After(out[j].Descriptor.LoginTime)
	})
	return out, nil
}

func (s *InMemory) Touch(_ context.Context, sessionID id.SessionID, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[sessionID]
	if !ok {
		return sentinel.ErrNotFound
	}
	record.ApplyTouch(now)
	return nil
}

func (s *InMemory) Deactivate(_ context.Context, sessionID id.SessionID, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[sessionID]
	if !ok {
		return sentinel.ErrNotFound
	}
	record.ApplyDeactivation(now)
	return nil
}
