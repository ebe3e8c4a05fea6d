package memory

import (
	"context"
	"sync"

	id "precinct/pkg/domain"
	audit "precinct/pkg/platform/audit"
)

// Store keeps audit events in memory for tests and single-process deploys.
type Store struct {
	mu     sync.RWMutex
	events []audit.Event
}

func New() *Store {
	return &Store{}
}

func (s *Store) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *Store) ListByOfficer(_ context.Context, officerID id.OfficerID) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []audit.Event
	for _, e := range s.events {
		if e.OfficerID == officerID {
			out = append(out, e)
		}
	}
	return out, nil
}

// All returns every stored event, oldest first. Test helper.
func (s *Store) All() []audit.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]audit.Event, len(s.events))
	copy(out, s.events)
	return out
}
