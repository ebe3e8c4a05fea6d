package store

import (
	"context"
	"sort"
	"sync"

	"precinct/internal/application"
	id "precinct/pkg/domain"
	"precinct/pkg/platform/sentinel"
)

// InMemory keeps applications in a map. Used by tests and by deployments
// without Postgres configured.
type InMemory struct {
	mu   sync.RWMutex
	apps map[id.ApplicationID]*application.Application
}

func NewInMemory() *InMemory {
	return &InMemory{apps: make(map[id.ApplicationID]*application.Application)}
}

func (s *InMemory) Create(_ context.Context, app *application.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.apps[app.ID]; exists {
		return sentinel.ErrConflict
	}
	cp := *app
	s.apps[app.ID] = &cp
	return nil
}

func (s *InMemory) FindByID(_ context.Context, applicationID id.ApplicationID) (*application.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	app, ok := s.apps[applicationID]
	if !ok || app.IsDeleted {
		return nil, sentinel.ErrNotFound
	}
	cp := *app
	return &cp, nil
}

func (s *InMemory) List(_ context.Context, filter Filter) ([]*application.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*application.Application
	for _, app := range s.apps {
		if app.IsDeleted {
			continue
		}
		if !filter.StationID.IsNil() && app.StationID != filter.StationID {
			continue
		}
		if filter.Status != "" && app.Status != filter.Status {
			continue
		}
		cp := *app
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemory) Update(_ context.Context, app *application.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.apps[app.ID]; !ok {
		return sentinel.ErrNotFound
	}
	cp := *app
	s.apps[app.ID] = &cp
	return nil
}
