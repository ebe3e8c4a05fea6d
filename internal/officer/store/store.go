// Package store persists officer accounts. Implementations return
// sentinel.ErrNotFound for missing rows and sentinel.ErrConflict for unique
// violations so the service can translate without driver knowledge.
package store

import (
	"context"

	"precinct/internal/officer"
	id "precinct/pkg/domain"
)

type Store interface {
	Create(ctx context.Context, o *officer.Officer) error
	FindByID(ctx context.Context, officerID id.OfficerID) (*officer.Officer, error)
	FindByEmail(ctx context.Context, email string) (*officer.Officer, error)
	ListByStation(ctx context.Context, stationID id.StationID) ([]*officer.Officer, error)
	Update(ctx context.Context, o *officer.Officer) error
}
