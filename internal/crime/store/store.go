// Package store persists crime records.
package store

import (
	"context"

	"precinct/internal/crime"
	id "precinct/pkg/domain"
)

// Filter narrows List results. Zero values match everything.
type Filter struct {
	StationID id.StationID
	Status    crime.Status
}

type Store interface {
	Create(ctx context.Context, record *crime.Record) error
	FindByID(ctx context.Context, crimeID id.CrimeID) (*crime.Record, error)
	List(ctx context.Context, filter Filter) ([]*crime.Record, error)
	Update(ctx context.Context, record *crime.Record) error
}
