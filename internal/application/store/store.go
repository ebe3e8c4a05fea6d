// Package store persists applications.
package store

import (
	"context"

	"precinct/internal/application"
	id "precinct/pkg/domain"
)

// Filter narrows List results. Zero values match everything.
type Filter struct {
	StationID id.StationID
	Status    application.Status
}

type Store interface {
	Create(ctx context.Context, app *application.Application) error
	FindByID(ctx context.Context, applicationID id.ApplicationID) (*application.Application, error)
	List(ctx context.Context, filter Filter) ([]*application.Application, error)
	Update(ctx context.Context, app *application.Application) error
}
