// Package enrich builds the session descriptor captured at login attempt
// time. The workflow is a fixed sequence of typed steps — public IP, coarse
// geolocation, device classification, assembly — each independently mockable.
//
// By default each lookup gets its own timeout and falls back to zero values
// on failure, so a dead third-party service degrades the descriptor instead
// of blocking logins. FailFast restores the strict legacy behavior where any
// lookup failure aborts the login.
package enrich

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"precinct/internal/session"
	id "precinct/pkg/domain"
	dErrors "precinct/pkg/domain-errors"
	"precinct/pkg/requestcontext"
)

const tracerName = "precinct/session/enrich"

// DescriptorStore persists the current descriptor under its fixed key.
// The console's local storage implements this.
type DescriptorStore interface {
	PutDescriptor(descriptor session.Descriptor) error
}

// Enricher assembles and persists session descriptors.
type Enricher struct {
	ip        IPLookup
	geo       GeoLookup
	store     DescriptorStore
	logger    *slog.Logger
	userAgent string
	timeout   time.Duration
	failFast  bool
	tracer    trace.Tracer
}

// Option configures the Enricher.
type Option func(*Enricher)

// WithStepTimeout bounds each external lookup. Zero disables the per-step
// deadline (the caller's context still applies).
func WithStepTimeout(timeout time.Duration) Option {
	return func(e *Enricher) { e.timeout = timeout }
}

// WithFailFast aborts CreateSession on the first lookup failure instead of
// falling back to defaults. Kept for compatibility with deployments that
// treat a descriptor without IP/location as unusable.
func WithFailFast() Option {
	return func(e *Enricher) { e.failFast = true }
}

// New constructs an Enricher. userAgent identifies the client environment the
// way a browser's user-agent string would.
func New(ip IPLookup, geo GeoLookup, store DescriptorStore, userAgent string, logger *slog.Logger, opts ...Option) *Enricher {
	e := &Enricher{
		ip:        ip,
		geo:       geo,
		store:     store,
		logger:    logger,
		userAgent: userAgent,
		timeout:   5 * time.Second,
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CreateSession runs the enrichment workflow for one login attempt and
// persists the resulting descriptor, superseding any previous one. The
// descriptor is created before the credential check, so it exists even for
// logins that ultimately fail.
func (e *Enricher) CreateSession(ctx context.Context, email string) (session.Descriptor, error) {
	ctx, span := e.tracer.Start(ctx, "enrich.CreateSession")
	defer span.End()

	now := requestcontext.Now(ctx)

	ipAddress, err := e.lookupIP(ctx)
	if err != nil {
		if e.failFast {
			return session.Descriptor{}, err
		}
		e.logger.WarnContext(ctx, "ip lookup failed, continuing without address", "error", err)
	}

	var geo Geo
	if ipAddress != "" {
		geo, err = e.lookupGeo(ctx, ipAddress)
		if err != nil {
			if e.failFast {
				return session.Descriptor{}, err
			}
			e.logger.WarnContext(ctx, "geolocation lookup failed, continuing without location", "error", err)
		}
	}

	descriptor := session.Descriptor{
		SessionID:      id.SessionID(uuid.New()),
		OfficerEmail:   strings.ToLower(strings.TrimSpace(email)),
		IPAddress:      ipAddress,
		DeviceInfo:     Classify(e.userAgent),
		Latitude:       geo.Latitude,
		Longitude:      geo.Longitude,
		City:           geo.City,
		Country:        geo.CountryName,
		LoginTime:      now,
		LastActiveTime: now,
		IsActive:       true,
	}

	if err := e.store.PutDescriptor(descriptor); err != nil {
		return session.Descriptor{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist session descriptor")
	}
	return descriptor, nil
}

func (e *Enricher) lookupIP(ctx context.Context) (string, error) {
	ctx, span := e.tracer.Start(ctx, "enrich.lookupIP")
	defer span.End()

	ctx, cancel := e.stepContext(ctx)
	defer cancel()
	return e.ip.Lookup(ctx)
}

func (e *Enricher) lookupGeo(ctx context.Context, ipAddress string) (Geo, error) {
	ctx, span := e.tracer.Start(ctx, "enrich.lookupGeo")
	defer span.End()

	ctx, cancel := e.stepContext(ctx)
	defer cancel()
	return e.geo.Lookup(ctx, ipAddress)
}

func (e *Enricher) stepContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, e.timeout)
}
