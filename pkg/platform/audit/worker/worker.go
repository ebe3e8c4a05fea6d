package worker

import (
	"context"
	"log/slog"

	audit "precinct/pkg/platform/audit"
)

// Sink receives events after they are persisted to the primary store.
// The Kafka publisher implements this; a nil sink is valid.
type Sink interface {
	Publish(ctx context.Context, event audit.Event) error
}

// Worker drains the audit inbox and persists events. Persistence failures are
// logged and the worker keeps running; audit is best-effort for operations
// events and the primary store is retried on the next event anyway.
type Worker struct {
	store  audit.Store
	sink   Sink
	inbox  <-chan audit.Event
	logger *slog.Logger
}

func New(store audit.Store, sink Sink, inbox <-chan audit.Event, logger *slog.Logger) *Worker {
	return &Worker{store: store, sink: sink, inbox: inbox, logger: logger}
}

// Run processes events until the context is cancelled. Remaining buffered
// events are drained before returning so shutdown loses nothing enqueued.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return ctx.Err()
		case event := <-w.inbox:
			w.handle(ctx, event)
		}
	}
}

func (w *Worker) handle(ctx context.Context, event audit.Event) {
	if err := w.store.Append(ctx, event); err != nil {
		w.logger.Error("failed to persist audit event",
			"error", err,
			"action", event.Action,
		)
		return
	}
	if w.sink != nil {
		if err := w.sink.Publish(ctx, event); err != nil {
			w.logger.Error("failed to publish audit event to sink",
				"error", err,
				"action", event.Action,
			)
		}
	}
}

func (w *Worker) drain() {
	ctx := context.Background()
	for {
		select {
		case event := <-w.inbox:
			w.handle(ctx, event)
		default:
			return
		}
	}
}
