package audit

import (
	"context"
	"log/slog"
	"time"
)

// Publisher hands events to the background worker through a bounded inbox.
// Emit never blocks the request path: when the inbox is full the event is
// dropped and counted, because losing one operations event is preferable to
// stalling a login.
type Publisher struct {
	inbox  chan<- Event
	logger *slog.Logger
}

func NewPublisher(inbox chan<- Event, logger *slog.Logger) *Publisher {
	return &Publisher{inbox: inbox, logger: logger}
}

// Emit enqueues an event for persistence. The event timestamp defaults to now.
func (p *Publisher) Emit(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	select {
	case p.inbox <- event:
	default:
		p.logger.WarnContext(ctx, "audit inbox full, dropping event",
			"action", event.Action,
			"category", event.Category,
		)
	}
}
