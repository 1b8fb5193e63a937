// Package events publishes domain events without coupling callers to the
// broker. Emission is best effort: a broker outage never fails the write
// that triggered the event.
package events

import (
	"context"

	"github.com/MadeAndikaPramana/GAPURA-HR-sub000/pkg/logger"
)

// EventPublisher is the broker-facing side, satisfied by messaging.Publisher
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, data interface{}) error
}

// Emitter wraps a publisher with fire-and-forget semantics
type Emitter struct {
	publisher EventPublisher
	logger    *logger.Logger
}

// NewEmitter creates an emitter. A nil publisher disables emission, which
// keeps local development working without a broker.
func NewEmitter(publisher EventPublisher, log *logger.Logger) *Emitter {
	return &Emitter{publisher: publisher, logger: log}
}

// Emit publishes an event and swallows failures after logging them
func (e *Emitter) Emit(ctx context.Context, eventType string, data interface{}) {
	if e == nil || e.publisher == nil {
		return
	}
	if err := e.publisher.Publish(ctx, eventType, data); err != nil {
		e.logger.Error().Err(err).Str("event_type", eventType).Msg("failed to publish event")
	}
}
