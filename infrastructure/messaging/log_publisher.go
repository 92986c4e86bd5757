// Package messaging holds event publishers for environments without an
// event bus.
package messaging

import (
	"context"
	"sync"

	"socialgraph/domain/events"

	"go.uber.org/zap"
)

// LogPublisher writes events to the log and keeps the most recent ones in
// memory. It stands in for EventBridge when EVENT_BUS_NAME is empty.
type LogPublisher struct {
	mu     sync.Mutex
	events []events.DomainEvent
	keep   int
	logger *zap.Logger
}

// NewLogPublisher creates a publisher retaining at most keep events
func NewLogPublisher(logger *zap.Logger, keep int) *LogPublisher {
	return &LogPublisher{keep: keep, logger: logger}
}

// Publish logs and records one event
func (p *LogPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	return p.PublishBatch(ctx, []events.DomainEvent{event})
}

// PublishBatch logs and records events in order
func (p *LogPublisher) PublishBatch(_ context.Context, batch []events.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, event := range batch {
		p.logger.Info("Domain event",
			zap.String("eventID", event.GetEventID()),
			zap.String("eventType", event.GetEventType()),
			zap.String("aggregateID", event.GetAggregateID()),
			zap.Time("timestamp", event.GetTimestamp()),
		)
		p.events = append(p.events, event)
	}
	if p.keep > 0 && len(p.events) > p.keep {
		p.events = append([]events.DomainEvent(nil), p.events[len(p.events)-p.keep:]...)
	}
	return nil
}

// Events returns the recorded events, oldest first
func (p *LogPublisher) Events() []events.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.DomainEvent(nil), p.events...)
}
