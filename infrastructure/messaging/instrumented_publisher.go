package messaging

import (
	"context"

	"socialgraph/application/ports"
	"socialgraph/domain/events"
)

// EventObserver counts publish attempts per event type
type EventObserver interface {
	ObserveEvent(eventType string, err error)
}

// InstrumentedPublisher reports every publish attempt to an observer
type InstrumentedPublisher struct {
	next     ports.EventPublisher
	observer EventObserver
}

// NewInstrumentedPublisher wraps next
func NewInstrumentedPublisher(next ports.EventPublisher, observer EventObserver) *InstrumentedPublisher {
	return &InstrumentedPublisher{next: next, observer: observer}
}

// Publish delivers one event
func (p *InstrumentedPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	err := p.next.Publish(ctx, event)
	p.observer.ObserveEvent(event.GetEventType(), err)
	return err
}

// PublishBatch delivers events and records the batch outcome against each
func (p *InstrumentedPublisher) PublishBatch(ctx context.Context, batch []events.DomainEvent) error {
	err := p.next.PublishBatch(ctx, batch)
	for _, event := range batch {
		p.observer.ObserveEvent(event.GetEventType(), err)
	}
	return err
}
