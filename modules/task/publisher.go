package task

import (
	"github.com/go-monolith/mono"

	"github.com/Mgahed/SkyloovTask/events"
)

// Publisher delivers task lifecycle events.
type Publisher interface {
	TaskCreated(ev events.TaskCreatedEvent) error
	TaskUpdated(ev events.TaskUpdatedEvent) error
	TaskDeleted(ev events.TaskDeletedEvent) error
}

// busPublisher publishes the typed v1 events on the mono event bus.
type busPublisher struct {
	bus mono.EventBus
}

// NewBusPublisher returns a Publisher backed by bus, or nil when bus is nil.
func NewBusPublisher(bus mono.EventBus) Publisher {
	if bus == nil {
		return nil
	}
	return &busPublisher{bus: bus}
}

func (p *busPublisher) TaskCreated(ev events.TaskCreatedEvent) error {
	return events.TaskCreatedV1.Publish(p.bus, ev, nil)
}

func (p *busPublisher) TaskUpdated(ev events.TaskUpdatedEvent) error {
	return events.TaskUpdatedV1.Publish(p.bus, ev, nil)
}

func (p *busPublisher) TaskDeleted(ev events.TaskDeletedEvent) error {
	return events.TaskDeletedV1.Publish(p.bus, ev, nil)
}
