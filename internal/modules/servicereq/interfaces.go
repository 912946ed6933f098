package servicereq

import "toklen/internal/modules/events"

// EventPublisher pushes lifecycle events to the parties of a service.
type EventPublisher interface {
	Publish(ev events.Event, userIDs ...int64)
}
