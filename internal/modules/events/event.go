package events

import (
	"time"

	"toklen/internal/domain"
)

type Type string

const (
	ServiceCreated       Type = "service.created"
	ServiceAccepted      Type = "service.accepted"
	ServiceStatusChanged Type = "service.status_changed"
	ServiceRated         Type = "service.rated"
	ServiceModerated     Type = "service.moderated"
)

// Event is the payload pushed to connected parties of a service.
type Event struct {
	Type       Type      `json:"type"`
	ServiceID  int64     `json:"service_id"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewServiceEvent(t Type, s *domain.Service) Event {
	return Event{
		Type:       t,
		ServiceID:  s.ID,
		Status:     string(s.Status),
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher delivers events to users. Delivery is best effort.
type Publisher interface {
	Publish(ev Event, userIDs ...int64)
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(Event, ...int64) {}

// Fanout forwards every event to each publisher in order.
type Fanout []Publisher

func (f Fanout) Publish(ev Event, userIDs ...int64) {
	for _, p := range f {
		p.Publish(ev, userIDs...)
	}
}
