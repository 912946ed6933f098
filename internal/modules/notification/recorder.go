package notification

import (
	"context"
	"time"

	"toklen/internal/domain"
	"toklen/internal/modules/events"

	"github.com/rs/zerolog/log"
)

const recordTimeout = 5 * time.Second

type NotificationWriter interface {
	CreateMany(ctx context.Context, items []*domain.Notification) error
}

// Recorder stores every published event in the recipients' inboxes. It
// implements events.Publisher.
type Recorder struct {
	repo NotificationWriter
}

func NewRecorder(repo NotificationWriter) *Recorder {
	return &Recorder{repo: repo}
}

func (r *Recorder) Publish(ev events.Event, userIDs ...int64) {
	title, message := describe(ev)

	seen := make(map[int64]bool, len(userIDs))
	items := make([]*domain.Notification, 0, len(userIDs))
	for _, id := range userIDs {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		serviceID := ev.ServiceID
		items = append(items, &domain.Notification{
			UserID:    id,
			Type:      string(ev.Type),
			ServiceID: &serviceID,
			Title:     title,
			Message:   message,
		})
	}
	if len(items) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	if err := r.repo.CreateMany(ctx, items); err != nil {
		log.Error().Err(err).Str("type", string(ev.Type)).Int64("service_id", ev.ServiceID).Msg("record notifications")
	}
}

func describe(ev events.Event) (string, string) {
	switch ev.Type {
	case events.ServiceCreated:
		return "Service request created", "Your request is visible to nearby professionals"
	case events.ServiceAccepted:
		return "Service accepted", "A professional accepted the request"
	case events.ServiceStatusChanged:
		switch domain.ServiceStatus(ev.Status) {
		case domain.ServiceInProgress:
			return "Service started", "Work on the request is in progress"
		case domain.ServiceCompleted:
			return "Service completed", "The request is done, you can now leave a rating"
		case domain.ServiceCancelled:
			return "Service cancelled", "The request was cancelled"
		}
		return "Service updated", "Status changed to " + ev.Status
	case events.ServiceRated:
		return "New rating", "A rating was left on the service"
	case events.ServiceModerated:
		if ev.Status == string(domain.ModerationRejected) {
			return "Service rejected", "Your request was rejected by moderation"
		}
		return "Service approved", "Your request was approved by moderation"
	default:
		return "Service update", ""
	}
}
