package domain

import "time"

type ServiceStatus string

const (
	ServicePending    ServiceStatus = "pending"
	ServiceAccepted   ServiceStatus = "accepted"
	ServiceInProgress ServiceStatus = "in_progress"
	ServiceCompleted  ServiceStatus = "completed"
	ServiceCancelled  ServiceStatus = "cancelled"
)

var serviceTransitions = map[ServiceStatus][]ServiceStatus{
	ServicePending:    {ServiceAccepted, ServiceCancelled},
	ServiceAccepted:   {ServiceInProgress, ServiceCancelled},
	ServiceInProgress: {ServiceCompleted, ServiceCancelled},
	ServiceCompleted:  nil,
	ServiceCancelled:  nil,
}

func (s ServiceStatus) Valid() bool {
	_, ok := serviceTransitions[s]
	return ok
}

// CanTransitionTo reports whether next is a direct successor of s.
func (s ServiceStatus) CanTransitionTo(next ServiceStatus) bool {
	for _, allowed := range serviceTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s ServiceStatus) IsTerminal() bool {
	return s.Valid() && len(serviceTransitions[s]) == 0
}

// ModerationStatus is the admin approval gate. It lives in its own column
// next to the lifecycle status.
type ModerationStatus string

const (
	ModerationPending  ModerationStatus = "pending"
	ModerationApproved ModerationStatus = "approved"
	ModerationRejected ModerationStatus = "rejected"
)

type Service struct {
	ID                 int64            `json:"id"`
	ClientID           int64            `json:"client_id"`
	ProfessionalID     *int64           `json:"professional_id"`
	Title              string           `json:"title"`
	Description        string           `json:"description"`
	Category           string           `json:"category"`
	ServiceAddress     string           `json:"service_address"`
	ServiceLatitude    float64          `json:"service_latitude"`
	ServiceLongitude   float64          `json:"service_longitude"`
	EstimatedPrice     *float64         `json:"estimated_price"`
	RequestedDate      time.Time        `json:"requested_date"`
	Status             ServiceStatus    `json:"status"`
	ModerationStatus   ModerationStatus `json:"moderation_status"`
	AcceptedAt         *time.Time       `json:"accepted_at"`
	StartedAt          *time.Time       `json:"started_at"`
	CompletedAt        *time.Time       `json:"completed_at"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
	ClientRating       *int             `json:"client_rating"`
	ClientReview       *string          `json:"client_review"`
	ProfessionalRating *int             `json:"professional_rating"`
	ProfessionalReview *string          `json:"professional_review"`
}

// NearbyService is a match row of the professional-side proximity search.
type NearbyService struct {
	Service
	DistanceKm float64 `json:"distance_km"`
}
