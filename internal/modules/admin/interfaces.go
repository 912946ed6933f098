package admin

import (
	"context"

	"toklen/internal/domain"
	"toklen/internal/modules/events"
	"toklen/internal/repository"
)

type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	List(ctx context.Context, f repository.ServiceFilter) ([]domain.Service, error)
	Moderate(ctx context.Context, id int64, to domain.ModerationStatus) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type ProfessionalRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Professional, error)
	SetVerified(ctx context.Context, id int64, verified bool) error
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	SetActive(ctx context.Context, id int64, active bool) error
}

type EventPublisher interface {
	Publish(ev events.Event, userIDs ...int64)
}
