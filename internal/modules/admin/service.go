package admin

import (
	"context"
	"errors"
	"fmt"

	"toklen/internal/domain"
	"toklen/internal/modules/events"
	"toklen/internal/repository"

	"github.com/rs/zerolog/log"
)

const pendingQueueLimit = 100

type Service struct {
	services      ServiceRepository
	professionals ProfessionalRepository
	users         UserRepository
	events        EventPublisher
}

func NewService(services ServiceRepository, professionals ProfessionalRepository, users UserRepository, publisher EventPublisher) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{
		services:      services,
		professionals: professionals,
		users:         users,
		events:        publisher,
	}
}

// PendingServices is the moderation queue, newest first.
func (s *Service) PendingServices(ctx context.Context, _ domain.AdminCap) ([]domain.Service, error) {
	return s.services.List(ctx, repository.ServiceFilter{
		Moderation: domain.ModerationPending,
		Limit:      pendingQueueLimit,
	})
}

func (s *Service) ApproveService(ctx context.Context, ac domain.AdminCap, id int64) (*domain.Service, error) {
	return s.moderate(ctx, ac, id, domain.ModerationApproved)
}

func (s *Service) RejectService(ctx context.Context, ac domain.AdminCap, id int64) (*domain.Service, error) {
	return s.moderate(ctx, ac, id, domain.ModerationRejected)
}

// moderate flips moderation_status out of pending. Zero affected rows means
// the service is gone (404) or was already moderated (409).
func (s *Service) moderate(ctx context.Context, ac domain.AdminCap, id int64, to domain.ModerationStatus) (*domain.Service, error) {
	ok, err := s.services.Moderate(ctx, id, to)
	if err != nil {
		return nil, err
	}
	if !ok {
		current, err := s.services.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: Service already %s", domain.ErrConflict, current.ModerationStatus)
	}

	svc, err := s.services.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int64("service_id", id).
		Int64("admin_id", ac.UserID).
		Str("moderation_status", string(to)).
		Msg("service moderated")
	ev := events.NewServiceEvent(events.ServiceModerated, svc)
	ev.Status = string(to)
	s.events.Publish(ev, svc.ClientID)
	return svc, nil
}

// DeleteService removes the service whatever its state.
func (s *Service) DeleteService(ctx context.Context, ac domain.AdminCap, id int64) error {
	ok, err := s.services.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrServiceNotFound
	}
	log.Warn().Int64("service_id", id).Int64("admin_id", ac.UserID).Msg("service deleted")
	return nil
}

func (s *Service) VerifyProfessional(ctx context.Context, ac domain.AdminCap, id int64) (*domain.Professional, error) {
	if err := s.professionals.SetVerified(ctx, id, true); err != nil {
		return nil, err
	}
	log.Info().Int64("professional_id", id).Int64("admin_id", ac.UserID).Msg("professional verified")
	return s.professionals.GetByID(ctx, id)
}

// SetUserActive bans or unbans a user. Admins cannot ban themselves.
func (s *Service) SetUserActive(ctx context.Context, ac domain.AdminCap, userID int64, active bool) (*domain.User, error) {
	if !active && userID == ac.UserID {
		return nil, fmt.Errorf("%w: cannot deactivate your own account", domain.ErrValidation)
	}
	if err := s.users.SetActive(ctx, userID, active); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	log.Info().Int64("user_id", userID).Int64("admin_id", ac.UserID).Bool("active", active).Msg("user activity changed")
	return s.users.GetByID(ctx, userID)
}
