package servicereq

import (
	"context"
	"fmt"
	"strings"
	"time"

	"toklen/internal/domain"
	"toklen/internal/modules/events"
	"toklen/internal/repository"

	"github.com/rs/zerolog/log"
)

const (
	listLimit       = 100
	publicListLimit = 50
)

type Service struct {
	store  *repository.Store
	events EventPublisher
	now    func() time.Time
}

func NewService(store *repository.Store, publisher EventPublisher) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{store: store, events: publisher, now: time.Now}
}

// Create files a new pending request owned by the caller.
func (s *Service) Create(ctx context.Context, p *domain.Principal, req CreateRequest) (*domain.Service, error) {
	now := s.now()
	requested := now
	if req.RequestedDate != nil && !req.RequestedDate.IsZero() {
		requested = *req.RequestedDate
	}

	svc := &domain.Service{
		ClientID:         p.UserID(),
		Title:            strings.TrimSpace(req.Title),
		Description:      strings.TrimSpace(req.Description),
		Category:         strings.TrimSpace(req.Category),
		ServiceAddress:   strings.TrimSpace(req.ServiceAddress),
		ServiceLatitude:  *req.ServiceLatitude,
		ServiceLongitude: *req.ServiceLongitude,
		EstimatedPrice:   req.EstimatedPrice,
		RequestedDate:    requested,
		Status:           domain.ServicePending,
		ModerationStatus: domain.ModerationPending,
	}
	if err := s.store.Services.Create(ctx, svc); err != nil {
		return nil, err
	}

	log.Info().
		Int64("service_id", svc.ID).
		Int64("user_id", p.UserID()).
		Str("category", svc.Category).
		Msg("service created")
	s.events.Publish(events.NewServiceEvent(events.ServiceCreated, svc), svc.ClientID)
	return svc, nil
}

// ListForPrincipal lists what the caller is involved in: own requests for
// clients, assigned requests for professionals, everything for admins.
func (s *Service) ListForPrincipal(ctx context.Context, p *domain.Principal, status domain.ServiceStatus) ([]domain.Service, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}

	f := repository.ServiceFilter{Status: status, Limit: listLimit}
	switch p.Role() {
	case domain.RoleClient:
		id := p.UserID()
		f.ClientID = &id
	case domain.RoleProfessional:
		pc, err := p.Professional()
		if err != nil {
			return nil, err
		}
		f.ProfessionalID = &pc.ProfessionalID
	case domain.RoleAdmin:
	default:
		return nil, domain.ErrForbidden
	}
	return s.store.Services.List(ctx, f)
}

// ListPublic lists approved requests still open for acceptance.
func (s *Service) ListPublic(ctx context.Context, category string) ([]domain.Service, error) {
	return s.store.Services.List(ctx, repository.ServiceFilter{
		Status:     domain.ServicePending,
		Moderation: domain.ModerationApproved,
		Category:   strings.TrimSpace(category),
		Limit:      publicListLimit,
	})
}

func (s *Service) Get(ctx context.Context, p *domain.Principal, id int64) (*domain.Service, error) {
	svc, err := s.store.Services.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.PartyTo(svc) == domain.PartyNone {
		return nil, fmt.Errorf("%w: not a party to this service", domain.ErrForbidden)
	}
	return svc, nil
}

// Accept assigns the calling professional to a pending request. Of two
// concurrent accepts exactly one wins; the other gets ErrServiceUnavailable.
func (s *Service) Accept(ctx context.Context, p *domain.Principal, id int64) (*domain.Service, error) {
	pc, err := p.Professional()
	if err != nil {
		return nil, err
	}

	pro, err := s.store.Professionals.GetByID(ctx, pc.ProfessionalID)
	if err != nil {
		return nil, err
	}
	if !pro.IsAvailable {
		return nil, fmt.Errorf("%w: professional is not available", domain.ErrForbidden)
	}

	svc, err := s.store.Services.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if svc.ClientID == pc.UserID {
		return nil, fmt.Errorf("%w: cannot accept your own service request", domain.ErrForbidden)
	}
	if svc.Status != domain.ServicePending || svc.ModerationStatus == domain.ModerationRejected {
		return nil, domain.ErrServiceUnavailable
	}

	ok, err := s.store.Services.Accept(ctx, id, pc.ProfessionalID, s.now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrServiceUnavailable
	}

	accepted, err := s.store.Services.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int64("service_id", id).
		Int64("user_id", pc.UserID).
		Int64("professional_id", pc.ProfessionalID).
		Str("status", string(accepted.Status)).
		Msg("service accepted")
	s.events.Publish(events.NewServiceEvent(events.ServiceAccepted, accepted), accepted.ClientID, pc.UserID)
	return accepted, nil
}

// UpdateStatus moves a request one step along the lifecycle. Acceptance
// has its own operation and is refused here.
func (s *Service) UpdateStatus(ctx context.Context, p *domain.Principal, id int64, to domain.ServiceStatus) (*domain.Service, error) {
	svc, err := s.store.Services.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch p.PartyTo(svc) {
	case domain.PartyClient, domain.PartyProfessional, domain.PartyAdmin:
	case domain.PartyNone:
		return nil, fmt.Errorf("%w: not a party to this service", domain.ErrForbidden)
	}

	if to == domain.ServiceAccepted {
		return nil, fmt.Errorf("%w: services are accepted through the accept endpoint", domain.ErrInvalidTransition)
	}
	if !svc.Status.CanTransitionTo(to) {
		return nil, fmt.Errorf("%w: cannot move from %s to %s", domain.ErrInvalidTransition, svc.Status, to)
	}

	ok, err := s.store.Services.Transition(ctx, id, svc.Status, to, s.now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: service status changed concurrently", domain.ErrConflict)
	}

	updated, err := s.store.Services.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int64("service_id", id).
		Int64("user_id", p.UserID()).
		Str("from", string(svc.Status)).
		Str("status", string(updated.Status)).
		Msg("service status changed")
	s.events.Publish(events.NewServiceEvent(events.ServiceStatusChanged, updated), Recipients(ctx, s.store, updated)...)
	return updated, nil
}

// Recipients returns the user ids of the client and, once assigned, the
// professional of svc.
func Recipients(ctx context.Context, store *repository.Store, svc *domain.Service) []int64 {
	ids := []int64{svc.ClientID}
	if svc.ProfessionalID == nil {
		return ids
	}
	pro, err := store.Professionals.GetByID(ctx, *svc.ProfessionalID)
	if err != nil {
		log.Warn().Err(err).Int64("service_id", svc.ID).Msg("event recipients: professional lookup failed")
		return ids
	}
	return append(ids, pro.UserID)
}
