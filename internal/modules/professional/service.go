package professional

import (
	"context"
	"errors"
	"strings"

	"toklen/internal/domain"
	"toklen/internal/repository"

	"github.com/rs/zerolog/log"
)

const DefaultServiceRadiusKm = 10.0

type Service struct {
	store *repository.Store
}

func NewService(store *repository.Store) *Service {
	return &Service{store: store}
}

// Register creates the caller's profile and promotes a client to
// professional, atomically.
func (s *Service) Register(ctx context.Context, p *domain.Principal, req RegisterRequest) (*domain.Professional, error) {
	radius := DefaultServiceRadiusKm
	if req.ServiceRadiusKm != nil {
		radius = *req.ServiceRadiusKm
	}

	pro := &domain.Professional{
		UserID:          p.UserID(),
		BusinessName:    strings.TrimSpace(req.BusinessName),
		Description:     strings.TrimSpace(req.Description),
		Category:        strings.TrimSpace(req.Category),
		Subcategory:     strings.TrimSpace(req.Subcategory),
		ExperienceYears: req.ExperienceYears,
		HourlyRate:      req.HourlyRate,
		ServiceRadiusKm: radius,
		Address:         strings.TrimSpace(req.Address),
		Latitude:        *req.Latitude,
		Longitude:       *req.Longitude,
		City:            strings.TrimSpace(req.City),
		District:        strings.TrimSpace(req.District),
		IsAvailable:     true,
	}

	err := s.store.WithinTx(ctx, func(tx *repository.Store) error {
		_, err := tx.Professionals.GetByUserID(ctx, p.UserID())
		switch {
		case err == nil:
			return domain.ErrAlreadyRegistered
		case !errors.Is(err, domain.ErrNotFound):
			return err
		}

		if err := tx.Professionals.Create(ctx, pro); err != nil {
			return err
		}

		switch p.Role() {
		case domain.RoleAdmin, domain.RoleProfessional:
			return nil
		case domain.RoleClient:
			return tx.Users.UpdateUserType(ctx, p.UserID(), domain.RoleProfessional)
		default:
			return domain.ErrForbidden
		}
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int64("user_id", p.UserID()).
		Int64("professional_id", pro.ID).
		Str("category", pro.Category).
		Msg("professional registered")
	return pro, nil
}

func (s *Service) Me(ctx context.Context, pc domain.ProfessionalCap) (*domain.Professional, error) {
	return s.store.Professionals.GetByID(ctx, pc.ProfessionalID)
}

func (s *Service) SetAvailability(ctx context.Context, pc domain.ProfessionalCap, available bool) (*domain.Professional, error) {
	if err := s.store.Professionals.SetAvailability(ctx, pc.ProfessionalID, available); err != nil {
		return nil, err
	}
	return s.store.Professionals.GetByID(ctx, pc.ProfessionalID)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Professional, error) {
	return s.store.Professionals.GetByID(ctx, id)
}
