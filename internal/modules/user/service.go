package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"toklen/internal/domain"
	"toklen/internal/identity"
	"toklen/internal/repository"

	"github.com/rs/zerolog/log"
)

type Service struct {
	users *repository.UserRepository
	now   func() time.Time
}

func NewService(users *repository.UserRepository) *Service {
	return &Service{users: users, now: time.Now}
}

// Sync creates the user behind id on first sight and refreshes email,
// display name and last login otherwise. It reports whether a row was created.
func (s *Service) Sync(ctx context.Context, id *identity.Identity, displayName string) (*domain.User, bool, error) {
	if id == nil || id.UID == "" {
		return nil, false, domain.ErrUnauthenticated
	}
	name := strings.TrimSpace(displayName)
	if name == "" {
		name = strings.TrimSpace(id.Name)
	}
	now := s.now()

	existing, err := s.users.GetByFirebaseUID(ctx, id.UID)
	switch {
	case err == nil:
		return s.refresh(ctx, existing, id.Email, name, now)
	case !errors.Is(err, domain.ErrNotFound):
		return nil, false, err
	}

	u := &domain.User{
		FirebaseUID: id.UID,
		Email:       id.Email,
		DisplayName: name,
		UserType:    domain.RoleClient,
		IsActive:    true,
		LastLoginAt: &now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if !errors.Is(err, domain.ErrConflict) {
			return nil, false, err
		}
		// a concurrent sync for the same uid won the insert
		existing, err := s.users.GetByFirebaseUID(ctx, id.UID)
		if err != nil {
			return nil, false, err
		}
		return s.refresh(ctx, existing, id.Email, name, now)
	}

	log.Info().Int64("user_id", u.ID).Msg("user created on sync")
	return u, true, nil
}

func (s *Service) refresh(ctx context.Context, u *domain.User, email, name string, now time.Time) (*domain.User, bool, error) {
	if !u.IsActive {
		return nil, false, domain.ErrAccountDisabled
	}
	if err := s.users.TouchLogin(ctx, u.ID, email, name, now); err != nil {
		return nil, false, err
	}
	updated, err := s.users.GetByID(ctx, u.ID)
	if err != nil {
		return nil, false, err
	}
	return updated, false, nil
}

func (s *Service) Me(ctx context.Context, p *domain.Principal) (*domain.User, error) {
	return s.users.GetByID(ctx, p.UserID())
}

func (s *Service) UpdateDisplayName(ctx context.Context, p *domain.Principal, displayName string) (*domain.User, error) {
	if err := s.users.UpdateDisplayName(ctx, p.UserID(), strings.TrimSpace(displayName)); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, p.UserID())
}
