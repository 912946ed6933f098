package rating

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"toklen/internal/domain"
	"toklen/internal/modules/events"
	"toklen/internal/modules/servicereq"
	"toklen/internal/repository"

	"github.com/rs/zerolog/log"
)

type Service struct {
	store  *repository.Store
	events servicereq.EventPublisher
}

func NewService(store *repository.Store, publisher servicereq.EventPublisher) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{store: store, events: publisher}
}

// Result is the rated service plus, for client ratings, the professional's
// recomputed aggregate.
type Result struct {
	Service       *domain.Service
	AverageRating *float64
	TotalReviews  *int
}

// Rate stores the caller's one-time rating of a completed service. A client
// rating and the professional's aggregate recompute commit together.
func (s *Service) Rate(ctx context.Context, p *domain.Principal, serviceID int64, rating int, review string) (*Result, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", domain.ErrValidation)
	}
	var reviewPtr *string
	if trimmed := strings.TrimSpace(review); trimmed != "" {
		if utf8.RuneCountInString(trimmed) > 500 {
			return nil, fmt.Errorf("%w: review must be at most 500 characters", domain.ErrValidation)
		}
		reviewPtr = &trimmed
	}

	res := &Result{}
	err := s.store.WithinTx(ctx, func(tx *repository.Store) error {
		svc, err := tx.Services.GetByID(ctx, serviceID)
		if err != nil {
			return err
		}

		party := p.PartyTo(svc)
		switch party {
		case domain.PartyClient, domain.PartyProfessional:
		case domain.PartyAdmin, domain.PartyNone:
			return fmt.Errorf("%w: only the client or the assigned professional can rate", domain.ErrForbidden)
		}

		if svc.Status != domain.ServiceCompleted {
			return domain.ErrNotCompleted
		}

		// concurrent client ratings of one professional queue on its row
		// so the recomputed aggregate sees every committed rating
		if party == domain.PartyClient && svc.ProfessionalID != nil {
			if err := tx.Professionals.LockForUpdate(ctx, *svc.ProfessionalID); err != nil {
				return err
			}
		}

		var ok bool
		if party == domain.PartyClient {
			ok, err = tx.Services.RateAsClient(ctx, serviceID, rating, reviewPtr)
		} else {
			ok, err = tx.Services.RateAsProfessional(ctx, serviceID, rating, reviewPtr)
		}
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrAlreadyRated
		}

		if party == domain.PartyClient && svc.ProfessionalID != nil {
			avg, count, err := tx.Professionals.RecomputeRating(ctx, *svc.ProfessionalID)
			if err != nil {
				return err
			}
			res.AverageRating, res.TotalReviews = &avg, &count
		}

		res.Service, err = tx.Services.GetByID(ctx, serviceID)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int64("service_id", serviceID).
		Int64("user_id", p.UserID()).
		Int("rating", rating).
		Msg("service rated")
	s.events.Publish(events.NewServiceEvent(events.ServiceRated, res.Service), servicereq.Recipients(ctx, s.store, res.Service)...)
	return res, nil
}
