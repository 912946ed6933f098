// Package matching ranks professionals and open requests by great-circle
// distance. Candidates come from a bounding-box query; the exact distance,
// radius cut, ordering and cap are applied here.
package matching

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"toklen/internal/domain"
	"toklen/internal/pkg/geo"
	"toklen/internal/repository"
)

const (
	DefaultRadiusKm = 10.0
	MaxResults      = 20
)

type Service struct {
	store *repository.Store
}

func NewService(store *repository.Store) *Service {
	return &Service{store: store}
}

// NearbyProfessionals returns available, verified professionals within
// radiusKm of the point, closest first and best rated on ties.
func (s *Service) NearbyProfessionals(ctx context.Context, lat, lng, radiusKm float64, category string) ([]domain.NearbyProfessional, error) {
	if !geo.ValidLatitude(lat) || !geo.ValidLongitude(lng) {
		return nil, fmt.Errorf("%w: latitude or longitude out of range", domain.ErrValidation)
	}
	if radiusKm <= 0 {
		return nil, fmt.Errorf("%w: radius must be greater than 0", domain.ErrValidation)
	}

	candidates, err := s.store.Professionals.FindMatchable(ctx, geo.BoundingBox(lat, lng, radiusKm), strings.TrimSpace(category))
	if err != nil {
		return nil, err
	}

	out := make([]domain.NearbyProfessional, 0, len(candidates))
	for _, p := range candidates {
		d := geo.DistanceKm(lat, lng, p.Latitude, p.Longitude)
		if d > radiusKm {
			continue
		}
		out = append(out, domain.NearbyProfessional{Professional: p, DistanceKm: d})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DistanceKm != out[j].DistanceKm {
			return out[i].DistanceKm < out[j].DistanceKm
		}
		return out[i].AverageRating > out[j].AverageRating
	})
	return capResults(out), nil
}

// NearbyServices returns pending requests in the professional's category
// within their service radius, closest first and newest on ties.
func (s *Service) NearbyServices(ctx context.Context, pc domain.ProfessionalCap) ([]domain.NearbyService, error) {
	pro, err := s.store.Professionals.GetByID(ctx, pc.ProfessionalID)
	if err != nil {
		return nil, err
	}

	radius := pro.ServiceRadiusKm
	candidates, err := s.store.Services.FindPendingInBox(ctx, geo.BoundingBox(pro.Latitude, pro.Longitude, radius), pro.Category)
	if err != nil {
		return nil, err
	}

	out := make([]domain.NearbyService, 0, len(candidates))
	for _, svc := range candidates {
		d := geo.DistanceKm(pro.Latitude, pro.Longitude, svc.ServiceLatitude, svc.ServiceLongitude)
		if d > radius {
			continue
		}
		out = append(out, domain.NearbyService{Service: svc, DistanceKm: d})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DistanceKm != out[j].DistanceKm {
			return out[i].DistanceKm < out[j].DistanceKm
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return capResults(out), nil
}

func capResults[T any](rows []T) []T {
	if len(rows) > MaxResults {
		return rows[:MaxResults]
	}
	return rows
}
