// Package testsupport builds SQLite-backed stores and fixtures for tests.
package testsupport

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"toklen/internal/database"
	"toklen/internal/domain"
	"toklen/internal/repository"

	"github.com/stretchr/testify/require"
)

var seq atomic.Int64

func NewStore(t *testing.T) *repository.Store {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	return repository.NewStore(db)
}

func CreateUser(t *testing.T, store *repository.Store, role domain.Role) *domain.User {
	t.Helper()
	n := seq.Add(1)
	u := &domain.User{
		FirebaseUID: fmt.Sprintf("uid-%d", n),
		Email:       fmt.Sprintf("user%d@example.com", n),
		DisplayName: fmt.Sprintf("User %d", n),
		UserType:    role,
		IsActive:    true,
	}
	require.NoError(t, store.Users.Create(context.Background(), u))
	return u
}

type ProfessionalOpts struct {
	Category  string
	Lat, Lng  float64
	RadiusKm  float64
	Verified  bool
	Available bool
	Rating    float64
}

func CreateProfessional(t *testing.T, store *repository.Store, opts ProfessionalOpts) (*domain.User, *domain.Professional) {
	t.Helper()
	u := CreateUser(t, store, domain.RoleProfessional)
	if opts.Category == "" {
		opts.Category = "plumbing"
	}
	if opts.RadiusKm == 0 {
		opts.RadiusKm = 10
	}
	p := &domain.Professional{
		UserID:          u.ID,
		BusinessName:    "Pro " + u.DisplayName,
		Category:        opts.Category,
		ServiceRadiusKm: opts.RadiusKm,
		Latitude:        opts.Lat,
		Longitude:       opts.Lng,
		HourlyRate:      50,
		IsAvailable:     opts.Available,
		IsVerified:      opts.Verified,
		AverageRating:   opts.Rating,
	}
	require.NoError(t, store.Professionals.Create(context.Background(), p))
	return u, p
}

type ServiceOpts struct {
	Category string
	Lat, Lng float64
	Price    *float64
}

func CreateService(t *testing.T, store *repository.Store, clientID int64, opts ServiceOpts) *domain.Service {
	t.Helper()
	if opts.Category == "" {
		opts.Category = "plumbing"
	}
	s := &domain.Service{
		ClientID:         clientID,
		Title:            "Fix kitchen sink",
		Description:      "The kitchen sink leaks under the cabinet",
		Category:         opts.Category,
		ServiceAddress:   "Av. Arequipa 123",
		ServiceLatitude:  opts.Lat,
		ServiceLongitude: opts.Lng,
		EstimatedPrice:   opts.Price,
		RequestedDate:    time.Now(),
		Status:           domain.ServicePending,
		ModerationStatus: domain.ModerationPending,
	}
	require.NoError(t, store.Services.Create(context.Background(), s))
	return s
}

// ForceStatus walks a service along the happy path up to target.
func ForceStatus(t *testing.T, store *repository.Store, s *domain.Service, professionalID int64, target domain.ServiceStatus) {
	t.Helper()
	ctx := context.Background()
	now := time.Now()

	if target == domain.ServicePending {
		return
	}
	ok, err := store.Services.Accept(ctx, s.ID, professionalID, now)
	require.NoError(t, err)
	require.True(t, ok)

	path := []domain.ServiceStatus{domain.ServiceAccepted, domain.ServiceInProgress, domain.ServiceCompleted}
	for i := 0; i+1 < len(path) && path[i] != target; i++ {
		ok, err := store.Services.Transition(ctx, s.ID, path[i], path[i+1], now)
		require.NoError(t, err)
		require.True(t, ok)
	}
}
