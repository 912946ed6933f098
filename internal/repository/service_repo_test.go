package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"toklen/internal/domain"
	"toklen/internal/pkg/geo"
	"toklen/internal/testsupport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceRepository_CreateAndGet_PreservesPrice(t *testing.T) {
	store := testsupport.NewStore(t)
	client := testsupport.CreateUser(t, store, domain.RoleClient)
	price := 100.0

	s := testsupport.CreateService(t, store, client.ID, testsupport.ServiceOpts{Lat: -12.05, Lng: -77.03, Price: &price})
	require.NotZero(t, s.ID)

	got, err := store.Services.GetByID(context.Background(), s.ID)
	require.NoError(t, err)
	require.NotNil(t, got.EstimatedPrice)
	assert.Equal(t, 100.0, *got.EstimatedPrice)
	assert.Equal(t, domain.ServicePending, got.Status)
	assert.Nil(t, got.ProfessionalID)
}

func TestServiceRepository_GetByID_NotFound(t *testing.T) {
	store := testsupport.NewStore(t)

	_, err := store.Services.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestServiceRepository_Accept_OnlyOnceUnderRace(t *testing.T) {
	store := testsupport.NewStore(t)
	client := testsupport.CreateUser(t, store, domain.RoleClient)
	_, proA := testsupport.CreateProfessional(t, store, testsupport.ProfessionalOpts{Available: true, Verified: true})
	_, proB := testsupport.CreateProfessional(t, store, testsupport.ProfessionalOpts{Available: true, Verified: true})
	s := testsupport.CreateService(t, store, client.ID, testsupport.ServiceOpts{})

	var wg sync.WaitGroup
	results := make([]bool, 2)
	for i, proID := range []int64{proA.ID, proB.ID} {
		wg.Add(1)
		go func(i int, proID int64) {
			defer wg.Done()
			ok, err := store.Services.Accept(context.Background(), s.ID, proID, time.Now())
			assert.NoError(t, err)
			results[i] = ok
		}(i, proID)
	}
	wg.Wait()

	assert.NotEqual(t, results[0], results[1], "exactly one accept must win")

	got, err := store.Services.GetByID(context.Background(), s.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ProfessionalID)
	winner := proA.ID
	if results[1] {
		winner = proB.ID
	}
	assert.Equal(t, winner, *got.ProfessionalID)
	assert.Equal(t, domain.ServiceAccepted, got.Status)
	assert.NotNil(t, got.AcceptedAt)
}

func TestServiceRepository_Accept_RejectedByModeration(t *testing.T) {
	store := testsupport.NewStore(t)
	ctx := context.Background()
	client := testsupport.CreateUser(t, store, domain.RoleClient)
	_, pro := testsupport.CreateProfessional(t, store, testsupport.ProfessionalOpts{Available: true})
	s := testsupport.CreateService(t, store, client.ID, testsupport.ServiceOpts{})

	ok, err := store.Services.Moderate(ctx, s.ID, domain.ModerationRejected)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = store.Services.Accept(ctx, s.ID, pro.ID, time.Now())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestServiceRepository_Accept_RequiresAvailableProfessional(t *testing.T) {
	store := testsupport.NewStore(t)
	ctx := context.Background()
	client := testsupport.CreateUser(t, store, domain.RoleClient)
	_, idle := testsupport.CreateProfessional(t, store, testsupport.ProfessionalOpts{Available: false, Verified: true})
	s := testsupport.CreateService(t, store, client.ID, testsupport.ServiceOpts{})

	ok, err := store.Services.Accept(ctx, s.ID, idle.ID, time.Now())
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := store.Services.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ServicePending, got.Status)
	assert.Nil(t, got.ProfessionalID)
}

func TestServiceRepository_Transition_StampsAndGuards(t *testing.T) {
	store := testsupport.NewStore(t)
	ctx := context.Background()
	client := testsupport.CreateUser(t, store, domain.RoleClient)
	_, pro := testsupport.CreateProfessional(t, store, testsupport.ProfessionalOpts{Available: true})
	s := testsupport.CreateService(t, store, client.ID, testsupport.ServiceOpts{})
	testsupport.ForceStatus(t, store, s, pro.ID, domain.ServiceAccepted)

	ok, err := store.Services.Transition(ctx, s.ID, domain.ServiceAccepted, domain.ServiceInProgress, time.Now())
	require.NoError(t, err)
	require.True(t, ok)

	// stale "from" loses
	ok, err = store.Services.Transition(ctx, s.ID, domain.ServiceAccepted, domain.ServiceCancelled, time.Now())
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = store.Services.Transition(ctx, s.ID, domain.ServiceInProgress, domain.ServiceCompleted, time.Now())
	require.NoError(t, err)
	require.True(t, ok)

	got, err := store.Services.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ServiceCompleted, got.Status)
	assert.NotNil(t, got.StartedAt)
	assert.NotNil(t, got.CompletedAt)
}

func TestServiceRepository_RateOnce(t *testing.T) {
	store := testsupport.NewStore(t)
	ctx := context.Background()
	client := testsupport.CreateUser(t, store, domain.RoleClient)
	_, pro := testsupport.CreateProfessional(t, store, testsupport.ProfessionalOpts{Available: true})
	s := testsupport.CreateService(t, store, client.ID, testsupport.ServiceOpts{})

	// not completed yet
	ok, err := store.Services.RateAsClient(ctx, s.ID, 5, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	testsupport.ForceStatus(t, store, s, pro.ID, domain.ServiceCompleted)

	review := "great work"
	ok, err = store.Services.RateAsClient(ctx, s.ID, 5, &review)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Services.RateAsClient(ctx, s.ID, 4, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = store.Services.RateAsProfessional(ctx, s.ID, 4, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := store.Services.GetByID(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ClientRating)
	assert.Equal(t, 5, *got.ClientRating)
	assert.Equal(t, "great work", *got.ClientReview)
	assert.Equal(t, 4, *got.ProfessionalRating)
}

func TestServiceRepository_ModerateAndDelete(t *testing.T) {
	store := testsupport.NewStore(t)
	ctx := context.Background()
	client := testsupport.CreateUser(t, store, domain.RoleClient)
	s := testsupport.CreateService(t, store, client.ID, testsupport.ServiceOpts{})

	ok, err := store.Services.Moderate(ctx, s.ID, domain.ModerationApproved)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Services.Moderate(ctx, s.ID, domain.ModerationRejected)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = store.Services.Delete(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Services.Delete(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestServiceRepository_List(t *testing.T) {
	store := testsupport.NewStore(t)
	ctx := context.Background()
	alice := testsupport.CreateUser(t, store, domain.RoleClient)
	bob := testsupport.CreateUser(t, store, domain.RoleClient)
	testsupport.CreateService(t, store, alice.ID, testsupport.ServiceOpts{})
	testsupport.CreateService(t, store, alice.ID, testsupport.ServiceOpts{Category: "electrical"})
	testsupport.CreateService(t, store, bob.ID, testsupport.ServiceOpts{})

	mine, err := store.Services.List(ctx, repositoryFilter(alice.ID, ""))
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	electrical, err := store.Services.List(ctx, repositoryFilter(alice.ID, "electrical"))
	require.NoError(t, err)
	assert.Len(t, electrical, 1)
}

func TestServiceRepository_FindPendingInBox(t *testing.T) {
	store := testsupport.NewStore(t)
	ctx := context.Background()
	client := testsupport.CreateUser(t, store, domain.RoleClient)
	near := testsupport.CreateService(t, store, client.ID, testsupport.ServiceOpts{Lat: -12.06, Lng: -77.04})
	testsupport.CreateService(t, store, client.ID, testsupport.ServiceOpts{Lat: -13.53, Lng: -71.96})
	testsupport.CreateService(t, store, client.ID, testsupport.ServiceOpts{Lat: -12.06, Lng: -77.04, Category: "electrical"})

	got, err := store.Services.FindPendingInBox(ctx, geo.BoundingBox(-12.05, -77.03, 10), "plumbing")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, near.ID, got[0].ID)
}
