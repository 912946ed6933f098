package rating

import (
	"context"
	"strings"
	"testing"

	"toklen/internal/domain"
	"toklen/internal/modules/events"
	"toklen/internal/repository"
	"toklen/internal/testsupport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ev events.Event, userIDs ...int64) {
	m.Called(ev.Type, userIDs)
}

type fixture struct {
	store  *repository.Store
	svc    *Service
	client *domain.Principal
	pro    *domain.Principal
	proID  int64
	pub    *MockPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testsupport.NewStore(t)
	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything).Maybe()

	client := testsupport.CreateUser(t, store, domain.RoleClient)
	proUser, pro := testsupport.CreateProfessional(t, store, testsupport.ProfessionalOpts{Available: true, Verified: true})

	return &fixture{
		store:  store,
		svc:    NewService(store, pub),
		client: &domain.Principal{User: *client},
		pro:    &domain.Principal{User: *proUser, ProfessionalID: &pro.ID},
		proID:  pro.ID,
		pub:    pub,
	}
}

func (f *fixture) completedService(t *testing.T) *domain.Service {
	t.Helper()
	s := testsupport.CreateService(t, f.store, f.client.UserID(), testsupport.ServiceOpts{})
	testsupport.ForceStatus(t, f.store, s, f.proID, domain.ServiceCompleted)
	return s
}

func TestRate_RecomputesAverage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var last *Result
	for _, stars := range []int{5, 3, 4} {
		s := f.completedService(t)
		res, err := f.svc.Rate(ctx, f.client, s.ID, stars, "")
		require.NoError(t, err)
		last = res
	}

	require.NotNil(t, last.AverageRating)
	assert.Equal(t, 4.0, *last.AverageRating)
	assert.Equal(t, 3, *last.TotalReviews)

	pro, err := f.store.Professionals.GetByID(ctx, f.proID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, pro.AverageRating)
	assert.Equal(t, 3, pro.TotalReviews)
}

func TestRate_RoundsToTwoDecimals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, stars := range []int{5, 4, 4} {
		_, err := f.svc.Rate(ctx, f.client, f.completedService(t).ID, stars, "")
		require.NoError(t, err)
	}

	pro, err := f.store.Professionals.GetByID(ctx, f.proID)
	require.NoError(t, err)
	assert.Equal(t, 4.33, pro.AverageRating)
}

func TestRate_OncePerParty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.completedService(t)

	_, err := f.svc.Rate(ctx, f.client, s.ID, 5, "Excellent, very clean work")
	require.NoError(t, err)

	_, err = f.svc.Rate(ctx, f.client, s.ID, 1, "")
	assert.ErrorIs(t, err, domain.ErrAlreadyRated)

	res, err := f.svc.Rate(ctx, f.pro, s.ID, 4, "Friendly client")
	require.NoError(t, err)
	assert.Nil(t, res.AverageRating, "professional ratings do not touch the aggregate")
	assert.Equal(t, 4, *res.Service.ProfessionalRating)
	assert.Equal(t, 5, *res.Service.ClientRating)

	_, err = f.svc.Rate(ctx, f.pro, s.ID, 4, "")
	assert.ErrorIs(t, err, domain.ErrAlreadyRated)

	pro, err := f.store.Professionals.GetByID(ctx, f.proID)
	require.NoError(t, err)
	assert.Equal(t, 1, pro.TotalReviews)
}

func TestRate_RequiresCompleted(t *testing.T) {
	f := newFixture(t)
	s := testsupport.CreateService(t, f.store, f.client.UserID(), testsupport.ServiceOpts{})
	testsupport.ForceStatus(t, f.store, s, f.proID, domain.ServiceInProgress)

	_, err := f.svc.Rate(context.Background(), f.client, s.ID, 5, "")
	assert.ErrorIs(t, err, domain.ErrNotCompleted)
}

func TestRate_OutsidersForbidden(t *testing.T) {
	f := newFixture(t)
	s := f.completedService(t)
	stranger := testsupport.CreateUser(t, f.store, domain.RoleClient)
	admin := testsupport.CreateUser(t, f.store, domain.RoleAdmin)

	for _, u := range []*domain.User{stranger, admin} {
		_, err := f.svc.Rate(context.Background(), &domain.Principal{User: *u}, s.ID, 5, "")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	}
}

func TestRate_Validation(t *testing.T) {
	f := newFixture(t)
	s := f.completedService(t)

	_, err := f.svc.Rate(context.Background(), f.client, s.ID, 6, "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.Rate(context.Background(), f.client, s.ID, 5, strings.Repeat("a", 501))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.Rate(context.Background(), f.client, 9999, 5, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRate_PublishesEvent(t *testing.T) {
	store := testsupport.NewStore(t)
	pub := new(MockPublisher)
	client := testsupport.CreateUser(t, store, domain.RoleClient)
	proUser, pro := testsupport.CreateProfessional(t, store, testsupport.ProfessionalOpts{Available: true})
	s := testsupport.CreateService(t, store, client.ID, testsupport.ServiceOpts{})
	testsupport.ForceStatus(t, store, s, pro.ID, domain.ServiceCompleted)

	pub.On("Publish", events.ServiceRated, []int64{client.ID, proUser.ID}).Once()

	_, err := NewService(store, pub).Rate(context.Background(), &domain.Principal{User: *client}, s.ID, 5, "")
	require.NoError(t, err)
	pub.AssertExpectations(t)
}
