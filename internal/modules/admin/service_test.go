package admin

import (
	"context"
	"errors"
	"testing"

	"toklen/internal/domain"
	"toklen/internal/modules/events"
	"toklen/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockServiceRepo keeps services in memory and applies the same
// pending-only guard as the SQL Moderate.
type mockServiceRepo struct {
	services  map[int64]*domain.Service
	deleteErr error
}

func newMockServiceRepo(items ...*domain.Service) *mockServiceRepo {
	m := &mockServiceRepo{services: map[int64]*domain.Service{}}
	for _, s := range items {
		m.services[s.ID] = s
	}
	return m
}

func (m *mockServiceRepo) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	s, ok := m.services[id]
	if !ok {
		return nil, domain.ErrServiceNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *mockServiceRepo) List(_ context.Context, f repository.ServiceFilter) ([]domain.Service, error) {
	var out []domain.Service
	for _, s := range m.services {
		if f.Moderation != "" && s.ModerationStatus != f.Moderation {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (m *mockServiceRepo) Moderate(_ context.Context, id int64, to domain.ModerationStatus) (bool, error) {
	s, ok := m.services[id]
	if !ok || s.ModerationStatus != domain.ModerationPending {
		return false, nil
	}
	s.ModerationStatus = to
	return true, nil
}

func (m *mockServiceRepo) Delete(_ context.Context, id int64) (bool, error) {
	if m.deleteErr != nil {
		return false, m.deleteErr
	}
	if _, ok := m.services[id]; !ok {
		return false, nil
	}
	delete(m.services, id)
	return true, nil
}

type mockProfessionalRepo struct {
	pros map[int64]*domain.Professional
}

func (m *mockProfessionalRepo) GetByID(_ context.Context, id int64) (*domain.Professional, error) {
	p, ok := m.pros[id]
	if !ok {
		return nil, domain.ErrProfessionalNotFound
	}
	return p, nil
}

func (m *mockProfessionalRepo) SetVerified(_ context.Context, id int64, verified bool) error {
	p, ok := m.pros[id]
	if !ok {
		return domain.ErrProfessionalNotFound
	}
	p.IsVerified = verified
	return nil
}

type mockUserRepo struct {
	users map[int64]*domain.User
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserRepo) SetActive(_ context.Context, id int64, active bool) error {
	u, ok := m.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IsActive = active
	return nil
}

type recordedEvent struct {
	ev      events.Event
	userIDs []int64
}

type recordingPublisher struct {
	got []recordedEvent
}

func (p *recordingPublisher) Publish(ev events.Event, userIDs ...int64) {
	p.got = append(p.got, recordedEvent{ev: ev, userIDs: userIDs})
}

var admin = domain.AdminCap{UserID: 1}

func pendingService(id, clientID int64) *domain.Service {
	return &domain.Service{
		ID:               id,
		ClientID:         clientID,
		Status:           domain.ServicePending,
		ModerationStatus: domain.ModerationPending,
	}
}

func TestApproveService(t *testing.T) {
	repo := newMockServiceRepo(pendingService(10, 7))
	pub := &recordingPublisher{}
	svc := NewService(repo, &mockProfessionalRepo{}, &mockUserRepo{}, pub)

	got, err := svc.ApproveService(context.Background(), admin, 10)
	require.NoError(t, err)
	assert.Equal(t, domain.ModerationApproved, got.ModerationStatus)

	require.Len(t, pub.got, 1)
	assert.Equal(t, events.ServiceModerated, pub.got[0].ev.Type)
	assert.Equal(t, "approved", pub.got[0].ev.Status)
	assert.Equal(t, []int64{7}, pub.got[0].userIDs)
}

func TestApproveService_AlreadyModerated(t *testing.T) {
	s := pendingService(10, 7)
	s.ModerationStatus = domain.ModerationRejected
	pub := &recordingPublisher{}
	svc := NewService(newMockServiceRepo(s), &mockProfessionalRepo{}, &mockUserRepo{}, pub)

	_, err := svc.ApproveService(context.Background(), admin, 10)
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Contains(t, err.Error(), "rejected")
	assert.Empty(t, pub.got)
}

func TestRejectService_NotFound(t *testing.T) {
	svc := NewService(newMockServiceRepo(), &mockProfessionalRepo{}, &mockUserRepo{}, nil)

	_, err := svc.RejectService(context.Background(), admin, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRejectService(t *testing.T) {
	repo := newMockServiceRepo(pendingService(10, 7))
	svc := NewService(repo, &mockProfessionalRepo{}, &mockUserRepo{}, nil)

	got, err := svc.RejectService(context.Background(), admin, 10)
	require.NoError(t, err)
	assert.Equal(t, domain.ModerationRejected, got.ModerationStatus)

	// second decision loses
	_, err = svc.ApproveService(context.Background(), admin, 10)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestPendingServices(t *testing.T) {
	approved := pendingService(2, 7)
	approved.ModerationStatus = domain.ModerationApproved
	svc := NewService(newMockServiceRepo(pendingService(1, 7), approved), &mockProfessionalRepo{}, &mockUserRepo{}, nil)

	items, err := svc.PendingServices(context.Background(), admin)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), items[0].ID)
}

func TestDeleteService(t *testing.T) {
	repo := newMockServiceRepo(pendingService(10, 7))
	svc := NewService(repo, &mockProfessionalRepo{}, &mockUserRepo{}, nil)

	require.NoError(t, svc.DeleteService(context.Background(), admin, 10))
	assert.ErrorIs(t, svc.DeleteService(context.Background(), admin, 10), domain.ErrServiceNotFound)

	repo.deleteErr = errors.New("db down")
	assert.EqualError(t, svc.DeleteService(context.Background(), admin, 10), "db down")
}

func TestVerifyProfessional(t *testing.T) {
	pros := &mockProfessionalRepo{pros: map[int64]*domain.Professional{3: {ID: 3}}}
	svc := NewService(newMockServiceRepo(), pros, &mockUserRepo{}, nil)

	got, err := svc.VerifyProfessional(context.Background(), admin, 3)
	require.NoError(t, err)
	assert.True(t, got.IsVerified)

	_, err = svc.VerifyProfessional(context.Background(), admin, 4)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSetUserActive(t *testing.T) {
	users := &mockUserRepo{users: map[int64]*domain.User{
		1: {ID: 1, UserType: domain.RoleAdmin, IsActive: true},
		5: {ID: 5, UserType: domain.RoleClient, IsActive: true},
	}}
	svc := NewService(newMockServiceRepo(), &mockProfessionalRepo{}, users, nil)
	ctx := context.Background()

	got, err := svc.SetUserActive(ctx, admin, 5, false)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	got, err = svc.SetUserActive(ctx, admin, 5, true)
	require.NoError(t, err)
	assert.True(t, got.IsActive)

	_, err = svc.SetUserActive(ctx, admin, 1, false)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.SetUserActive(ctx, admin, 42, false)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
