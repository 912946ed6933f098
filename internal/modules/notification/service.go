package notification

import (
	"context"
	"time"

	"toklen/internal/domain"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type NotificationRepository interface {
	ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Notification, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
	MarkRead(ctx context.Context, id, userID int64, at time.Time) error
	MarkAllRead(ctx context.Context, userID int64, at time.Time) (int64, error)
}

type Service struct {
	repo NotificationRepository
	now  func() time.Time
}

func NewService(repo NotificationRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) List(ctx context.Context, userID int64, limit int) ([]domain.Notification, int64, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	list, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, 0, err
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return list, unread, nil
}

func (s *Service) MarkRead(ctx context.Context, userID, id int64) error {
	return s.repo.MarkRead(ctx, id, userID, s.now().UTC())
}

func (s *Service) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID, s.now().UTC())
}
