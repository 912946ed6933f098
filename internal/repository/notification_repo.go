package repository

import (
	"context"
	"time"

	"toklen/internal/domain"

	"gorm.io/gorm"
)

type notificationModel struct {
	ID        int64      `gorm:"column:id;primaryKey"`
	UserID    int64      `gorm:"column:user_id;not null;index:idx_notifications_user,priority:1"`
	Type      string     `gorm:"column:type;size:50;not null"`
	ServiceID *int64     `gorm:"column:service_id"`
	Title     string     `gorm:"column:title;size:255;not null"`
	Message   *string    `gorm:"column:message;type:text"`
	IsRead    bool       `gorm:"column:is_read;not null;default:false"`
	ReadAt    *time.Time `gorm:"column:read_at"`
	CreatedAt time.Time  `gorm:"column:created_at;index:idx_notifications_user,priority:2"`
}

func (notificationModel) TableName() string { return "notifications" }

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func toDomainNotification(m notificationModel) domain.Notification {
	return domain.Notification{
		ID:        m.ID,
		UserID:    m.UserID,
		Type:      m.Type,
		ServiceID: m.ServiceID,
		Title:     m.Title,
		Message:   strVal(m.Message),
		IsRead:    m.IsRead,
		ReadAt:    m.ReadAt,
		CreatedAt: m.CreatedAt,
	}
}

// CreateMany inserts one row per notification and fills in the ids.
func (r *NotificationRepository) CreateMany(ctx context.Context, items []*domain.Notification) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([]notificationModel, len(items))
	for i, n := range items {
		rows[i] = notificationModel{
			UserID:    n.UserID,
			Type:      n.Type,
			ServiceID: n.ServiceID,
			Title:     n.Title,
			Message:   strPtr(n.Message),
		}
	}
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return err
	}
	for i := range rows {
		items[i].ID = rows[i].ID
		items[i].CreatedAt = rows[i].CreatedAt
	}
	return nil
}

// ListByUser returns the newest notifications first.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Notification, error) {
	var rows []notificationModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Notification, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainNotification(m))
	}
	return out, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&notificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}

// MarkRead is idempotent; a notification owned by someone else is not found.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID int64, at time.Time) error {
	var m notificationModel
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&m).Error
	if err != nil {
		if isNotFound(err) {
			return domain.ErrNotificationNotFound
		}
		return err
	}
	if m.IsRead {
		return nil
	}
	return r.db.WithContext(ctx).Model(&notificationModel{}).
		Where("id = ? AND is_read = ?", id, false).
		Updates(map[string]any{"is_read": true, "read_at": at}).Error
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64, at time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).Model(&notificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]any{"is_read": true, "read_at": at})
	return tx.RowsAffected, tx.Error
}

// DeleteOlderThan removes read notifications created before cutoff.
func (r *NotificationRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("is_read = ? AND created_at < ?", true, cutoff).
		Delete(&notificationModel{})
	return tx.RowsAffected, tx.Error
}
