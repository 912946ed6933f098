package domain

import "time"

// Notification is a persisted copy of a lifecycle event for one user.
type Notification struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	Type      string     `json:"type"`
	ServiceID *int64     `json:"service_id,omitempty"`
	Title     string     `json:"title"`
	Message   string     `json:"message,omitempty"`
	IsRead    bool       `json:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
