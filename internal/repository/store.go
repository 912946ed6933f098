package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories that share one database handle, either the
// pool or an open transaction.
type Store struct {
	db            *gorm.DB
	Users         *UserRepository
	Professionals *ProfessionalRepository
	Services      *ServiceRepository
	Notifications *NotificationRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Users:         NewUserRepository(db),
		Professionals: NewProfessionalRepository(db),
		Services:      NewServiceRepository(db),
		Notifications: NewNotificationRepository(db),
	}
}

func (s *Store) DB() *gorm.DB {
	return s.db
}

// WithinTx runs fn against a Store bound to a single transaction. The
// transaction rolls back if fn returns an error or panics.
func (s *Store) WithinTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// AutoMigrate creates or updates the tables backing the repositories.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&userModel{}, &professionalModel{}, &serviceModel{}, &notificationModel{})
}
