package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"toklen/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userModel struct {
	ID          int64      `gorm:"column:id;primaryKey"`
	FirebaseUID string     `gorm:"column:firebase_uid;size:128;not null;uniqueIndex"`
	Email       string     `gorm:"column:email;size:255;not null"`
	DisplayName *string    `gorm:"column:display_name;size:100"`
	UserType    string     `gorm:"column:user_type;size:20;not null;default:client"`
	IsActive    bool       `gorm:"column:is_active;not null"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	LastLoginAt *time.Time `gorm:"column:last_login_at"`
}

func (userModel) TableName() string { return "users" }

func toDomainUser(m userModel) (*domain.User, error) {
	role, err := domain.ParseRole(m.UserType)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", m.ID, err)
	}

	var name string
	if m.DisplayName != nil {
		name = *m.DisplayName
	}

	return &domain.User{
		ID:          m.ID,
		FirebaseUID: m.FirebaseUID,
		Email:       m.Email,
		DisplayName: name,
		UserType:    role,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
		LastLoginAt: m.LastLoginAt,
	}, nil
}

func toUserModel(u *domain.User) userModel {
	var name *string
	if u.DisplayName != "" {
		v := u.DisplayName
		name = &v
	}

	return userModel{
		ID:          u.ID,
		FirebaseUID: u.FirebaseUID,
		Email:       strings.TrimSpace(strings.ToLower(u.Email)),
		DisplayName: name,
		UserType:    u.UserType.String(),
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		if isUniqueViolation(tx.Error) {
			return fmt.Errorf("%w: user already exists", domain.ErrConflict)
		}
		return tx.Error
	}
	created, err := toDomainUser(m)
	if err != nil {
		return err
	}
	*u = *created
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		if isNotFound(tx.Error) {
			return nil, domain.ErrUserNotFound
		}
		return nil, tx.Error
	}
	return toDomainUser(m)
}

func (r *UserRepository) GetByFirebaseUID(ctx context.Context, uid string) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).Where("firebase_uid = ?", uid).First(&m)
	if tx.Error != nil {
		if isNotFound(tx.Error) {
			return nil, domain.ErrUserNotFound
		}
		return nil, tx.Error
	}
	return toDomainUser(m)
}

// TouchLogin refreshes email, optional display name and last_login_at.
func (r *UserRepository) TouchLogin(ctx context.Context, id int64, email, displayName string, at time.Time) error {
	updates := map[string]any{"last_login_at": at}
	if email = strings.TrimSpace(strings.ToLower(email)); email != "" {
		updates["email"] = email
	}
	if displayName != "" {
		updates["display_name"] = displayName
	}
	tx := r.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", id).Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdateDisplayName(ctx context.Context, id int64, displayName string) error {
	tx := r.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", id).Update("display_name", displayName)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdateUserType(ctx context.Context, id int64, role domain.Role) error {
	tx := r.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", id).Update("user_type", role.String())
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) SetActive(ctx context.Context, id int64, active bool) error {
	tx := r.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", id).Update("is_active", active)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
