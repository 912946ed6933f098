package repository

import (
	"context"
	"time"

	"toklen/internal/domain"
	"toklen/internal/pkg/geo"

	"gorm.io/gorm"
)

type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

type serviceModel struct {
	ID                 int64      `gorm:"column:id;primaryKey"`
	ClientID           int64      `gorm:"column:client_id;not null;index"`
	ProfessionalID     *int64     `gorm:"column:professional_id;index"`
	Title              string     `gorm:"column:title;size:255;not null"`
	Description        string     `gorm:"column:description;type:text;not null"`
	Category           string     `gorm:"column:category;size:100;not null;index:idx_services_match,priority:2"`
	ServiceAddress     string     `gorm:"column:service_address;size:500;not null"`
	ServiceLatitude    float64    `gorm:"column:service_latitude;not null"`
	ServiceLongitude   float64    `gorm:"column:service_longitude;not null"`
	EstimatedPrice     *float64   `gorm:"column:estimated_price;type:numeric(10,2)"`
	RequestedDate      time.Time  `gorm:"column:requested_date;not null"`
	Status             string     `gorm:"column:status;size:20;not null;index:idx_services_match,priority:1"`
	ModerationStatus   string     `gorm:"column:moderation_status;size:20;not null"`
	AcceptedAt         *time.Time `gorm:"column:accepted_at"`
	StartedAt          *time.Time `gorm:"column:started_at"`
	CompletedAt        *time.Time `gorm:"column:completed_at"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
	ClientRating       *int       `gorm:"column:client_rating"`
	ClientReview       *string    `gorm:"column:client_review;type:text"`
	ProfessionalRating *int       `gorm:"column:professional_rating"`
	ProfessionalReview *string    `gorm:"column:professional_review;type:text"`
}

func (serviceModel) TableName() string { return "services" }

func toDomainService(m serviceModel) *domain.Service {
	return &domain.Service{
		ID:                 m.ID,
		ClientID:           m.ClientID,
		ProfessionalID:     m.ProfessionalID,
		Title:              m.Title,
		Description:        m.Description,
		Category:           m.Category,
		ServiceAddress:     m.ServiceAddress,
		ServiceLatitude:    m.ServiceLatitude,
		ServiceLongitude:   m.ServiceLongitude,
		EstimatedPrice:     m.EstimatedPrice,
		RequestedDate:      m.RequestedDate,
		Status:             domain.ServiceStatus(m.Status),
		ModerationStatus:   domain.ModerationStatus(m.ModerationStatus),
		AcceptedAt:         m.AcceptedAt,
		StartedAt:          m.StartedAt,
		CompletedAt:        m.CompletedAt,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
		ClientRating:       m.ClientRating,
		ClientReview:       m.ClientReview,
		ProfessionalRating: m.ProfessionalRating,
		ProfessionalReview: m.ProfessionalReview,
	}
}

func toServiceModel(s *domain.Service) serviceModel {
	return serviceModel{
		ID:                 s.ID,
		ClientID:           s.ClientID,
		ProfessionalID:     s.ProfessionalID,
		Title:              s.Title,
		Description:        s.Description,
		Category:           s.Category,
		ServiceAddress:     s.ServiceAddress,
		ServiceLatitude:    s.ServiceLatitude,
		ServiceLongitude:   s.ServiceLongitude,
		EstimatedPrice:     s.EstimatedPrice,
		RequestedDate:      s.RequestedDate,
		Status:             string(s.Status),
		ModerationStatus:   string(s.ModerationStatus),
		AcceptedAt:         s.AcceptedAt,
		StartedAt:          s.StartedAt,
		CompletedAt:        s.CompletedAt,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
		ClientRating:       s.ClientRating,
		ClientReview:       s.ClientReview,
		ProfessionalRating: s.ProfessionalRating,
		ProfessionalReview: s.ProfessionalReview,
	}
}

func toDomainServices(rows []serviceModel) []domain.Service {
	out := make([]domain.Service, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainService(m))
	}
	return out
}

type ServiceFilter struct {
	ClientID       *int64
	ProfessionalID *int64
	Status         domain.ServiceStatus
	Moderation     domain.ModerationStatus
	Category       string
	Limit          int
}

func (r *ServiceRepository) Create(ctx context.Context, s *domain.Service) error {
	m := toServiceModel(s)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*s = *toDomainService(m)
	return nil
}

func (r *ServiceRepository) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	var m serviceModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		if isNotFound(tx.Error) {
			return nil, domain.ErrServiceNotFound
		}
		return nil, tx.Error
	}
	return toDomainService(m), nil
}

// List returns services matching f, newest first.
func (r *ServiceRepository) List(ctx context.Context, f ServiceFilter) ([]domain.Service, error) {
	q := r.db.WithContext(ctx).Model(&serviceModel{})
	if f.ClientID != nil {
		q = q.Where("client_id = ?", *f.ClientID)
	}
	if f.ProfessionalID != nil {
		q = q.Where("professional_id = ?", *f.ProfessionalID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if f.Moderation != "" {
		q = q.Where("moderation_status = ?", string(f.Moderation))
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var rows []serviceModel
	if err := q.Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainServices(rows), nil
}

// Accept assigns professionalID if the service is still pending, not
// rejected by moderation, and the professional is available. It reports
// false when another writer got there first, the professional went
// unavailable, or the service is gone.
func (r *ServiceRepository) Accept(ctx context.Context, id, professionalID int64, at time.Time) (bool, error) {
	tx := r.db.WithContext(ctx).
		Model(&serviceModel{}).
		Where("id = ? AND status = ? AND moderation_status <> ?", id, string(domain.ServicePending), string(domain.ModerationRejected)).
		Where("EXISTS (SELECT 1 FROM professionals WHERE id = ? AND is_available = ?)", professionalID, true).
		Updates(map[string]any{
			"professional_id": professionalID,
			"status":          string(domain.ServiceAccepted),
			"accepted_at":     at,
			"updated_at":      at,
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

// Transition moves a service from one status to the next, stamping the
// matching timestamp column. It reports false if the row was not in from.
func (r *ServiceRepository) Transition(ctx context.Context, id int64, from, to domain.ServiceStatus, at time.Time) (bool, error) {
	updates := map[string]any{
		"status":     string(to),
		"updated_at": at,
	}
	switch to {
	case domain.ServiceInProgress:
		updates["started_at"] = at
	case domain.ServiceCompleted:
		updates["completed_at"] = at
	}

	tx := r.db.WithContext(ctx).
		Model(&serviceModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(updates)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

// RateAsClient stores the client's rating once, on completed services only.
func (r *ServiceRepository) RateAsClient(ctx context.Context, id int64, rating int, review *string) (bool, error) {
	return r.rate(ctx, id, "client_rating", "client_review", rating, review)
}

// RateAsProfessional stores the professional's rating once, on completed services only.
func (r *ServiceRepository) RateAsProfessional(ctx context.Context, id int64, rating int, review *string) (bool, error) {
	return r.rate(ctx, id, "professional_rating", "professional_review", rating, review)
}

func (r *ServiceRepository) rate(ctx context.Context, id int64, ratingCol, reviewCol string, rating int, review *string) (bool, error) {
	tx := r.db.WithContext(ctx).
		Model(&serviceModel{}).
		Where("id = ? AND status = ?", id, string(domain.ServiceCompleted)).
		Where(ratingCol + " IS NULL").
		Updates(map[string]any{
			ratingCol:    rating,
			reviewCol:    review,
			"updated_at": time.Now(),
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

// Moderate moves moderation_status out of pending.
func (r *ServiceRepository) Moderate(ctx context.Context, id int64, to domain.ModerationStatus) (bool, error) {
	tx := r.db.WithContext(ctx).
		Model(&serviceModel{}).
		Where("id = ? AND moderation_status = ?", id, string(domain.ModerationPending)).
		Updates(map[string]any{
			"moderation_status": string(to),
			"updated_at":        time.Now(),
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

// Delete removes the row regardless of status.
func (r *ServiceRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tx := r.db.WithContext(ctx).Delete(&serviceModel{}, id)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// FindPendingInBox returns pending, non-rejected services of a category
// inside box. Exact distance is left to the caller.
func (r *ServiceRepository) FindPendingInBox(ctx context.Context, box geo.Box, category string) ([]domain.Service, error) {
	q := r.db.WithContext(ctx).
		Model(&serviceModel{}).
		Where("status = ? AND category = ?", string(domain.ServicePending), category).
		Where("moderation_status <> ?", string(domain.ModerationRejected)).
		Where("service_latitude BETWEEN ? AND ?", box.MinLat, box.MaxLat)
	if !box.WrapsLng {
		q = q.Where("service_longitude BETWEEN ? AND ?", box.MinLng, box.MaxLng)
	}

	var rows []serviceModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainServices(rows), nil
}
