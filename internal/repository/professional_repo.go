package repository

import (
	"context"
	"database/sql"
	"math"
	"time"

	"toklen/internal/domain"
	"toklen/internal/pkg/geo"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfessionalRepository struct {
	db *gorm.DB
}

func NewProfessionalRepository(db *gorm.DB) *ProfessionalRepository {
	return &ProfessionalRepository{db: db}
}

type professionalModel struct {
	ID              int64     `gorm:"column:id;primaryKey"`
	UserID          int64     `gorm:"column:user_id;not null;uniqueIndex"`
	BusinessName    string    `gorm:"column:business_name;size:255;not null"`
	Description     *string   `gorm:"column:description;type:text"`
	Category        string    `gorm:"column:category;size:100;not null;index:idx_professionals_match,priority:1"`
	Subcategory     *string   `gorm:"column:subcategory;size:100"`
	ExperienceYears int       `gorm:"column:experience_years;not null"`
	HourlyRate      float64   `gorm:"column:hourly_rate;type:numeric(10,2);not null"`
	ServiceRadiusKm float64   `gorm:"column:service_radius_km;type:numeric(6,2);not null"`
	Address         *string   `gorm:"column:address;size:500"`
	Latitude        float64   `gorm:"column:latitude;not null;index:idx_professionals_match,priority:2"`
	Longitude       float64   `gorm:"column:longitude;not null"`
	City            *string   `gorm:"column:city;size:100"`
	District        *string   `gorm:"column:district;size:100"`
	IsAvailable     bool      `gorm:"column:is_available;not null"`
	IsVerified      bool      `gorm:"column:is_verified;not null"`
	AverageRating   float64   `gorm:"column:average_rating;type:numeric(3,2);not null"`
	TotalReviews    int       `gorm:"column:total_reviews;not null"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (professionalModel) TableName() string { return "professionals" }

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func toDomainProfessional(m professionalModel) *domain.Professional {
	return &domain.Professional{
		ID:              m.ID,
		UserID:          m.UserID,
		BusinessName:    m.BusinessName,
		Description:     strVal(m.Description),
		Category:        m.Category,
		Subcategory:     strVal(m.Subcategory),
		ExperienceYears: m.ExperienceYears,
		HourlyRate:      m.HourlyRate,
		ServiceRadiusKm: m.ServiceRadiusKm,
		Address:         strVal(m.Address),
		Latitude:        m.Latitude,
		Longitude:       m.Longitude,
		City:            strVal(m.City),
		District:        strVal(m.District),
		IsAvailable:     m.IsAvailable,
		IsVerified:      m.IsVerified,
		AverageRating:   m.AverageRating,
		TotalReviews:    m.TotalReviews,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toProfessionalModel(p *domain.Professional) professionalModel {
	return professionalModel{
		ID:              p.ID,
		UserID:          p.UserID,
		BusinessName:    p.BusinessName,
		Description:     strPtr(p.Description),
		Category:        p.Category,
		Subcategory:     strPtr(p.Subcategory),
		ExperienceYears: p.ExperienceYears,
		HourlyRate:      p.HourlyRate,
		ServiceRadiusKm: p.ServiceRadiusKm,
		Address:         strPtr(p.Address),
		Latitude:        p.Latitude,
		Longitude:       p.Longitude,
		City:            strPtr(p.City),
		District:        strPtr(p.District),
		IsAvailable:     p.IsAvailable,
		IsVerified:      p.IsVerified,
		AverageRating:   p.AverageRating,
		TotalReviews:    p.TotalReviews,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func (r *ProfessionalRepository) Create(ctx context.Context, p *domain.Professional) error {
	m := toProfessionalModel(p)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		if isUniqueViolation(tx.Error) {
			return domain.ErrAlreadyRegistered
		}
		return tx.Error
	}
	*p = *toDomainProfessional(m)
	return nil
}

func (r *ProfessionalRepository) GetByID(ctx context.Context, id int64) (*domain.Professional, error) {
	var m professionalModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		if isNotFound(tx.Error) {
			return nil, domain.ErrProfessionalNotFound
		}
		return nil, tx.Error
	}
	return toDomainProfessional(m), nil
}

func (r *ProfessionalRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Professional, error) {
	var m professionalModel
	tx := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&m)
	if tx.Error != nil {
		if isNotFound(tx.Error) {
			return nil, domain.ErrProfessionalNotFound
		}
		return nil, tx.Error
	}
	return toDomainProfessional(m), nil
}

func (r *ProfessionalRepository) SetAvailability(ctx context.Context, id int64, available bool) error {
	return r.updateColumns(ctx, id, map[string]any{"is_available": available, "updated_at": time.Now()})
}

func (r *ProfessionalRepository) SetVerified(ctx context.Context, id int64, verified bool) error {
	return r.updateColumns(ctx, id, map[string]any{"is_verified": verified, "updated_at": time.Now()})
}

func (r *ProfessionalRepository) updateColumns(ctx context.Context, id int64, updates map[string]any) error {
	tx := r.db.WithContext(ctx).Model(&professionalModel{}).Where("id = ?", id).Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrProfessionalNotFound
	}
	return nil
}

// FindMatchable returns available, verified professionals inside box,
// optionally restricted to one category. Exact distance is left to the caller.
func (r *ProfessionalRepository) FindMatchable(ctx context.Context, box geo.Box, category string) ([]domain.Professional, error) {
	q := r.db.WithContext(ctx).
		Model(&professionalModel{}).
		Where("is_available = ? AND is_verified = ?", true, true).
		Where("latitude BETWEEN ? AND ?", box.MinLat, box.MaxLat)
	if !box.WrapsLng {
		q = q.Where("longitude BETWEEN ? AND ?", box.MinLng, box.MaxLng)
	}
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var rows []professionalModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Professional, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainProfessional(m))
	}
	return out, nil
}

// LockForUpdate takes a row lock on the professional for the rest of the
// enclosing transaction. SQLite ignores the clause; its single writer
// already serializes.
func (r *ProfessionalRepository) LockForUpdate(ctx context.Context, id int64) error {
	var m professionalModel
	if err := lockProfessional(r.db.WithContext(ctx), id, &m).Error; err != nil {
		if isNotFound(err) {
			return domain.ErrProfessionalNotFound
		}
		return err
	}
	return nil
}

func lockProfessional(db *gorm.DB, id int64, dest *professionalModel) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Select("id").
		Where("id = ?", id).
		Take(dest)
}

// RecomputeRating rebuilds average_rating and total_reviews from the
// client ratings stored on services.
func (r *ProfessionalRepository) RecomputeRating(ctx context.Context, professionalID int64) (float64, int, error) {
	var (
		avg   sql.NullFloat64
		count int64
	)
	row := r.db.WithContext(ctx).Raw(`
SELECT AVG(client_rating), COUNT(client_rating)
FROM services
WHERE professional_id = ? AND client_rating IS NOT NULL
`, professionalID).Row()
	if err := row.Scan(&avg, &count); err != nil {
		return 0, 0, err
	}

	average := 0.0
	if avg.Valid {
		average = math.Round(avg.Float64*100) / 100
	}

	err := r.updateColumns(ctx, professionalID, map[string]any{
		"average_rating": average,
		"total_reviews":  count,
		"updated_at":     time.Now(),
	})
	if err != nil {
		return 0, 0, err
	}
	return average, int(count), nil
}
