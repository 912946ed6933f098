package domain

import "time"

type Professional struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	BusinessName    string    `json:"business_name"`
	Description     string    `json:"description,omitempty"`
	Category        string    `json:"category"`
	Subcategory     string    `json:"subcategory,omitempty"`
	ExperienceYears int       `json:"experience_years"`
	HourlyRate      float64   `json:"hourly_rate"`
	ServiceRadiusKm float64   `json:"service_radius_km"`
	Address         string    `json:"address,omitempty"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	City            string    `json:"city,omitempty"`
	District        string    `json:"district,omitempty"`
	IsAvailable     bool      `json:"is_available"`
	IsVerified      bool      `json:"is_verified"`
	AverageRating   float64   `json:"average_rating"`
	TotalReviews    int       `json:"total_reviews"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NearbyProfessional is a match row of the proximity search.
type NearbyProfessional struct {
	Professional
	DistanceKm float64 `json:"distance_km"`
}
