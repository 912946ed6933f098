package servicereq

import (
	"time"

	"toklen/internal/domain"
)

type CreateRequest struct {
	Title            string     `json:"title" binding:"required,min=5,max=255"`
	Description      string     `json:"description" binding:"required,min=10,max=1000"`
	Category         string     `json:"category" binding:"required,max=100"`
	ServiceAddress   string     `json:"serviceAddress" binding:"required,max=500"`
	ServiceLatitude  *float64   `json:"serviceLatitude" binding:"required,gte=-90,lte=90"`
	ServiceLongitude *float64   `json:"serviceLongitude" binding:"required,gte=-180,lte=180"`
	EstimatedPrice   *float64   `json:"estimatedPrice" binding:"omitempty,gte=0"`
	RequestedDate    *time.Time `json:"requestedDate"`
}

type UpdateStatusRequest struct {
	Status domain.ServiceStatus `json:"status" binding:"required,oneof=pending accepted in_progress completed cancelled"`
}
