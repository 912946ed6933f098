package professional

type RegisterRequest struct {
	BusinessName    string   `json:"businessName" binding:"required,min=2,max=255"`
	Description     string   `json:"description" binding:"max=1000"`
	Category        string   `json:"category" binding:"required,max=100"`
	Subcategory     string   `json:"subcategory" binding:"max=100"`
	ExperienceYears int      `json:"experienceYears" binding:"gte=0"`
	HourlyRate      float64  `json:"hourlyRate" binding:"gte=0"`
	ServiceRadiusKm *float64 `json:"serviceRadiusKm" binding:"omitempty,gte=1,lte=100"`
	Address         string   `json:"address" binding:"max=500"`
	Latitude        *float64 `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude       *float64 `json:"longitude" binding:"required,gte=-180,lte=180"`
	City            string   `json:"city" binding:"max=100"`
	District        string   `json:"district" binding:"max=100"`
}

type AvailabilityRequest struct {
	IsAvailable *bool `json:"isAvailable" binding:"required"`
}
