package matching

type NearbyProfessionalsQuery struct {
	Latitude  *float64 `form:"latitude" json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude *float64 `form:"longitude" json:"longitude" binding:"required,gte=-180,lte=180"`
	Radius    *float64 `form:"radius" json:"radius" binding:"omitempty,gt=0,lte=500"`
	Category  string   `form:"category" json:"category" binding:"max=100"`
}
