package matching

import (
	"net/http"

	"toklen/internal/middleware"
	"toklen/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the public search behind publicGuards (rate
// limiting) and the professional feed on the protected group.
func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup, publicGuards ...gin.HandlerFunc) {
	if public != nil {
		public.GET("/professionals/nearby", append(publicGuards, h.NearbyProfessionals)...)
	}
	if protected != nil {
		protected.GET("/services/nearby", middleware.RequireProfessional(), h.NearbyServices)
	}
}

// NearbyProfessionals searches around a point.
// @Summary  Nearby professionals
// @Tags     Professionals
// @Param    latitude  query number true  "Latitude"
// @Param    longitude query number true  "Longitude"
// @Param    radius    query number false "Radius in km (default 10)"
// @Param    category  query string false "Category"
// @Router   /professionals/nearby [GET]
func (h *Handler) NearbyProfessionals(c *gin.Context) {
	var q NearbyProfessionalsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	radius := DefaultRadiusKm
	if q.Radius != nil {
		radius = *q.Radius
	}

	items, err := h.svc.NearbyProfessionals(c.Request.Context(), *q.Latitude, *q.Longitude, radius, q.Category)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Professionals retrieved successfully", gin.H{
		"professionals": items,
		"count":         len(items),
		"radius_km":     radius,
	})
}

func (h *Handler) NearbyServices(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	pc, err := p.Professional()
	if err != nil {
		response.FromError(c, err)
		return
	}

	items, err := h.svc.NearbyServices(c.Request.Context(), pc)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Services retrieved successfully", gin.H{"services": items, "count": len(items)})
}
