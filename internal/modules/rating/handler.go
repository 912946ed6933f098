package rating

import (
	"net/http"
	"strconv"

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

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.POST("/services/:id/rate", h.Rate)
}

// Rate submits the caller's rating for a completed service.
// @Summary  Rate service
// @Tags     Services
// @Security BearerAuth
// @Param    id      path int         true "Service ID"
// @Param    request body RateRequest true "Rating 1-5 and optional review"
// @Failure  400 {object} map[string]interface{} "Already rated or not completed"
// @Router   /services/{id}/rate [POST]
func (h *Handler) Rate(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid service ID")
		return
	}

	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	res, err := h.svc.Rate(c.Request.Context(), p, id, req.Rating, req.Review)
	if err != nil {
		response.FromError(c, err)
		return
	}

	payload := gin.H{"service": res.Service}
	if res.AverageRating != nil {
		payload["professional_rating"] = gin.H{
			"average_rating": *res.AverageRating,
			"total_reviews":  *res.TotalReviews,
		}
	}
	response.Success(c, http.StatusOK, "Rating submitted successfully", payload)
}
