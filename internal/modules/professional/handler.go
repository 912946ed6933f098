package professional

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

func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	if public != nil {
		public.GET("/professionals/:id", h.GetByID)
	}

	if protected != nil {
		protected.POST("/professionals/register", h.Register)

		pro := protected.Group("/professionals/me", middleware.RequireProfessional())
		pro.GET("", h.Me)
		pro.PATCH("/availability", h.SetAvailability)
	}
}

// Register creates a professional profile for the caller.
// @Summary  Register as professional
// @Tags     Professionals
// @Security BearerAuth
// @Param    request body RegisterRequest true "Profile"
// @Success  201 {object} map[string]interface{}
// @Failure  409 {object} map[string]interface{} "Profile already exists"
// @Router   /professionals/register [POST]
func (h *Handler) Register(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	pro, err := h.svc.Register(c.Request.Context(), p, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Professional registered successfully", gin.H{"professional": pro})
}

func (h *Handler) Me(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	pc, err := p.Professional()
	if err != nil {
		response.FromError(c, err)
		return
	}

	pro, err := h.svc.Me(c.Request.Context(), pc)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Professional retrieved successfully", gin.H{"professional": pro})
}

func (h *Handler) SetAvailability(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	pc, err := p.Professional()
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	pro, err := h.svc.SetAvailability(c.Request.Context(), pc, *req.IsAvailable)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Availability updated successfully", gin.H{"professional": pro})
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid professional ID")
		return
	}

	pro, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Professional retrieved successfully", gin.H{"professional": pro})
}
