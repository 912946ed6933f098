package servicereq

import (
	"net/http"
	"strconv"

	"toklen/internal/domain"
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
		public.GET("/services/public", h.ListPublic)
	}

	if protected != nil {
		protected.POST("/services", h.Create)
		protected.GET("/services/user", h.ListMine)
		protected.GET("/services/:id", h.GetByID)
		protected.PATCH("/services/:id/accept", middleware.RequireProfessional(), h.Accept)
		protected.PATCH("/services/:id/status", h.UpdateStatus)
	}
}

// Create files a service request for the caller.
// @Summary  Create service request
// @Tags     Services
// @Security BearerAuth
// @Param    request body CreateRequest true "Service request"
// @Success  201 {object} map[string]interface{}
// @Failure  400 {object} map[string]interface{} "Validation error"
// @Router   /services [POST]
func (h *Handler) Create(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	svc, err := h.svc.Create(c.Request.Context(), p, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Service created successfully", gin.H{"service": svc})
}

// ListMine lists the caller's services; ?status= narrows the result.
// @Router /services/user [GET]
func (h *Handler) ListMine(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}

	items, err := h.svc.ListForPrincipal(c.Request.Context(), p, domain.ServiceStatus(c.Query("status")))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Services retrieved successfully", gin.H{"services": items, "count": len(items)})
}

func (h *Handler) ListPublic(c *gin.Context) {
	items, err := h.svc.ListPublic(c.Request.Context(), c.Query("category"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Services retrieved successfully", gin.H{"services": items, "count": len(items)})
}

func (h *Handler) GetByID(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	id, ok := serviceID(c)
	if !ok {
		return
	}

	svc, err := h.svc.Get(c.Request.Context(), p, id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Service retrieved successfully", gin.H{"service": svc})
}

// Accept assigns the calling professional to a pending service.
// @Summary  Accept service
// @Tags     Services
// @Security BearerAuth
// @Param    id path int true "Service ID"
// @Success  200 {object} map[string]interface{}
// @Failure  409 {object} map[string]interface{} "Service no longer available"
// @Router   /services/{id}/accept [PATCH]
func (h *Handler) Accept(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	id, ok := serviceID(c)
	if !ok {
		return
	}

	svc, err := h.svc.Accept(c.Request.Context(), p, id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Service accepted successfully", gin.H{"service": svc})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}
	id, ok := serviceID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	svc, err := h.svc.UpdateStatus(c.Request.Context(), p, id, req.Status)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Service status updated successfully", gin.H{"service": svc})
}

// serviceID parses :id, writing a 400 when it is not a positive integer.
func serviceID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid service ID")
		return 0, false
	}
	return id, true
}
