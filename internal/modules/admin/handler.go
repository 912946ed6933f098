package admin

import (
	"context"
	"net/http"
	"strconv"

	"toklen/internal/domain"
	"toklen/internal/middleware"
	"toklen/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes expects a group already guarded by middleware.AdminOnly.
func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	// services moderation
	admin.GET("/services/pending", h.PendingServices)
	admin.PATCH("/services/:id/approve", h.ApproveService)
	admin.PATCH("/services/:id/reject", h.RejectService)
	admin.DELETE("/services/:id", h.DeleteService)

	// professionals
	admin.PATCH("/professionals/:id/verify", h.VerifyProfessional)

	// users moderation
	admin.PATCH("/users/:id/ban", h.BanUser)
	admin.PATCH("/users/:id/unban", h.UnbanUser)
}

func adminCap(c *gin.Context) (domain.AdminCap, bool) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return domain.AdminCap{}, false
	}
	ac, err := p.Admin()
	if err != nil {
		response.FromError(c, err)
		return domain.AdminCap{}, false
	}
	return ac, true
}

func pathID(c *gin.Context, what string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+what+" ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) PendingServices(c *gin.Context) {
	ac, ok := adminCap(c)
	if !ok {
		return
	}

	items, err := h.service.PendingServices(c.Request.Context(), ac)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Pending services retrieved successfully", gin.H{"services": items, "count": len(items)})
}

// ApproveService approves a service awaiting moderation.
// @Summary  Approve service
// @Tags     Admin
// @Security BearerAuth
// @Param    id path int true "Service ID"
// @Failure  409 {object} map[string]interface{} "Already moderated"
// @Router   /admin/services/{id}/approve [PATCH]
func (h *Handler) ApproveService(c *gin.Context) {
	h.moderate(c, h.service.ApproveService, "Service approved successfully")
}

// RejectService rejects a service awaiting moderation.
// @Router /admin/services/{id}/reject [PATCH]
func (h *Handler) RejectService(c *gin.Context) {
	h.moderate(c, h.service.RejectService, "Service rejected successfully")
}

func (h *Handler) moderate(c *gin.Context, op func(ctx context.Context, ac domain.AdminCap, id int64) (*domain.Service, error), msg string) {
	ac, ok := adminCap(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "service")
	if !ok {
		return
	}

	svc, err := op(c.Request.Context(), ac, id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, msg, gin.H{"service": svc})
}

// DeleteService hard-deletes a service.
// @Router /admin/services/{id} [DELETE]
func (h *Handler) DeleteService(c *gin.Context) {
	ac, ok := adminCap(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "service")
	if !ok {
		return
	}

	if err := h.service.DeleteService(c.Request.Context(), ac, id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Service deleted successfully", gin.H{"service_id": id})
}

func (h *Handler) VerifyProfessional(c *gin.Context) {
	ac, ok := adminCap(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "professional")
	if !ok {
		return
	}

	pro, err := h.service.VerifyProfessional(c.Request.Context(), ac, id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Professional verified successfully", gin.H{"professional": pro})
}

func (h *Handler) BanUser(c *gin.Context) {
	h.setUserActive(c, false, "User banned successfully")
}

func (h *Handler) UnbanUser(c *gin.Context) {
	h.setUserActive(c, true, "User unbanned successfully")
}

func (h *Handler) setUserActive(c *gin.Context, active bool, msg string) {
	ac, ok := adminCap(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "user")
	if !ok {
		return
	}

	u, err := h.service.SetUserActive(c.Request.Context(), ac, id, active)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, msg, gin.H{"user": u})
}
