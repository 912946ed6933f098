package user

import (
	"net/http"

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

// RegisterRoutes mounts sync on a group that only verifies the token, and
// the profile endpoints on a group that also resolves the principal.
func (h *Handler) RegisterRoutes(authOnly, protected *gin.RouterGroup) {
	authOnly.POST("/users/sync", h.Sync)

	protected.GET("/users/me", h.Me)
	protected.PATCH("/users/me", h.UpdateMe)
}

// Sync creates or refreshes the caller's user record.
// @Summary  Sync user from identity token
// @Tags     Users
// @Security BearerAuth
// @Router   /users/sync [POST]
func (h *Handler) Sync(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		response.FromError(c, domain.ErrUnauthenticated)
		return
	}

	var req SyncRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BindError(c, err)
			return
		}
	}

	u, created, err := h.svc.Sync(c.Request.Context(), id, req.DisplayName)
	if err != nil {
		response.FromError(c, err)
		return
	}

	status, msg := http.StatusOK, "User synced successfully"
	if created {
		status, msg = http.StatusCreated, "User created successfully"
	}
	response.Success(c, status, msg, gin.H{"user": u})
}

func (h *Handler) Me(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}

	u, err := h.svc.Me(c.Request.Context(), p)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "User retrieved successfully", gin.H{"user": u})
}

func (h *Handler) UpdateMe(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}

	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	u, err := h.svc.UpdateDisplayName(c.Request.Context(), p, req.DisplayName)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "User updated successfully", gin.H{"user": u})
}
