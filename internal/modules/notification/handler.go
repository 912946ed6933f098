package notification

import (
	"net/http"
	"strconv"

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

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	g := protected.Group("/notifications")
	{
		g.GET("", h.GetNotifications)
		g.PATCH("/read-all", h.MarkAllAsRead)
		g.PATCH("/:id/read", h.MarkAsRead)
	}
}

// GetNotifications lists the caller's inbox, newest first.
// @Summary  My notifications
// @Tags     Notifications
// @Security BearerAuth
// @Param    limit query int false "Max items (default 20, max 100)"
// @Router   /notifications [GET]
func (h *Handler) GetNotifications(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}

	limit := 0
	if s := c.Query("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v <= 0 {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be a positive integer")
			return
		}
		limit = v
	}

	list, unread, err := h.service.List(c.Request.Context(), p.UserID(), limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Notifications retrieved successfully", gin.H{
		"notifications": list,
		"unread_count":  unread,
	})
}

func (h *Handler) MarkAsRead(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid notification ID")
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), p.UserID(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Notification marked as read", gin.H{"id": id})
}

func (h *Handler) MarkAllAsRead(c *gin.Context) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		return
	}

	n, err := h.service.MarkAllRead(c.Request.Context(), p.UserID())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Notifications marked as read", gin.H{"updated": n})
}
