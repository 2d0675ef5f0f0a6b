package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/docvault-api/internal/application"
	"github.com/oksasatya/docvault-api/pkg/response"
)

type NotificationHandler struct {
	Svc    *application.NotificationService
	Logger *logrus.Logger
}

func NewNotificationHandler(svc *application.NotificationService, logger *logrus.Logger) *NotificationHandler {
	return &NotificationHandler{Svc: svc, Logger: logger}
}

func (h *NotificationHandler) ListForAdmins(c *gin.Context) {
	list, err := h.Svc.ListUnreadForAdmins(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err, "Server error")
		return
	}
	response.Success(c, http.StatusOK, list, "Unread notifications", map[string]any{"count": len(list)})
}

func (h *NotificationHandler) ListForUser(c *gin.Context) {
	list, err := h.Svc.ListUnreadForUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		fail(c, h.Logger, err, "Error fetching notifications")
		return
	}
	response.Success(c, http.StatusOK, list, "Unread notifications", map[string]any{"count": len(list)})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.Svc.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, h.Logger, err, "Server error")
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Notification marked as read", nil)
}
