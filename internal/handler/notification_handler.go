package handler

import (
	"github.com/gin-gonic/gin"

	"gdocs/internal/service"
)

// NotificationHandler handles the notification feed endpoints.
type NotificationHandler struct {
	notificationService service.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List handles GET /api/v1/notifications
// @Summary List notifications
// @Tags notifications
// @Produce json
// @Success 200 {object} APIResponse{data=[]domain.Notification} "Notifications"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Security BearerAuth
// @Router /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	feed, err := h.notificationService.List(c.Request.Context(), sess)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, feed)
}

// MarkRead handles POST /api/v1/notifications/:id/read
// @Summary Mark a notification read
// @Tags notifications
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} APIResponse{data=object} "Marked"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 404 {object} APIResponse "Not found"
// @Security BearerAuth
// @Router /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), sess, c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "notification marked as read"})
}

// ClearAll handles DELETE /api/v1/notifications
// @Summary Clear notifications
// @Tags notifications
// @Produce json
// @Success 200 {object} APIResponse{data=object} "Cleared"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Security BearerAuth
// @Router /notifications [delete]
func (h *NotificationHandler) ClearAll(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	if err := h.notificationService.ClearAll(c.Request.Context(), sess); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "notifications cleared"})
}

// GetSettings handles GET /api/v1/notifications/settings
// @Summary Get notification settings
// @Tags notifications
// @Produce json
// @Success 200 {object} APIResponse{data=domain.NotificationSettings} "Settings"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Security BearerAuth
// @Router /notifications/settings [get]
func (h *NotificationHandler) GetSettings(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	RespondOK(c, sess.Settings)
}

// UpdateSettings handles PUT /api/v1/notifications/settings
// @Summary Update notification settings
// @Tags notifications
// @Accept json
// @Produce json
// @Param body body service.UpdateSettingsInput true "Settings"
// @Success 200 {object} APIResponse{data=domain.NotificationSettings} "Settings"
// @Failure 400 {object} APIResponse "Malformed body"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Security BearerAuth
// @Router /notifications/settings [put]
func (h *NotificationHandler) UpdateSettings(c *gin.Context) {
	sess, ok := session(c)
	if !ok {
		return
	}

	var input service.UpdateSettingsInput
	if !bindJSON(c, &input) {
		return
	}

	settings, err := h.notificationService.UpdateSettings(c.Request.Context(), sess, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, settings)
}
