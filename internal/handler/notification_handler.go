package handler

import (
	"github.com/gin-gonic/gin"

	"spp-be-svc/internal/middleware"
	"spp-be-svc/internal/service"
	"spp-be-svc/pkg/logger"
	"spp-be-svc/pkg/utils"
)

// NotificationHandler handles in-app notification HTTP requests
type NotificationHandler struct {
	notificationService service.NotificationService
	logger              *logger.Logger
}

// NewNotificationHandler creates a new NotificationHandler instance
func NewNotificationHandler(notificationService service.NotificationService, logger *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		logger:              logger,
	}
}

// GetNotifications retrieves the caller's notifications
// @Summary List own notifications
// @Tags notifications
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} utils.PaginatedResponse{data=[]models.Notification} "Notifications retrieved"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Router /api/v1/notifications [get]
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Missing user identity", nil)
		return
	}

	page, limit := utils.GetPaginationParams(c)

	notifications, total, err := h.notificationService.ListByUser(userID, page, limit)
	if err != nil {
		h.logger.WithError(err).WithField("user_id", userID).Error("Failed to retrieve notifications")
		utils.InternalServerErrorResponse(c, "Failed to retrieve notifications", err)
		return
	}

	utils.PaginatedSuccessResponse(c, "Notifications retrieved successfully", notifications, page, limit, total)
}

// MarkNotificationRead marks one of the caller's notifications as read
// @Summary Mark a notification as read
// @Tags notifications
// @Accept json
// @Produce json
// @Param id path int true "Notification ID"
// @Success 200 {object} utils.APIResponse "Notification marked as read"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Router /api/v1/notifications/{id}/read [put]
func (h *NotificationHandler) MarkNotificationRead(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Missing user identity", nil)
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.notificationService.MarkRead(id, userID); err != nil {
		h.logger.WithError(err).WithField("notification_id", id).Error("Failed to mark notification as read")
		utils.InternalServerErrorResponse(c, "Failed to mark notification as read", err)
		return
	}

	utils.SuccessResponse(c, "Notification marked as read", nil)
}
