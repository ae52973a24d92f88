package http

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Darryldn9/direla-backend/internal/middleware/auth"
	"github.com/Darryldn9/direla-backend/internal/usecase"
)

type NotificationHandler struct {
	notifications *usecase.NotificationService
	logger        *zap.Logger
}

func NewNotificationHandler(notifications *usecase.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
		logger:        logger,
	}
}

func (h *NotificationHandler) ListNotifications(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	notifications, err := h.notifications.GetByUser(c.Request().Context(), user.AccountID, limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, notifications)
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid notification id",
			"code":  "INVALID_ID",
		})
	}

	if err := h.notifications.MarkRead(c.Request().Context(), notificationID, user.AccountID); err != nil {
		h.logger.Error("failed to mark notification read",
			zap.String("notification_id", notificationID.String()),
			zap.Error(err))
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
