package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/forka/forum-backend/internal/core/domain"
	"github.com/forka/forum-backend/internal/core/ports"
)

// NotificationHandler serves the caller's notification inbox.
type NotificationHandler struct {
	service ports.NotificationService
}

func NewNotificationHandler(service ports.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

type notificationListResponse struct {
	Notifications []*domain.Notification `json:"notifications"`
	UnreadCount   int64                  `json:"unread_count"`
}

// List handles GET /api/notifications.
//
// @Summary      List the caller's notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        unread  query     bool  false  "Only unread entries"
// @Param        limit   query     int   false  "Page size (max 100)"
// @Param        offset  query     int   false  "Page offset"
// @Success      200  {object}  notificationListResponse
// @Router       /api/notifications [get]
func (h *NotificationHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	unreadOnly, _ := strconv.ParseBool(c.QueryParam("unread"))
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	offset, _ := strconv.ParseInt(c.QueryParam("offset"), 10, 64)

	notifications, unread, err := h.service.List(c.Request().Context(), actor.ID, unreadOnly, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, notificationListResponse{
		Notifications: notifications,
		UnreadCount:   unread,
	})
}

// MarkRead handles POST /api/notifications/:id/read.
//
// @Summary      Mark a notification as read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Notification id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.service.MarkRead(c.Request().Context(), actor.ID, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Notification marked as read"})
}

// MarkAllRead handles POST /api/notifications/read-all.
//
// @Summary      Mark all notifications as read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Router       /api/notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.service.MarkAllRead(c.Request().Context(), actor.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "All notifications marked as read"})
}
