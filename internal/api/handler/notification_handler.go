package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dwjc/job-connector/internal/core/ports"
)

type NotificationHandler struct {
	service ports.NotificationService
}

func NewNotificationHandler(service ports.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

type markReadResponse struct {
	Marked int64 `json:"marked"`
}

// List renders the actor's notifications, newest first.
//
// @Summary      Notifications
// @Tags         notifications
// @Produce      json
// @Success      200  {object}  Page
// @Security     BearerAuth
// @Router       /notifications [get]
func (h *NotificationHandler) List(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	items, err := h.service.List(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return render(c, "Notifications", items)
}

// MarkAllRead marks every notification of the actor as read.
//
// @Summary      Mark all notifications read
// @Tags         notifications
// @Produce      json
// @Success      200  {object}  markReadResponse
// @Success      302
// @Security     BearerAuth
// @Router       /notifications/read [post]
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	n, err := h.service.MarkAllRead(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return done(c, "/notifications?read=1", http.StatusOK, markReadResponse{Marked: n})
}
