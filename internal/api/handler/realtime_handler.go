package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dwjc/job-connector/internal/infrastructure/realtime"
)

type RealtimeHandler struct {
	hub *realtime.Hub
	log zerolog.Logger
}

func NewRealtimeHandler(hub *realtime.Hub, log zerolog.Logger) *RealtimeHandler {
	return &RealtimeHandler{hub: hub, log: log}
}

// Connect upgrades to a WebSocket that receives the job events addressed to
// the caller's user and role rooms.
//
// @Summary      Real-time events
// @Tags         realtime
// @Success      101
// @Security     BearerAuth
// @Router       /ws [get]
func (h *RealtimeHandler) Connect(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if err := realtime.ServeWS(h.hub, c.Response(), c.Request(), actor); err != nil {
		h.log.Debug().Err(err).Str("user_id", actor.ID).Msg("websocket upgrade failed")
		if c.Response().Committed {
			return nil
		}
		return echo.NewHTTPError(http.StatusServiceUnavailable, "real-time channel unavailable")
	}
	return nil
}
