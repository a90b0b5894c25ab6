package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/dwjc/job-connector/internal/core/domain"
	"github.com/dwjc/job-connector/internal/core/ports"
)

type DashboardHandler struct {
	service ports.DashboardService
}

func NewDashboardHandler(service ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Worker renders the worker dashboard.
//
// @Summary      Worker dashboard
// @Tags         dashboards
// @Produce      json
// @Success      200  {object}  Page
// @Failure      403  {object}  ErrorBody
// @Security     BearerAuth
// @Router       /dashboards/worker [get]
func (h *DashboardHandler) Worker(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	view, err := h.service.WorkerDashboard(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return render(c, "Worker Dashboard", view)
}

// Poster renders the job poster dashboard.
//
// @Summary      User dashboard
// @Tags         dashboards
// @Produce      json
// @Success      200  {object}  Page
// @Failure      403  {object}  ErrorBody
// @Security     BearerAuth
// @Router       /dashboards/user [get]
func (h *DashboardHandler) Poster(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	view, err := h.service.PosterDashboard(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return render(c, "User Dashboard", view)
}

// Wallet renders the payment summary of the actor's role.
//
// @Summary      Wallet
// @Tags         dashboards
// @Produce      json
// @Success      200  {object}  Page
// @Security     BearerAuth
// @Router       /wallet [get]
func (h *DashboardHandler) Wallet(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var view any
	ctx := c.Request().Context()
	switch actor.Role {
	case domain.RolePoster:
		view, err = h.service.PosterWallet(ctx, actor)
	case domain.RoleWorker:
		view, err = h.service.WorkerWallet(ctx, actor)
	default:
		return domain.ErrForbidden
	}
	if err != nil {
		return err
	}
	return render(c, "Wallet", view)
}
