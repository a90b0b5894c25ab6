package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dwjc/job-connector/internal/api/middleware"
	"github.com/dwjc/job-connector/internal/core/ports"
)

type SettingsHandler struct {
	users ports.UserService
}

func NewSettingsHandler(users ports.UserService) *SettingsHandler {
	return &SettingsHandler{users: users}
}

type settingsRequest struct {
	Name string `form:"name" json:"name"`
}

type profileView struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Show renders the account profile.
//
// @Summary      Settings
// @Tags         settings
// @Produce      json
// @Success      200  {object}  Page
// @Security     BearerAuth
// @Router       /settings [get]
func (h *SettingsHandler) Show(c echo.Context) error {
	view, err := h.profile(c)
	if err != nil {
		return err
	}
	return render(c, "Settings", view)
}

// Update changes the display name. Blank names are ignored.
//
// @Summary      Update settings
// @Tags         settings
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      settingsRequest  true  "Profile"
// @Success      200   {object}  profileView
// @Success      302
// @Security     BearerAuth
// @Router       /settings [post]
func (h *SettingsHandler) Update(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var req settingsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := h.users.Rename(c.Request().Context(), actor, req.Name); err != nil {
		return err
	}

	if !middleware.WantsJSON(c) {
		return done(c, "/settings", http.StatusOK, nil)
	}
	view, err := h.profile(c)
	if err != nil {
		return err
	}
	return done(c, "/settings", http.StatusOK, view)
}

func (h *SettingsHandler) profile(c echo.Context) (*profileView, error) {
	actor, err := ctxIdentity(c)
	if err != nil {
		return nil, err
	}
	u, err := h.users.Profile(c.Request().Context(), actor)
	if err != nil {
		return nil, err
	}
	return &profileView{Name: u.Name, Email: u.Email, Role: u.Role}, nil
}
