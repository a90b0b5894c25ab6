package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dwjc/job-connector/internal/api/middleware"
	"github.com/dwjc/job-connector/internal/core/domain"
)

// ctxIdentity returns the identity injected by the Auth middleware. Its
// absence means the route was registered without Auth.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	id, ok := middleware.Identity(c)
	if !ok {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}
