package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// Context keys set by Auth and read by handlers.
const (
	KeyUserID      = "user_id"
	KeyRole        = "role"
	KeyName        = "name"
	KeyUnreadCount = "unread_count"
)

// WantsJSON reports whether the client asked for a JSON response rather than
// a browser page. Bearer-authenticated requests are API clients.
func WantsJSON(c echo.Context) bool {
	req := c.Request()
	if strings.Contains(req.Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON) {
		return true
	}
	if req.Header.Get(echo.HeaderXRequestedWith) == "XMLHttpRequest" {
		return true
	}
	_, ok := bearerToken(req.Header.Get(echo.HeaderAuthorization))
	return ok
}
