package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dwjc/job-connector/internal/core/domain"
)

// TokenCookie is the name of the http-only cookie carrying the session token.
const TokenCookie = "token"

// LoginPath is where browser clients are sent when authentication fails.
const LoginPath = "/auth/login"

// TokenParser validates a signed token and returns the identity it carries.
type TokenParser interface {
	ParseToken(token string) (domain.Identity, error)
}

// Auth validates the token from the cookie or the Authorization header and
// injects the identity into context. Browser clients without a valid token
// are redirected to the login page; JSON clients receive 401.
func Auth(parser TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := tokenFromRequest(c)
			if raw == "" {
				return unauthenticated(c, "missing token")
			}

			id, err := parser.ParseToken(raw)
			if err != nil {
				return unauthenticated(c, "invalid token")
			}

			setIdentity(c, id)
			return next(c)
		}
	}
}

// OptionalAuth attaches the identity when a valid token is present and never
// rejects the request.
func OptionalAuth(parser TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if raw := tokenFromRequest(c); raw != "" {
				if id, err := parser.ParseToken(raw); err == nil {
					setIdentity(c, id)
				}
			}
			return next(c)
		}
	}
}

// Identity returns the identity injected by Auth, if any.
func Identity(c echo.Context) (domain.Identity, bool) {
	id, _ := c.Get(KeyUserID).(string)
	role, _ := c.Get(KeyRole).(string)
	name, _ := c.Get(KeyName).(string)
	if id == "" || role == "" {
		return domain.Identity{}, false
	}
	return domain.Identity{ID: id, Role: role, Name: name}, true
}

func setIdentity(c echo.Context, id domain.Identity) {
	c.Set(KeyUserID, id.ID)
	c.Set(KeyRole, id.Role)
	c.Set(KeyName, id.Name)
}

func tokenFromRequest(c echo.Context) string {
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	token, _ := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
	return token
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func unauthenticated(c echo.Context, msg string) error {
	if WantsJSON(c) {
		return echo.NewHTTPError(http.StatusUnauthorized, msg)
	}
	return c.Redirect(http.StatusFound, LoginPath)
}
