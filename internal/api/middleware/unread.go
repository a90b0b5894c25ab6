package middleware

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dwjc/job-connector/internal/core/domain"
)

// UnreadCounter reports how many notifications of actor are unread.
type UnreadCounter interface {
	UnreadCount(ctx context.Context, actor domain.Identity) (int64, error)
}

// UnreadBadge stores the unread notification count of the authenticated user
// under KeyUnreadCount. Lookup failures leave the count at zero.
func UnreadBadge(counter UnreadCounter, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(KeyUnreadCount, int64(0))
			if id, ok := Identity(c); ok {
				n, err := counter.UnreadCount(c.Request().Context(), id)
				if err != nil {
					log.Warn().Err(err).Str("user_id", id.ID).Msg("unread count lookup failed")
				} else {
					c.Set(KeyUnreadCount, n)
				}
			}
			return next(c)
		}
	}
}
