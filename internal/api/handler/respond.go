package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dwjc/job-connector/internal/api/middleware"
	"github.com/dwjc/job-connector/internal/core/domain"
)

// Page is the envelope every page view is rendered in.
type Page struct {
	Title       string           `json:"title"`
	User        *domain.Identity `json:"user"`
	UnreadCount int64            `json:"unread_count"`
	Flash       string           `json:"flash,omitempty"`
	Data        any              `json:"data,omitempty"`
}

// Redirect flags, in the order they are checked.
var flashFlags = []struct {
	key, msg string
}{
	{"login", "Login successful! Welcome back"},
	{"signup", "Account created successfully! Welcome"},
	{"created", "Job created successfully"},
	{"updated", "Job updated"},
	{"applied", "Application sent"},
	{"completed", "Job marked as completed"},
	{"deleted", "Job deleted"},
	{"read", "All notifications marked as read"},
}

func flashFrom(c echo.Context) string {
	for _, f := range flashFlags {
		if c.QueryParam(f.key) == "1" {
			return f.msg
		}
	}
	return ""
}

func render(c echo.Context, title string, data any) error {
	p := Page{Title: title, Data: data, Flash: flashFrom(c)}
	if id, ok := middleware.Identity(c); ok {
		p.User = &id
	}
	p.UnreadCount, _ = c.Get(middleware.KeyUnreadCount).(int64)
	return c.JSON(http.StatusOK, p)
}

// done answers a mutation: JSON clients get payload with status, browsers
// are redirected to location.
func done(c echo.Context, location string, status int, payload any) error {
	if middleware.WantsJSON(c) {
		if payload == nil {
			return c.NoContent(http.StatusNoContent)
		}
		return c.JSON(status, payload)
	}
	return c.Redirect(http.StatusFound, location)
}

// homeFor is the landing page of role after login or signup.
func homeFor(role string) string {
	if role == domain.RoleWorker {
		return "/jobs/available"
	}
	return "/jobs/active"
}

const dateLayout = "2006-01-02"

// parseDeadline accepts an empty value, a date or an RFC 3339 timestamp.
func parseDeadline(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{dateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, invalidField("deadline", "deadline must be a date (YYYY-MM-DD)")
}

// ErrorBody is the JSON error envelope.
type ErrorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}
