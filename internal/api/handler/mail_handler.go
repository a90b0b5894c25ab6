package handler

import (
	"html"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dwjc/job-connector/internal/core/ports"
)

const (
	defaultTestSubject = "DWJC Test Email"
	defaultTestMessage = "Hello from DWJC."
)

// MailHandler sends a single test email synchronously.
type MailHandler struct {
	sender ports.MailSender
	users  ports.UserService
	log    zerolog.Logger
}

func NewMailHandler(sender ports.MailSender, users ports.UserService, log zerolog.Logger) *MailHandler {
	return &MailHandler{sender: sender, users: users, log: log}
}

type mailRequest struct {
	To      string `form:"to" json:"to" validate:"omitempty,email"`
	Subject string `form:"subject" json:"subject"`
	Message string `form:"message" json:"message"`
}

type mailResult struct {
	OK  bool `json:"ok"`
	Err bool `json:"err"`
}

// Form renders the test mail form with the result of the last send.
//
// @Summary      Test mail form
// @Tags         mail
// @Produce      json
// @Success      200  {object}  Page
// @Security     BearerAuth
// @Router       /mail [get]
func (h *MailHandler) Form(c echo.Context) error {
	return render(c, "Mail", mailResult{OK: c.QueryParam("ok") == "1", Err: c.QueryParam("err") == "1"})
}

// Send delivers one message to the given address, or to the caller.
//
// @Summary      Send a test mail
// @Tags         mail
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      mailRequest  true  "Message"
// @Success      200   {object}  mailResult
// @Failure      502   {object}  mailResult
// @Success      302
// @Security     BearerAuth
// @Router       /mail [post]
func (h *MailHandler) Send(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var req mailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	to := strings.TrimSpace(req.To)
	if to == "" {
		me, err := h.users.Profile(c.Request().Context(), actor)
		if err != nil {
			return err
		}
		to = me.Email
	}
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		subject = defaultTestSubject
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		message = defaultTestMessage
	}

	err = h.sender.Send(c.Request().Context(), ports.MailMessage{
		To:      to,
		Subject: subject,
		HTML:    "<p>" + html.EscapeString(message) + "</p>",
	})
	if err != nil {
		h.log.Warn().Err(err).Str("user_id", actor.ID).Str("to", to).Msg("test mail failed")
		return done(c, "/mail?err=1", http.StatusBadGateway, mailResult{Err: true})
	}
	return done(c, "/mail?ok=1", http.StatusOK, mailResult{OK: true})
}
