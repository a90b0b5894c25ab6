package handler

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/dwjc/job-connector/internal/core/ports"
)

type WishlistHandler struct {
	service ports.WishlistService
}

func NewWishlistHandler(service ports.WishlistService) *WishlistHandler {
	return &WishlistHandler{service: service}
}

type toggleResponse struct {
	JobID      string `json:"job_id"`
	Wishlisted bool   `json:"wishlisted"`
}

// List renders the worker's wishlist.
//
// @Summary      Wishlist
// @Tags         wishlist
// @Produce      json
// @Success      200  {object}  Page
// @Security     BearerAuth
// @Router       /wishlist [get]
func (h *WishlistHandler) List(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	jobs, err := h.service.List(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return render(c, "My Wishlist", jobs)
}

// Toggle adds or removes a job from the worker's wishlist. Jobs that are no
// longer open are never added.
//
// @Summary      Toggle a wishlist entry
// @Tags         wishlist
// @Produce      json
// @Param        jobId  path      string  true  "Job ID"
// @Success      200    {object}  toggleResponse
// @Success      302
// @Security     BearerAuth
// @Router       /wishlist/{jobId}/toggle [post]
func (h *WishlistHandler) Toggle(c echo.Context) error {
	actor, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	jobID := c.Param("jobId")
	on, err := h.service.Toggle(c.Request().Context(), actor, jobID)
	if err != nil {
		return err
	}
	return done(c, backOr(c, "/jobs/available"), http.StatusOK, toggleResponse{JobID: jobID, Wishlisted: on})
}

// backOr returns the same-host referring page, or fallback.
func backOr(c echo.Context, fallback string) string {
	ref := c.Request().Referer()
	if ref == "" {
		return fallback
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Host != "" && u.Host != c.Request().Host) || u.Path == "" {
		return fallback
	}
	if u.RawQuery != "" {
		return u.Path + "?" + u.RawQuery
	}
	return u.Path
}
