package handler

import "github.com/labstack/echo/v4"

// PagesHandler serves the public pages. Identity is attached when present.
type PagesHandler struct{}

func NewPagesHandler() *PagesHandler {
	return &PagesHandler{}
}

func (h *PagesHandler) Home(c echo.Context) error {
	return render(c, "Daily Wage Job Connector", nil)
}

func (h *PagesHandler) HowItWorks(c echo.Context) error {
	return render(c, "How It Works", nil)
}

func (h *PagesHandler) Features(c echo.Context) error {
	return render(c, "Features", nil)
}

func (h *PagesHandler) Testimonials(c echo.Context) error {
	return render(c, "Testimonials", nil)
}

func (h *PagesHandler) Contact(c echo.Context) error {
	return render(c, "Contact", nil)
}
