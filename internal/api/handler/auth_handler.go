package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dwjc/job-connector/internal/api/middleware"
	"github.com/dwjc/job-connector/internal/core/domain"
	"github.com/dwjc/job-connector/internal/core/ports"
	"github.com/dwjc/job-connector/internal/infrastructure/storage"
)

// PhotoStore persists an uploaded profile photo and returns its public path.
type PhotoStore interface {
	SavePhoto(filename string, r io.Reader) (string, error)
}

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Secure bool
	TTL    time.Duration
}

type AuthHandler struct {
	authService ports.AuthService
	photos      PhotoStore
	cookie      CookieConfig
}

func NewAuthHandler(authService ports.AuthService, photos PhotoStore, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{authService: authService, photos: photos, cookie: cookie}
}

type signupRequest struct {
	Name     string `form:"name" json:"name" validate:"required"`
	Email    string `form:"email" json:"email" validate:"required,email"`
	Password string `form:"password" json:"password" validate:"required,min=6"`
	Role     string `form:"role" json:"role" validate:"required,oneof=user worker"`
}

type loginRequest struct {
	Email    string `form:"email" json:"email" validate:"required,email"`
	Password string `form:"password" json:"password" validate:"required"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

// LoginPage renders the login form.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	return render(c, "Login", nil)
}

// SignupPage renders the signup form.
func (h *AuthHandler) SignupPage(c echo.Context) error {
	return render(c, "Signup", nil)
}

// Signup creates a new account and starts a session.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json,mpfd
// @Produce      json
// @Param        body           body      signupRequest  true   "Account details"
// @Param        profile_photo  formData  file           false  "Profile photo"
// @Success      201            {object}  authResponse
// @Success      302
// @Failure      400            {object}  ErrorBody
// @Failure      409            {object}  ErrorBody
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := c.Validate(&req); err != nil {
		return err
	}

	photo, err := h.savePhoto(c)
	if err != nil {
		return err
	}

	token, user, err := h.authService.Signup(c.Request().Context(), ports.SignupInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		Role:         req.Role,
		ProfilePhoto: photo,
	})
	if err != nil {
		return err
	}

	h.setSession(c, token)
	return done(c, homeFor(user.Role)+"?signup=1", http.StatusCreated, authResponse{Token: token, User: user})
}

// Login authenticates a user and starts a session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Success      302
// @Failure      400   {object}  ErrorBody
// @Failure      401   {object}  ErrorBody
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.setSession(c, token)
	return done(c, homeFor(user.Role)+"?login=1", http.StatusOK, authResponse{Token: token, User: user})
}

// Logout clears the session cookie. Tokens already issued stay valid until
// they expire.
//
// @Summary      Logout
// @Tags         auth
// @Success      204
// @Success      302
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return done(c, "/", http.StatusNoContent, nil)
}

func (h *AuthHandler) setSession(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookie.TTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// savePhoto stores the optional profile_photo upload.
func (h *AuthHandler) savePhoto(c echo.Context) (string, error) {
	if h.photos == nil {
		return "", nil
	}
	fh, err := c.FormFile("profile_photo")
	if err != nil {
		// No multipart body or no file part: the photo is optional.
		return "", nil
	}

	f, err := fh.Open()
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "unreadable profile photo")
	}
	defer f.Close()

	path, err := h.photos.SavePhoto(fh.Filename, f)
	switch {
	case errors.Is(err, storage.ErrUnsupportedType):
		return "", invalidField("profile_photo", "profile_photo must be a jpg, png, gif or webp image")
	case errors.Is(err, storage.ErrTooLarge):
		return "", invalidField("profile_photo", "profile_photo must be at most 2MB")
	case err != nil:
		return "", err
	}
	return path, nil
}
