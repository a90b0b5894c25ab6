package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dwjc/job-connector/internal/api/handler"
	"github.com/dwjc/job-connector/internal/api/middleware"
	"github.com/dwjc/job-connector/internal/core/domain"
	"github.com/dwjc/job-connector/internal/core/ports"
	"github.com/dwjc/job-connector/internal/infrastructure/realtime"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	Auth          ports.AuthService
	Jobs          ports.JobService
	Wishlist      ports.WishlistService
	Notifications ports.NotificationService
	Dashboards    ports.DashboardService
	Users         ports.UserService
	Mailer        ports.MailSender
	Photos        handler.PhotoStore
	Hub           *realtime.Hub

	// DB and Redis back the readiness probe; Redis may be nil.
	DB    *mongo.Database
	Redis *redis.Client

	Cookie    handler.CookieConfig
	UploadDir string
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: func() string { return xid.New().String() },
	}))
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(middleware.Metrics())

	authRequired := middleware.Auth(d.Auth)
	unread := middleware.UnreadBadge(d.Notifications, d.Log)
	session := []echo.MiddlewareFunc{authRequired, unread}
	visitor := []echo.MiddlewareFunc{middleware.OptionalAuth(d.Auth), unread}
	posterOnly := middleware.RBAC(domain.RolePoster)
	workerOnly := middleware.RBAC(domain.RoleWorker)

	// --- Operational ---
	health := handler.NewHealthHandler()
	ready := handler.NewHealthDependenciesHandler(d.DB, d.Redis)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", ready.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	if d.UploadDir != "" {
		e.Static("/uploads", d.UploadDir)
	}

	// --- Public pages ---
	pages := handler.NewPagesHandler()
	e.GET("/", pages.Home, visitor...)
	e.GET("/how-it-works", pages.HowItWorks, visitor...)
	e.GET("/features", pages.Features, visitor...)
	e.GET("/testimonials", pages.Testimonials, visitor...)
	e.GET("/contact", pages.Contact, visitor...)

	// --- Auth ---
	auth := handler.NewAuthHandler(d.Auth, d.Photos, d.Cookie)
	ag := e.Group("/auth")
	ag.GET("/login", auth.LoginPage, visitor...)
	ag.POST("/login", auth.Login)
	ag.GET("/signup", auth.SignupPage, visitor...)
	ag.POST("/signup", auth.Signup)
	ag.POST("/logout", auth.Logout)

	// --- Jobs ---
	jobs := handler.NewJobHandler(d.Jobs)
	jg := e.Group("/jobs", session...)
	jg.GET("", jobs.NewForm, posterOnly)
	jg.POST("", jobs.Create, posterOnly)
	jg.GET("/active", jobs.Active)
	jg.GET("/past", jobs.Past)
	jg.GET("/available", jobs.Available, workerOnly)
	jg.GET("/:id/edit", jobs.EditForm, posterOnly)
	jg.POST("/:id/edit", jobs.Update, posterOnly)
	jg.POST("/:id/apply", jobs.Apply, workerOnly)
	jg.POST("/:id/complete", jobs.Complete)
	jg.POST("/:id/delete", jobs.Delete, posterOnly)
	jg.GET("/:id", jobs.Detail)

	// --- Wishlist ---
	wishlist := handler.NewWishlistHandler(d.Wishlist)
	wg := e.Group("/wishlist", append(session, workerOnly)...)
	wg.GET("", wishlist.List)
	wg.POST("/:jobId/toggle", wishlist.Toggle)

	// --- Notifications ---
	notifications := handler.NewNotificationHandler(d.Notifications)
	ng := e.Group("/notifications", session...)
	ng.GET("", notifications.List)
	ng.POST("", notifications.MarkAllRead)
	ng.POST("/read", notifications.MarkAllRead)

	// --- Dashboards and wallet ---
	dashboards := handler.NewDashboardHandler(d.Dashboards)
	dg := e.Group("/dashboards", session...)
	dg.GET("/worker", dashboards.Worker, workerOnly)
	dg.GET("/user", dashboards.Poster, posterOnly)
	e.GET("/wallet", dashboards.Wallet, session...)

	// --- Account ---
	settings := handler.NewSettingsHandler(d.Users)
	e.GET("/settings", settings.Show, session...)
	e.POST("/settings", settings.Update, session...)

	mail := handler.NewMailHandler(d.Mailer, d.Users, d.Log)
	e.GET("/mail", mail.Form, session...)
	e.POST("/mail", mail.Send, session...)

	// --- Real-time ---
	rt := handler.NewRealtimeHandler(d.Hub, d.Log)
	e.GET("/ws", rt.Connect, authRequired)

	return e
}
