// @title           Daily Wage Job Connector API
// @version         1.0
// @description     Job marketplace connecting job posters with day-labor workers.
// @BasePath        /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	_ "github.com/dwjc/job-connector/docs"
	"github.com/dwjc/job-connector/internal/api"
	"github.com/dwjc/job-connector/internal/api/handler"
	"github.com/dwjc/job-connector/internal/core/ports"
	"github.com/dwjc/job-connector/internal/core/service"
	mongodb "github.com/dwjc/job-connector/internal/infrastructure/db/mongo"
	redisdb "github.com/dwjc/job-connector/internal/infrastructure/db/redis"
	"github.com/dwjc/job-connector/internal/infrastructure/mail"
	"github.com/dwjc/job-connector/internal/infrastructure/queue"
	"github.com/dwjc/job-connector/internal/infrastructure/realtime"
	"github.com/dwjc/job-connector/internal/infrastructure/storage"
	"github.com/dwjc/job-connector/internal/pkg/config"
	"github.com/dwjc/job-connector/pkg/logger"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "dwjc",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(dctx)
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb connected")

	users := mongodb.NewUserRepository(db)
	jobs := mongodb.NewJobRepository(db)
	notifications := mongodb.NewNotificationRepository(db)
	wishlists := mongodb.NewWishlistRepository(db)

	// Real-time: local hub, optionally fanned out across instances via Redis.
	hub := realtime.NewHub(logger.Component("realtime"))
	go hub.Run(ctx)

	var broadcaster ports.Broadcaster = hub
	var rdb *goredis.Client
	redisCfg := redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}
	if redisCfg.Enabled() {
		rdb, err = redisdb.Connect(ctx, redisCfg)
		if err != nil {
			return err
		}
		defer rdb.Close()

		relay := redisdb.NewRelay(rdb, redisdb.DefaultChannel, hub, logger.Component("relay"))
		go relay.Run(ctx)
		broadcaster = relay
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis relay enabled")
	}

	// Outbound mail.
	sender := mail.NewSender(mail.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		User:     cfg.SMTP.User,
		Password: cfg.SMTP.Password,
		Secure:   cfg.SMTP.Secure,
		From:     cfg.SMTP.From,
	}, logger.Component("mail"))
	dispatcher := queue.NewDispatcher(cfg.SMTP.Workers, cfg.SMTP.QueueSize, sender, logger.Component("mail"))
	dispatcher.Start(ctx)

	effects := service.NewJobEffects(users, notifications, dispatcher, broadcaster, logger.Component("effects"))
	authService := service.NewAuthService(users, cfg.JWTSecret, cfg.TokenTTL)

	e := api.NewRouter(api.Dependencies{
		Auth:          authService,
		Jobs:          service.NewJobService(jobs, users, wishlists, effects, logger.Component("jobs")),
		Wishlist:      service.NewWishlistService(wishlists, jobs, logger.Component("wishlist")),
		Notifications: service.NewNotificationService(notifications),
		Dashboards:    service.NewDashboardService(jobs, users, notifications),
		Users:         service.NewUserService(users),
		Mailer:        sender,
		Photos:        storage.NewLocal(cfg.UploadDir, "/uploads"),
		Hub:           hub,
		DB:            db,
		Redis:         rdb,
		Cookie:        handler.CookieConfig{Secure: cfg.IsProduction(), TTL: cfg.TokenTTL},
		UploadDir:     cfg.UploadDir,
		Log:           log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := dispatcher.Stop(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("mail queue not drained")
	}
	return nil
}
