package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/DhavalSuthar-24/cricbook/config"
	_ "github.com/DhavalSuthar-24/cricbook/docs"
	"github.com/DhavalSuthar-24/cricbook/internal/auth"
	"github.com/DhavalSuthar-24/cricbook/internal/live"
	"github.com/DhavalSuthar-24/cricbook/internal/logging"
	"github.com/DhavalSuthar-24/cricbook/internal/notification"
	"github.com/DhavalSuthar-24/cricbook/internal/scheduler"
	"github.com/DhavalSuthar-24/cricbook/internal/user"
	"github.com/DhavalSuthar-24/cricbook/pkg/validator"
	"github.com/DhavalSuthar-24/cricbook/routes"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// @title Cricbook REST API
// @version 1.0
// @description Cricket social network: live scores, ball-by-ball commentary, predictions and fan posts.
// @host localhost:8088
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := config.Initialize(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}
	cfg := config.GetConfig()
	logging.Setup(cfg.App.Env, cfg.App.LogLevel)
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := validator.Register(); err != nil {
		log.Fatal().Err(err).Msg("Failed to register validators")
	}

	if err := config.DB.AutoMigrate(routes.Models()...); err != nil {
		log.Fatal().Err(err).Msg("AutoMigrate failed")
	}
	log.Info().Msg("AutoMigrate successful")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := auth.EnsureAdmin(ctx, user.NewUserRepository(config.DB), cfg.Admin); err != nil {
		log.Fatal().Err(err).Msg("Failed to bootstrap admin account")
	}

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb != nil {
		defer rdb.Close()
	}

	notifications := notification.NewNotificationRepository(config.DB)
	var notifier notification.Notifier = notification.NewDirectNotifier(notifications)
	if cfg.RabbitMQ.URL != "" {
		q := notification.NewQueueNotifier(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue, notifier)
		defer q.Close()
		notifier = q
		go notification.NewConsumer(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue, notifications).Run(ctx)
	}

	hub := live.NewHub()
	app := routes.SetupRoutes(routes.Dependencies{
		Config:   cfg,
		DB:       config.DB,
		Redis:    rdb,
		Hub:      hub,
		Notifier: notifier,
	})

	if cfg.Scheduler.Enabled {
		sched := scheduler.NewScheduler(cfg.Scheduler, app.Matches, app.Keeper, app.Trending, app.Notifications)
		if err := sched.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to start scheduler")
		}
		defer sched.Stop()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           app.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("port", cfg.App.Port).Str("env", cfg.App.Env).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to run server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
