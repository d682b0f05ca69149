package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"gdocs/internal/app"
	"gdocs/internal/config"
	"gdocs/internal/handler"
	"gdocs/internal/logger"
	"gdocs/internal/router"
)

const shutdownTimeout = 15 * time.Second

// @title GDocs API
// @version 1.0
// @description Document management: users, documents, categories, notifications and audit logs.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Component: "server"})
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	a, err := app.New(cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	// Initialize handlers
	h := router.Handlers{
		Auth:         handler.NewAuthHandler(a.Services.Auth, a.Services.Users),
		User:         handler.NewUserHandler(a.Services.Users),
		Document:     handler.NewDocumentHandler(a.Services.Documents, a.Limits),
		Category:     handler.NewCategoryHandler(a.Services.Categories),
		Notification: handler.NewNotificationHandler(a.Services.Notifications),
		Log:          handler.NewLogHandler(a.Services.Audit),
		Stats:        handler.NewStatsHandler(a.Services.Stats),
		Health:       handler.NewHealthHandler(a.DB),
	}

	// Setup router
	r := router.Setup(a.Services.Auth, h, cfg.CORS.AllowedOrigins, log)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Port).Str("db_driver", cfg.DB.Driver).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info().Msg("server stopped gracefully")
	return nil
}
