package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/review-forum/internal/router"
	"github.com/anonto42/review-forum/internal/validators"
	"github.com/anonto42/review-forum/internal/views"
	"github.com/anonto42/review-forum/pkg/config"
	"github.com/anonto42/review-forum/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zl, err := logger.New(cfg.IsDevelopment(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	// Initialize database connections
	db, err := config.InitDB(cfg, zl)
	if err != nil {
		zl.Fatal("failed to initialize databases", zap.Error(err))
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	renderer, err := views.New()
	if err != nil {
		zl.Fatal("failed to parse templates", zap.Error(err))
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()
	e.Renderer = renderer
	e.HTTPErrorHandler = router.HTTPErrorHandler(zl)

	// Setup global middleware
	config.SetupMiddleware(e, zl)

	// Setup routes and dependencies
	metrics, err := router.SetupRoutes(e, db, router.OptionsFromConfig(cfg), zl)
	if err != nil {
		zl.Fatal("failed to set up routes", zap.Error(err))
	}

	metricsSrv := &http.Server{
		Addr:              ":" + cfg.MetricsPort,
		Handler:           metrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zl.Info("metrics server starting", zap.String("port", cfg.MetricsPort))
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Error("metrics server stopped", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start server
	go func() {
		zl.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	zl.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		zl.Error("server shutdown error", zap.Error(err))
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		zl.Error("metrics server shutdown error", zap.Error(err))
	}
}
