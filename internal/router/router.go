package router

import (
	"context"
	"fmt"
	"time"

	"github.com/anonto42/review-forum/internal/handlers"
	"github.com/anonto42/review-forum/internal/middleware"
	"github.com/anonto42/review-forum/internal/repositories"
	"github.com/anonto42/review-forum/internal/services"
	"github.com/anonto42/review-forum/internal/session"
	"github.com/anonto42/review-forum/pkg/config"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Options tunes SetupRoutes. The zero value is usable.
type Options struct {
	JWTSecret      string
	SecureCookies  bool
	LoginRateLimit float64 // POSTs per second per IP on /login and /register; 0 disables
	HashCost       int     // bcrypt cost; 0 keeps the default
}

// OptionsFromConfig maps the process configuration onto Options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		JWTSecret:      cfg.JWTSecret,
		SecureCookies:  !cfg.IsDevelopment(),
		LoginRateLimit: cfg.LoginRateLimit,
	}
}

// SetupRoutes migrates and seeds the database, builds every repository and
// handler, and registers the routes. It returns the metrics collector so the
// caller can expose it.
func SetupRoutes(e *echo.Echo, db *config.DB, opts Options, log *zap.Logger) (*middleware.Metrics, error) {
	if err := config.AutoMigrate(db.SQL); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	log.Info("database migrations completed")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(db.SQL)
	establishmentRepo := repositories.NewPostgresEstablishmentRepository(db.SQL)
	postRepo := repositories.NewPostgresPostRepository(db.SQL)
	commentRepo := repositories.NewPostgresCommentRepository(db.SQL)
	likeRepo := repositories.NewPostgresLikeRepository(db.SQL)
	commentLikeRepo := repositories.NewPostgresCommentLikeRepository(db.SQL)

	if err := establishmentRepo.SeedDefaults(ctx); err != nil {
		return nil, fmt.Errorf("seed establishments: %w", err)
	}

	// --- Sessions: Redis when reachable, otherwise the SQL database ---
	var store session.Store
	if db.Redis != nil {
		// no TTL: a session lasts until logout, as in the database store
		store = session.NewRedisStore(db.Redis, 0)
		log.Info("sessions stored in redis")
	} else {
		store = session.NewGormStore(db.SQL)
		log.Info("sessions stored in the database")
	}
	sessions := session.NewManager(store, opts.SecureCookies)

	authService := services.NewAuthService(userRepo, opts.JWTSecret)
	if opts.HashCost > 0 {
		authService.WithHashCost(opts.HashCost)
	}

	metrics := middleware.NewMetrics()
	e.Use(metrics.Middleware())
	e.Use(middleware.SessionMiddleware(sessions))
	e.Use(middleware.JWTAuthMiddleware(authService))

	var limit echo.MiddlewareFunc = func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	if opts.LoginRateLimit > 0 {
		limit = middleware.CredentialRateLimiter(opts.LoginRateLimit)
	}

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	authHandler := handlers.NewAuthHandler(authService, sessions)
	authHandler.RegisterAuthRoutes(e, limit)

	establishmentHandler := handlers.NewEstablishmentHandler(establishmentRepo, postRepo, sessions)
	establishmentHandler.RegisterEstablishmentRoutes(e)

	postHandler := handlers.NewPostHandler(postRepo, establishmentRepo, commentRepo, likeRepo, commentLikeRepo, sessions)
	postHandler.RegisterPostRoutes(e)

	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, sessions)
	commentHandler.RegisterCommentRoutes(e)

	likeHandler := handlers.NewLikeHandler(likeRepo, postRepo, commentLikeRepo, commentRepo, sessions, metrics)
	likeHandler.RegisterLikeRoutes(e)

	log.Info("all routes configured")
	return metrics, nil
}
