package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anonto42/review-forum/internal/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DB holds the database connections
type DB struct {
	SQL   *gorm.DB
	Redis *redis.Client // nil when sessions live in SQL

	log *zap.Logger
}

// InitDB initializes and returns the database connections
func InitDB(cfg *Config, log *zap.Logger) (*DB, error) {
	sqlDB, err := OpenSQL(cfg.DBDriver, cfg.DatabaseURL, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.DBDriver, err)
	}
	log.Info("connected to database", zap.String("driver", cfg.DBDriver))

	db := &DB{SQL: sqlDB, log: log}
	if cfg.RedisURL != "" {
		db.Redis = initRedis(cfg.RedisURL, log)
	}
	return db, nil
}

// OpenSQL opens a GORM connection for the given driver and verifies it with a ping.
// Constraint violations are translated into gorm.ErrDuplicatedKey and friends,
// and GORM logs through log.
func OpenSQL(driver, dsn string, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(driver) {
	case "postgres", "postgresql":
		dialector = postgres.Open(dsn)
	case "sqlite", "sqlite3", "":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         NewGormLogger(log),
	})
	if err != nil {
		return nil, err
	}

	// Ping the database to verify connection
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err = sqlDB.Ping(); err != nil {
		return nil, err
	}
	if _, ok := dialector.(*sqlite.Dialector); ok {
		// single writer; also keeps ":memory:" databases on one connection
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// AutoMigrate creates or updates every table the forum uses.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Establishment{},
		&models.Post{},
		&models.Comment{},
		&models.PostLike{},
		&models.CommentLike{},
		&models.Session{},
	)
}

// initRedis connects to Redis, returning nil when the server is unreachable so
// sessions fall back to the SQL store.
func initRedis(url string, log *zap.Logger) *redis.Client {
	var opts *redis.Options
	if strings.Contains(url, "://") {
		parsed, err := redis.ParseURL(url)
		if err != nil {
			log.Warn("invalid REDIS_URL, using database sessions", zap.Error(err))
			return nil
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: url}
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("redis unreachable, using database sessions", zap.Error(err))
		_ = client.Close()
		return nil
	}
	log.Info("redis connected")
	return client
}

// CloseDB closes the database connections
func (db *DB) CloseDB() {
	if db.SQL != nil {
		sqlDB, err := db.SQL.DB()
		if err != nil {
			db.log.Error("error getting SQL DB from GORM", zap.Error(err))
		} else if err := sqlDB.Close(); err != nil {
			db.log.Error("error closing database connection", zap.Error(err))
		} else {
			db.log.Info("database connection closed")
		}
	}

	if db.Redis != nil {
		if err := db.Redis.Close(); err != nil {
			db.log.Error("error closing redis connection", zap.Error(err))
		}
	}
}
