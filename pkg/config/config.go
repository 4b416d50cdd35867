package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port           string  `mapstructure:"PORT"`
	Env            string  `mapstructure:"ENV"`
	DBDriver       string  `mapstructure:"DB_DRIVER"`
	DatabaseURL    string  `mapstructure:"DATABASE_URL"`
	RedisURL       string  `mapstructure:"REDIS_URL"`
	JWTSecret      string  `mapstructure:"JWT_SECRET"`
	MetricsPort    string  `mapstructure:"METRICS_PORT"`
	LoginRateLimit float64 `mapstructure:"LOGIN_RATE_LIMIT"`
	LogLevel       string  `mapstructure:"LOG_LEVEL"`
}

// IsDevelopment reports whether the server runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Load reads .env (if present) and the process environment into a Config.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_URL", "site_data.db")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("JWT_SECRET", "some_random_secret_key")
	v.SetDefault("METRICS_PORT", "9090")
	v.SetDefault("LOGIN_RATE_LIMIT", 5)
	v.SetDefault("LOG_LEVEL", "info")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("Unable to decode config into struct, %v", err)
	}
	return &cfg
}
