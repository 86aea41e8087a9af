// internal/config/config.go
//
// Runtime configuration for the numerix server.
// Values come from the environment (optionally seeded from a .env file by the
// caller via godotenv) and are decoded into a typed struct by envconfig.
//
// Environment variables:
//   PORT, LOG_LEVEL, DB_PATH, STORE_BACKEND (sqlite|memory|redis),
//   REDIS_ADDR, REDIS_PASSWORD, REDIS_DB,
//   JWT_SECRET, JWT_EXPIRES_DAYS, COOKIE_NAME, CLIENT_ORIGIN, APP_ENV,
//   SPEED_TICK.

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Store backends accepted by STORE_BACKEND.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

const devJWTSecret = "dev_secret_change_me"

// Config holds all server settings.
type Config struct {
	Port     string `envconfig:"PORT" default:"5175"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	DBPath       string `envconfig:"DB_PATH" default:"./data/numerix.db"`
	StoreBackend string `envconfig:"STORE_BACKEND" default:"sqlite"`

	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	JWTSecret      string `envconfig:"JWT_SECRET"`
	JWTExpiresDays int    `envconfig:"JWT_EXPIRES_DAYS" default:"14"`
	CookieName     string `envconfig:"COOKIE_NAME" default:"numerix_token"`
	ClientOrigin   string `envconfig:"CLIENT_ORIGIN" default:"http://localhost:5173"`
	AppEnv         string `envconfig:"APP_ENV" default:"development"`

	// SpeedTick is the countdown granularity for timed sessions.
	SpeedTick time.Duration `envconfig:"SPEED_TICK" default:"1s"`
}

// Production reports whether secure cookie attributes should be used.
func (c *Config) Production() bool { return c.AppEnv == "production" }

// Load reads the environment into a Config and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.StoreBackend = strings.ToLower(strings.TrimSpace(c.StoreBackend))
	switch c.StoreBackend {
	case BackendSQLite, BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("config: unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.JWTSecret == "" {
		if c.Production() {
			return errors.New("config: JWT_SECRET is required in production")
		}
		c.JWTSecret = devJWTSecret
	}
	if c.JWTExpiresDays <= 0 {
		c.JWTExpiresDays = 14
	}
	if c.SpeedTick <= 0 {
		c.SpeedTick = time.Second
	}
	return nil
}
