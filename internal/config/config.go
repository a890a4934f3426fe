package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth" validate:"required"`
	Retention RetentionConfig `mapstructure:"retention" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level" validate:"required,oneof=debug info warn error fatal"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
}

// ShutdownTimeout is the drain window for in-flight requests.
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	BCryptCost           int    `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
}

// RetentionConfig controls the automatic deletion of finished tasks.
type RetentionConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Days     int    `mapstructure:"days" validate:"required,gt=0"`
	Schedule string `mapstructure:"schedule" validate:"required"`
	Timezone string `mapstructure:"timezone" validate:"required"`
}

// Period is the retention window as a duration.
func (c RetentionConfig) Period() time.Duration {
	return time.Duration(c.Days) * 24 * time.Hour
}

// Location resolves the configured IANA time zone for the sweep schedule.
func (c RetentionConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid retention timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
