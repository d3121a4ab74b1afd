// Package config loads server configuration.
//
// Values are layered: defaults, then an optional TOML file, then a .env file,
// then environment variables prefixed with BILLTRACKER_ (dots become
// underscores, e.g. BILLTRACKER_DATABASE_DRIVER).
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mmynk/billtracker/internal/reminder"
)

const envPrefix = "BILLTRACKER"

// Config holds application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Reminders RemindersConfig `mapstructure:"reminders"`
	Notifier  NotifierConfig  `mapstructure:"notifier"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port       int    `mapstructure:"port"`
	StaticPath string `mapstructure:"static_path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DatabaseConfig selects and locates the storage backend.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
	URL    string `mapstructure:"url"`
}

// AuthConfig holds session token settings.
type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// RemindersConfig tunes reminder planning.
type RemindersConfig struct {
	Occurrences int    `mapstructure:"occurrences"`
	MorningHour int    `mapstructure:"morning_hour"`
	EveningHour int    `mapstructure:"evening_hour"`
	Timezone    string `mapstructure:"timezone"`
}

// NotifierConfig tunes notification delivery.
type NotifierConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Load reads configuration from file, .env and environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.static_path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.path", "./data/bills.db")
	v.SetDefault("database.url", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("reminders.occurrences", 12)
	v.SetDefault("reminders.morning_hour", 9)
	v.SetDefault("reminders.evening_hour", 18)
	v.SetDefault("reminders.timezone", "UTC")
	v.SetDefault("notifier.interval", time.Minute)
	v.SetDefault("metrics.enabled", true)

	v.SetConfigType("toml")

	if cfgPath := os.Getenv(envPrefix + "_CONFIG"); cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "billtracker"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return c, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required")
	}
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return errors.New("database.path is required for sqlite")
		}
	case DriverPostgres:
		if c.Database.URL == "" {
			return errors.New("database.url is required for postgres")
		}
	default:
		return fmt.Errorf("unknown database.driver %q", c.Database.Driver)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	for key, hour := range map[string]int{
		"reminders.morning_hour": c.Reminders.MorningHour,
		"reminders.evening_hour": c.Reminders.EveningHour,
	} {
		if hour < 0 || hour > 23 {
			return fmt.Errorf("%s must be between 0 and 23, got %d", key, hour)
		}
	}
	if c.Reminders.Occurrences < 1 || c.Reminders.Occurrences > reminder.MaxOccurrences {
		return fmt.Errorf("reminders.occurrences must be between 1 and %d, got %d",
			reminder.MaxOccurrences, c.Reminders.Occurrences)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Notifier.Interval <= 0 {
		return fmt.Errorf("notifier.interval must be positive, got %s", c.Notifier.Interval)
	}
	return nil
}

// Location resolves reminders.timezone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Reminders.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid reminders.timezone %q: %w", c.Reminders.Timezone, err)
	}
	return loc, nil
}
