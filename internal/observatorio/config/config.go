// Package config loads the process configuration from an optional YAML file
// overridden by environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gartstein/observatorio/internal/observatorio/db"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// DefaultPath is used when neither Load's argument nor CONFIG_PATH is set.
var DefaultPath = filepath.Join("internal", "observatorio", "config", "config.yaml")

// Config is read once at startup and never modified afterwards.
type Config struct {
	HTTPPort     int    `mapstructure:"HTTP_PORT" validate:"gte=0,lt=65536"`
	AuthPort     int    `mapstructure:"AUTH_PORT" validate:"gte=0,lt=65536"`
	JWTSecret    string `mapstructure:"JWT_SECRET" validate:"required"`
	LogLevel     string `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	ExposeErrors bool   `mapstructure:"EXPOSE_ERRORS"`

	DBDriver         string        `mapstructure:"DB_DRIVER" validate:"oneof=postgres sqlite"`
	DBHost           string        `mapstructure:"DB_HOST" validate:"required_if=DBDriver postgres"`
	DBPort           int           `mapstructure:"DB_PORT" validate:"gte=0,lt=65536"`
	DBUser           string        `mapstructure:"DB_USER" validate:"required_if=DBDriver postgres"`
	DBPassword       string        `mapstructure:"DB_PASSWORD"`
	DBName           string        `mapstructure:"DB_NAME" validate:"required_if=DBDriver postgres"`
	DBSSLMode        string        `mapstructure:"DB_SSLMODE"`
	DBPath           string        `mapstructure:"DB_PATH"`
	DBConnectTimeout time.Duration `mapstructure:"DB_CONNECT_TIMEOUT" validate:"gte=0"`

	KafkaBrokers []string `mapstructure:"KAFKA_BROKERS"`
	Topic        string   `mapstructure:"TOPIC" validate:"required"`
}

var defaults = map[string]any{
	"HTTP_PORT":          8080,
	"AUTH_PORT":          8081,
	"JWT_SECRET":         "",
	"LOG_LEVEL":          "info",
	"EXPOSE_ERRORS":      false,
	"DB_DRIVER":          db.DriverPostgres,
	"DB_HOST":            "localhost",
	"DB_PORT":            5432,
	"DB_USER":            "",
	"DB_PASSWORD":        "",
	"DB_NAME":            "observatorio",
	"DB_SSLMODE":         "disable",
	"DB_PATH":            "observatorio.db",
	"DB_CONNECT_TIMEOUT": 30 * time.Second,
	"KAFKA_BROKERS":      []string{},
	"TOPIC":              "observatorio-events",
}

// aliases lists extra environment variables accepted for a key.
var aliases = map[string][]string{
	"HTTP_PORT":  {"PORT"},
	"JWT_SECRET": {"CLAVE"},
}

// Load reads path (or CONFIG_PATH, or DefaultPath) if it exists, applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = DefaultPath
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
		if err := v.BindEnv(append([]string{key, key}, aliases[key]...)...); err != nil {
			return nil, err
		}
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Database returns the connection settings for db.NewRepository.
func (c *Config) Database() *db.Config {
	return &db.Config{
		Driver:         c.DBDriver,
		Host:           c.DBHost,
		Port:           c.DBPort,
		User:           c.DBUser,
		Password:       c.DBPassword,
		DBName:         c.DBName,
		SSLMode:        c.DBSSLMode,
		Path:           c.DBPath,
		ConnectTimeout: c.DBConnectTimeout,
	}
}
