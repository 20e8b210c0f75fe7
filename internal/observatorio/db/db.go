// Package db implements persistence for the observatory on top of gorm.
// It owns connection bootstrap, schema migration, error translation into the
// domain sentinels, a generic per-entity Store, and the dedicated country,
// user and company-trend queries.
package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	e "github.com/gartstein/observatorio/internal/observatorio/errors"
	"github.com/gartstein/observatorio/internal/observatorio/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultConnectTimeout = 30 * time.Second
)

type Repository struct {
	db *gorm.DB
}

type Config struct {
	Driver         string
	Host           string
	Port           int
	User           string
	Password       string
	DBName         string
	SSLMode        string
	Path           string
	ConnectTimeout time.Duration
}

// NewRepository connects to the configured database, retrying with exponential
// backoff until ConnectTimeout elapses, and migrates the schema.
func NewRepository(ctx context.Context, cfg *Config, logger *zap.Logger) (*Repository, error) {
	dialector, err := cfg.dialector()
	if err != nil {
		return nil, err
	}
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(zap.NewStdLog(logger.Named("gorm")), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = cfg.ConnectTimeout
	if policy.MaxElapsedTime <= 0 {
		policy.MaxElapsedTime = defaultConnectTimeout
	}

	var db *gorm.DB
	err = backoff.RetryNotify(func() error {
		conn, err := gorm.Open(dialector, gormCfg)
		if err != nil {
			closeQuietly(conn)
			return err
		}
		db = conn
		return nil
	}, backoff.WithContext(policy, ctx), func(err error, next time.Duration) {
		logger.Warn("database not ready, retrying", zap.Error(err), zap.Duration("retry_in", next))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		// SQLite serializes writers; a single connection also keeps an
		// in-memory database alive for the lifetime of the pool.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return &Repository{db: db}, nil
}

// Migrate creates or updates every table, index and foreign key.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// DB exposes the underlying handle for the generic stores.
func (r *Repository) DB() *gorm.DB {
	return r.db
}

// Ping reports whether the database is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *Repository) Close() error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}

func (c *Config) dialector() (gorm.Dialector, error) {
	switch c.Driver {
	case DriverPostgres:
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
		return postgres.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(sqliteDSN(c.Path)), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", c.Driver)
	}
}

// sqliteDSN enables foreign key enforcement, which SQLite leaves off by default.
func sqliteDSN(path string) string {
	if path == "" {
		path = ":memory:"
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}

func closeQuietly(conn *gorm.DB) {
	if conn == nil || conn.ConnPool == nil {
		return
	}
	if sqlDB, err := conn.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// translate maps gorm and driver errors onto the domain sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return e.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), strings.Contains(msg, "unique constraint"):
		return fmt.Errorf("%w: %v", e.ErrDuplicate, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated), strings.Contains(msg, "foreign key constraint"):
		return fmt.Errorf("%w: %v", e.ErrInvalidReference, err)
	case errors.Is(err, gorm.ErrCheckConstraintViolated), strings.Contains(msg, "check constraint"):
		return fmt.Errorf("%w: %v", e.ErrInvalidInput, err)
	default:
		return err
	}
}
