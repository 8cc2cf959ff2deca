package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	defaultSQLiteDSN     = "sewalink.db"
	defaultSlowThreshold = time.Second
)

// ErrUnsupportedDriver is returned by Open for driver names other than sqlite and postgres.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// Config selects and configures the database.
type Config struct {
	Driver string
	// DSN is a file path for sqlite and a URL or key=value string for postgres.
	DSN string
	// Password, when set, replaces the password in a postgres DSN.
	Password      string
	SlowThreshold time.Duration
}

// Store is the marketplace database. It implements recommend.DataStore.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// Open connects to the configured database. Queries slower than
// SlowThreshold are logged at warn level through logger.
func Open(cfg Config, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" {
		driver = DriverSQLite
	}

	dialector, err := dialectorFor(driver, cfg)
	if err != nil {
		return nil, err
	}

	slow := cfg.SlowThreshold
	if slow <= 0 {
		slow = defaultSlowThreshold
	}

	gormLog := gormLogger.New(
		zap.NewStdLog(logger.Named("gorm")),
		gormLogger.Config{
			SlowThreshold:             slow,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLog,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", driver, err)
	}

	return New(db, logger.With(zap.String("driver", driver))), nil
}

// New wraps an open gorm handle.
func New(db *gorm.DB, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Store{db: db, logger: logger}
}

// DB returns the underlying gorm handle.
func (s *Store) DB() *gorm.DB { return s.db }

// Migrate creates or updates the marketplace tables.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(allModels()...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func dialectorFor(driver string, cfg Config) (gorm.Dialector, error) {
	switch driver {
	case DriverSQLite:
		dsn := strings.TrimSpace(cfg.DSN)
		if dsn == "" {
			dsn = defaultSQLiteDSN
		}
		return sqlite.Open(dsn), nil
	case DriverPostgres, "postgresql":
		dsn, err := withPassword(cfg.DSN, cfg.Password)
		if err != nil {
			return nil, err
		}
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, cfg.Driver)
	}
}

// withPassword injects password into a postgres DSN in either URL or key=value form.
func withPassword(dsn, password string) (string, error) {
	dsn = strings.TrimSpace(dsn)
	if password == "" {
		return dsn, nil
	}

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", fmt.Errorf("parse postgres dsn: %w", err)
		}

		username := ""
		if u.User != nil {
			username = u.User.Username()
		}
		u.User = url.UserPassword(username, password)
		return u.String(), nil
	}

	quoted := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(password)
	if dsn == "" {
		return "password='" + quoted + "'", nil
	}
	return dsn + " password='" + quoted + "'", nil
}
