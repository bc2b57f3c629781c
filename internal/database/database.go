package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/wilhelser/ubiquo/internal/logging"
	"github.com/wilhelser/ubiquo/internal/runtimeconfig"
	"github.com/wilhelser/ubiquo/internal/translations"
	"github.com/wilhelser/ubiquo/pkg/interfaces"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var (
	ErrDriverUnsupported = errors.New("database: unsupported driver")
	ErrDSNRequired       = errors.New("database: dsn is required")
)

// Migrations returns the embedded PostgreSQL migrations rooted at the
// directory holding the .sql files.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		panic(fmt.Sprintf("database: embedded migrations: %v", err))
	}
	return sub
}

// Option configures Open.
type Option func(*options)

type options struct {
	logger interfaces.Logger
}

// WithLogger sets the logger used for connection and migration events.
func WithLogger(logger interfaces.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func resolve(opts []Option) options {
	o := options{logger: logging.NoOp()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Open connects to the database described by cfg and verifies the
// connection. SQLite goes through mattn/go-sqlite3, PostgreSQL through the
// pgx stdlib driver.
func Open(ctx context.Context, cfg runtimeconfig.StorageConfig, opts ...Option) (*bun.DB, error) {
	o := resolve(opts)

	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, ErrDSNRequired
	}

	var db *bun.DB
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	switch driver {
	case runtimeconfig.DriverSQLite, "sqlite3":
		sqldb, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("database: open sqlite: %w", err)
		}
		if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
			sqldb.SetMaxOpenConns(1)
		}
		db = bun.NewDB(sqldb, sqlitedialect.New())
	case runtimeconfig.DriverPostgres, "pgx":
		sqldb, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("database: open postgres: %w", err)
		}
		db = bun.NewDB(sqldb, pgdialect.New())
	default:
		return nil, fmt.Errorf("%w: %s", ErrDriverUnsupported, cfg.Driver)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database: ping %s: %w", driver, err)
	}

	o.logger.Info("storage.connected", "driver", driver)
	return db, nil
}

// EnsureSchema creates the record table and indexes when missing. It is the
// schema path for SQLite and for PostgreSQL deployments without migrations.
func EnsureSchema(ctx context.Context, db bun.IDB) error {
	return translations.CreateSchema(ctx, db)
}
