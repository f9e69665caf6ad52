// Package repo implements the cat counter store backed by GORM. This file
// contains database bootstrapping for SQLite (pure Go driver) and Postgres
// (pgx), plus the idempotent schema bootstrap.
package repo

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/tbourn/go-cat-service/internal/config"
)

// sqlitePragmas are appended to every SQLite DSN so that each pooled
// connection gets them, not just the first one.
var sqlitePragmas = []string{
	"busy_timeout(5000)",
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
}

// schemaLockKey is the Postgres advisory lock taken around the DDL.
const schemaLockKey int64 = 0x636174730001 // "cats" + 1

const (
	ddlPostgres = `CREATE TABLE IF NOT EXISTS cats (
  id SERIAL PRIMARY KEY,
  url TEXT UNIQUE NOT NULL,
  likes INTEGER DEFAULT 0,
  shown INTEGER DEFAULT 0
)`
	ddlSQLite = `CREATE TABLE IF NOT EXISTS cats (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  url TEXT UNIQUE NOT NULL,
  likes INTEGER DEFAULT 0,
  shown INTEGER DEFAULT 0
)`
)

// Open selects the driver from cfg and applies pool sizing. When traced is
// set it installs the GORM OpenTelemetry plugin so every statement gets a span.
func Open(cfg config.DBConfig, traced bool) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err = OpenPostgres(cfg)
	default:
		db, err = OpenSQLite(cfg.Path)
	}
	if err != nil {
		return nil, err
	}

	if sqlDB, err := db.DB(); err == nil {
		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	if traced {
		if err := installTracing(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

func installTracing(db *gorm.DB) error {
	return db.Use(tracing.NewPlugin())
}

// OpenSQLite opens (or creates) a SQLite database with WAL and a busy timeout.
// path may be a filesystem path or a "file:" URI with its own query string.
func OpenSQLite(path string) (*gorm.DB, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if !strings.HasPrefix(path, "file:") {
		if dir := filepath.Dir(path); dir != "." {
			if _, err := os.Stat(dir); err != nil {
				return nil, &StoreError{Op: "open", Kind: ErrStoreUnavailable, Err: err}
			}
		}
	}

	db, err := gorm.Open(sqlite.Open(sqliteDSN(path)), gormConfig())
	if err != nil {
		return nil, &StoreError{Op: "open", Kind: ErrStoreUnavailable, Err: err}
	}

	// Pool
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}
	return db, nil
}

// OpenPostgres connects through pgx using the PG* connection settings and
// verifies the server is reachable.
func OpenPostgres(cfg config.DBConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig())
	if err != nil {
		return nil, &StoreError{Op: "open", Kind: ErrStoreUnavailable, Err: err}
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}
	return db, nil
}

// Ping checks that the store answers within ctx.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return classify("ping", err)
	}
	return classify("ping", sqlDB.PingContext(ctx))
}

// EnsureSchema creates the cats table if it is absent. Safe to call on every
// start, including from several processes at once: on Postgres the DDL runs
// under a transaction-scoped advisory lock, SQLite serializes on its file lock.
func EnsureSchema(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)
	if db.Dialector.Name() == "postgres" {
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", schemaLockKey).Error; err != nil {
				return err
			}
			return tx.Exec(ddlPostgres).Error
		})
		return classify("ensure_schema", err)
	}
	return classify("ensure_schema", db.Exec(ddlSQLite).Error)
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}
}

func sqliteDSN(path string) string {
	var b strings.Builder
	b.WriteString(path)
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	for _, p := range sqlitePragmas {
		b.WriteString(sep)
		b.WriteString("_pragma=")
		b.WriteString(p)
		sep = "&"
	}
	return b.String()
}
