// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file contains database bootstrapping helpers for
// SQLite (pure Go driver) and schema migrations.
package repo

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/smartsupply/inventory-service/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound so callers can test either.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrStaleVersion is returned by optimistic updates when the row exists but
// its version no longer matches the caller's.
var ErrStaleVersion = errors.New("stale version")

// Options tunes Open.
type Options struct {
	// Tracing installs the OpenTelemetry GORM plugin. Query variables are
	// never recorded.
	Tracing bool
	// LogLevel for GORM's own logger. Zero means logger.Warn.
	LogLevel logger.LogLevel
}

// Open opens (or creates) a SQLite database. PRAGMAs are passed through the
// DSN so every pooled connection gets them, and driver errors are
// translated into GORM sentinels (ErrDuplicatedKey, ErrForeignKeyViolated).
func Open(path string, opts Options) (*gorm.DB, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if dir := filepath.Dir(path); dir != "." && !strings.HasPrefix(path, "file:") {
		if _, err := os.Stat(dir); err != nil {
			return nil, errors.Wrapf(err, "db directory %s", dir)
		}
	}

	lvl := opts.LogLevel
	if lvl == 0 {
		lvl = logger.Warn
	}
	db, err := gorm.Open(sqlite.Open(dsnWithPragmas(path)), &gorm.Config{
		Logger:         logger.Default.LogMode(lvl),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}

	if opts.Tracing {
		if err := db.Use(tracing.NewPlugin(tracing.WithoutQueryVariables())); err != nil {
			return nil, errors.Wrap(err, "install gorm tracing")
		}
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

// dsnWithPragmas appends connection PRAGMAs. WAL is skipped for in-memory
// databases.
func dsnWithPragmas(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	p := "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if !strings.Contains(path, "mode=memory") {
		p += "&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	}
	return path + sep + p
}

// AutoMigrate creates or updates every table the service owns.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Supplier{},
		&domain.InventoryItem{},
		&domain.StockHistory{},
		&domain.Idempotency{},
	)
}

// Ping checks that the database answers.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// likePattern builds a case-insensitive LIKE pattern for a substring match,
// escaping LIKE wildcards with '\'.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(strings.TrimSpace(s))) + "%"
}
