package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/oni-auth/internal/config"
	"github.com/MKhiriev/oni-auth/internal/logger"
	"github.com/MKhiriev/oni-auth/migrations"
)

const (
	retryAttempts = 3
	retryDelay    = 50 * time.Millisecond
)

// DB wraps *sql.DB with the dialect specific pieces the repositories need.
type DB struct {
	*sql.DB
	dialect            string
	builder            sq.StatementBuilderType
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// NewConnectDB opens the database named by cfg.DSN. postgres:// and
// postgresql:// URLs use pgx; sqlite:// and file: locations use go-sqlite3.
func NewConnectDB(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	switch dsn := cfg.DSN; {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return NewConnectPostgres(ctx, cfg, log)
	case strings.HasPrefix(dsn, "sqlite://"):
		return NewConnectSQLite(ctx, config.DB{DSN: strings.TrimPrefix(dsn, "sqlite://")}, log)
	case strings.HasPrefix(dsn, "file:"):
		return NewConnectSQLite(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDSN, redactDSN(dsn))
	}
}

// Migrate brings the schema up to date.
func (db *DB) Migrate(ctx context.Context) error {
	applied, err := migrations.Migrate(ctx, db.DB, db.dialect)
	if err != nil {
		return err
	}
	db.logger.Info().Int("applied", applied).Str("dialect", db.dialect).Msg("database schema is up to date")
	return nil
}

// withRetry runs fn again while it fails with an error the classifier calls
// retryable, up to retryAttempts times in total.
func (db *DB) withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; attempt <= retryAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if db.errorClassificator == nil || db.errorClassificator.Classify(err) != Retryable || attempt == retryAttempts {
			return err
		}

		logger.FromContext(ctx).Warn().Err(err).Int("attempt", attempt).Msg("retrying database operation")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * retryDelay):
		}
	}
	return err
}

// uniqueViolation translates a unique constraint violation into the matching
// sentinel, or returns nil when err is not one.
func (db *DB) uniqueViolation(err error) error {
	if db.errorClassificator == nil {
		return nil
	}
	column, ok := db.errorClassificator.UniqueViolation(err)
	if !ok {
		return nil
	}

	switch column {
	case "email":
		return ErrDuplicateEmail
	case "external_id":
		return ErrDuplicateExternalID
	default:
		return fmt.Errorf("unique violation on %s: %w", column, err)
	}
}

func (db *DB) isUniqueViolation(err error) bool {
	if db.errorClassificator == nil {
		return false
	}
	_, ok := db.errorClassificator.UniqueViolation(err)
	return ok
}

func redactDSN(dsn string) string {
	if i := strings.Index(dsn, "://"); i >= 0 {
		return dsn[:i+3] + "..."
	}
	if len(dsn) > 8 {
		return dsn[:8] + "..."
	}
	return dsn
}
