// Package migrations embeds the SQL schema of the account store and applies
// it with goose. The same scripts run on PostgreSQL and SQLite.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var embedMigrations embed.FS

// Dialect names accepted by Migrate.
const (
	DialectPostgres = string(goose.DialectPostgres)
	DialectSQLite   = string(goose.DialectSQLite3)
)

// Migrate applies every pending migration to db and returns how many ran.
func Migrate(ctx context.Context, db *sql.DB, dialect string) (int, error) {
	if db == nil {
		return 0, errors.New("migration error: db is nil")
	}
	if dialect != DialectPostgres && dialect != DialectSQLite {
		return 0, fmt.Errorf("migration error: unsupported dialect %q", dialect)
	}

	provider, err := goose.NewProvider(goose.Dialect(dialect), db, embedMigrations)
	if err != nil {
		return 0, fmt.Errorf("migration error: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return len(results), fmt.Errorf("migration error: %w", err)
	}
	return len(results), nil
}
