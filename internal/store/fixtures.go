package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/MKhiriev/oni-auth/internal/logger"
	"github.com/MKhiriev/oni-auth/internal/utils"
	"github.com/MKhiriev/oni-auth/models"
)

type fixtures struct {
	db     *DB
	ids    *utils.UUIDGenerator
	logger *logger.Logger
}

// NewFixtures returns the seeding interface of the store.
func NewFixtures(db *DB, logger *logger.Logger) Fixtures {
	return &fixtures{db: db, ids: utils.NewUUIDGenerator(), logger: logger}
}

// Reset deletes every account and whitelist entry.
func (f *fixtures) Reset(ctx context.Context) error {
	return f.inTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{accountsTable, whitelistTable} {
			query, args, err := f.db.builder.Delete(table).ToSql()
			if err != nil {
				return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
			}
			if _, err = tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("%w: deleting from %s: %w", ErrExecutingStatement, table, err)
			}
		}
		return nil
	})
}

// Load inserts accounts and whitelist entries in one transaction. Either
// everything is stored or nothing is.
func (f *fixtures) Load(ctx context.Context, accounts []models.Account, whitelist []models.WhitelistEntry) error {
	now := time.Now().UTC()

	return f.inTx(ctx, func(tx *sql.Tx) error {
		for _, account := range accounts {
			if account.ID == "" {
				account.ID = f.ids.Generate()
			}
			if account.Role == "" {
				account.Role = models.RoleUser
			}
			account.Email = models.NormalizeEmail(account.Email)
			account.CreatedAt, account.UpdatedAt = now, now

			query, args, err := buildCreateAccountQuery(f.db.builder, account)
			if err != nil {
				return err
			}
			if _, err = scanAccount(tx.QueryRowContext(ctx, query, args...)); err != nil {
				if dup := f.db.uniqueViolation(err); dup != nil {
					return fmt.Errorf("account %s: %w", account.Email, dup)
				}
				return fmt.Errorf("%w: account %s: %w", ErrExecutingStatement, account.Email, err)
			}
		}

		for _, entry := range whitelist {
			if entry.ID == "" {
				entry.ID = f.ids.Generate()
			}
			entry.Email = models.NormalizeEmail(entry.Email)
			entry.CreatedAt = now

			query, args, err := buildInsertWhitelistQuery(f.db.builder, entry)
			if err != nil {
				return err
			}
			if _, err = tx.ExecContext(ctx, query, args...); err != nil {
				if f.db.isUniqueViolation(err) {
					return ErrDuplicateWhitelistEntry
				}
				return fmt.Errorf("%w: whitelist entry: %w", ErrExecutingStatement, err)
			}
		}
		return nil
	})
}

func (f *fixtures) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := f.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.FromContext(ctx).Err(rbErr).Msg("error rolling back transaction")
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}
	return nil
}
