// Package store implements persistence of accounts and whitelist entries on
// top of database/sql. PostgreSQL (pgx) and SQLite (go-sqlite3) share one set
// of repositories; only the placeholder format and the error classifier
// differ between the two.
package store

import (
	"context"

	"github.com/MKhiriev/oni-auth/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// AccountRepository is the narrow account store contract the services use.
type AccountRepository interface {
	// FindByEmail returns the account with the given normalized email. The
	// password digest is loaded only when withDigest is true.
	FindByEmail(ctx context.Context, email string, withDigest bool) (models.Account, error)

	// FindByExternalID returns the account linked to a third-party identity.
	FindByExternalID(ctx context.Context, externalID string) (models.Account, error)

	// FindByToken returns the account whose single-use token column equals token.
	FindByToken(ctx context.Context, field models.TokenField, token string) (models.Account, error)

	// Create inserts a new account and returns it as stored.
	Create(ctx context.Context, account models.Account) (models.Account, error)

	// UpdateFields applies update to the single account matching selector in
	// one statement and returns the updated row. When no row matches,
	// ErrAccountNotFound is returned and nothing is written.
	UpdateFields(ctx context.Context, selector models.AccountSelector, update models.AccountUpdate) (models.Account, error)
}

// WhitelistRepository answers whether an email skips admin review.
type WhitelistRepository interface {
	IsWhitelisted(ctx context.Context, email string) (bool, error)
	Add(ctx context.Context, entry models.WhitelistEntry) (models.WhitelistEntry, error)
}

// Fixtures replaces the whole content of the store. It is used by the seeder.
type Fixtures interface {
	Reset(ctx context.Context) error
	Load(ctx context.Context, accounts []models.Account, whitelist []models.WhitelistEntry) error
}

// ErrorClassificator inspects driver errors.
type ErrorClassificator interface {
	// Classify tells whether a failed operation may be retried.
	Classify(err error) ErrorClassification

	// UniqueViolation reports the column of a violated unique constraint.
	UniqueViolation(err error) (column string, ok bool)
}
