package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/oni-auth/internal/logger"
	"github.com/MKhiriev/oni-auth/internal/utils"
	"github.com/MKhiriev/oni-auth/models"
)

// accountRepository is the SQL implementation of [AccountRepository] over
// the "accounts" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type accountRepository struct {
	db     *DB
	ids    *utils.UUIDGenerator
	now    func() time.Time
	logger *logger.Logger
}

// NewAccountRepository constructs an [AccountRepository] backed by db.
func NewAccountRepository(db *DB, logger *logger.Logger) AccountRepository {
	logger.Debug().Msg("creating account repository")
	return &accountRepository{
		db:     db,
		ids:    utils.NewUUIDGenerator(),
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger,
	}
}

func (r *accountRepository) FindByEmail(ctx context.Context, email string, withDigest bool) (models.Account, error) {
	return r.findOne(ctx, "FindByEmail", sq.Eq{"email": models.NormalizeEmail(email)}, withDigest)
}

func (r *accountRepository) FindByExternalID(ctx context.Context, externalID string) (models.Account, error) {
	if externalID == "" {
		return models.Account{}, ErrAccountNotFound
	}
	return r.findOne(ctx, "FindByExternalID", sq.Eq{"external_id": externalID}, false)
}

// FindByToken looks an account up by a single-use token. Only the
// registration and reset token columns are searchable.
func (r *accountRepository) FindByToken(ctx context.Context, field models.TokenField, token string) (models.Account, error) {
	if _, ok := tokenColumns[field]; !ok {
		return models.Account{}, fmt.Errorf("%w: %q", ErrUnknownTokenField, field)
	}
	if token == "" {
		return models.Account{}, ErrAccountNotFound
	}
	return r.findOne(ctx, "FindByToken", sq.Eq{string(field): token}, false)
}

// Create persists a new account. ID and timestamps are assigned here when
// the caller left them empty.
//
// Error handling:
//   - unique violation on email -> [ErrDuplicateEmail]
//   - unique violation on external_id -> [ErrDuplicateExternalID]
//   - any other driver error -> wrapped [ErrExecutingQuery]
func (r *accountRepository) Create(ctx context.Context, account models.Account) (models.Account, error) {
	log := logger.FromContext(ctx)

	if account.ID == "" {
		account.ID = r.ids.Generate()
	}
	if account.Role == "" {
		account.Role = models.RoleUser
	}
	account.Email = models.NormalizeEmail(account.Email)
	now := r.now()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	query, args, err := buildCreateAccountQuery(r.db.builder, account)
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.Create").Msg("error building query")
		return models.Account{}, err
	}

	created, err := scanAccount(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if dup := r.db.uniqueViolation(err); dup != nil {
			return models.Account{}, dup
		}
		log.Err(err).Str("func", "*accountRepository.Create").Msg("error inserting account")
		return models.Account{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return created, nil
}

// UpdateFields runs a single UPDATE ... WHERE <selector> RETURNING. The
// statement is atomic, so selector conditions such as a pending status act
// as a compare-and-set guard against concurrent transitions.
func (r *accountRepository) UpdateFields(ctx context.Context, selector models.AccountSelector, update models.AccountUpdate) (models.Account, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateAccountQuery(r.db.builder, selector, update, r.now())
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.UpdateFields").Msg("error building query")
		return models.Account{}, err
	}

	updated, err := scanAccount(r.db.QueryRowContext(ctx, query, args...))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.Account{}, ErrAccountNotFound
	case err != nil:
		if dup := r.db.uniqueViolation(err); dup != nil {
			return models.Account{}, dup
		}
		log.Err(err).Str("func", "*accountRepository.UpdateFields").Msg("error updating account")
		return models.Account{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return updated, nil
}

func (r *accountRepository) findOne(ctx context.Context, fn string, where sq.Sqlizer, withDigest bool) (models.Account, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildFindAccountQuery(r.db.builder, where, withDigest)
	if err != nil {
		log.Err(err).Str("func", "*accountRepository."+fn).Msg("error building query")
		return models.Account{}, err
	}

	var account models.Account
	err = r.db.withRetry(ctx, func() error {
		var scanErr error
		account, scanErr = scanAccount(r.db.QueryRowContext(ctx, query, args...))
		return scanErr
	})
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.Account{}, ErrAccountNotFound
	case err != nil:
		log.Err(err).Str("func", "*accountRepository."+fn).Msg("error querying account")
		return models.Account{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return account, nil
}

func scanAccount(row *sql.Row) (models.Account, error) {
	var (
		account           models.Account
		externalID        sql.NullString
		role              string
		status            sql.NullString
		registrationDate  sql.NullTime
		registrationToken sql.NullString
		resetToken        sql.NullString
		resetExpires      sql.NullTime
		archived          sql.NullTime
	)

	err := row.Scan(
		&account.ID,
		&account.Email,
		&account.PasswordDigest,
		&externalID,
		&role,
		&status,
		&account.Registration.Registered,
		&registrationDate,
		&registrationToken,
		&resetToken,
		&resetExpires,
		&archived,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return models.Account{}, err
	}

	account.ExternalID = externalID.String
	account.Role = models.Role(role)
	account.Registration.Status = models.RegistrationStatus(status.String)
	account.Registration.Date = timePtr(registrationDate)
	account.Registration.Token = registrationToken.String
	account.Reset.Token = resetToken.String
	account.Reset.Expires = timePtr(resetExpires)
	account.Archived = timePtr(archived)

	return account, nil
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
