package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/oni-auth/internal/logger"
	"github.com/MKhiriev/oni-auth/internal/utils"
	"github.com/MKhiriev/oni-auth/models"
)

type whitelistRepository struct {
	db     *DB
	ids    *utils.UUIDGenerator
	logger *logger.Logger
}

// NewWhitelistRepository constructs a [WhitelistRepository] over the
// "whitelist_accounts" table.
func NewWhitelistRepository(db *DB, logger *logger.Logger) WhitelistRepository {
	logger.Debug().Msg("creating whitelist repository")
	return &whitelistRepository{
		db:     db,
		ids:    utils.NewUUIDGenerator(),
		logger: logger,
	}
}

// IsWhitelisted reports whether email is whitelisted either exactly or
// through its domain. A domain entry covers its subdomains: "b.com"
// whitelists "a@mail.b.com" but never "a@notb.com".
func (r *whitelistRepository) IsWhitelisted(ctx context.Context, email string) (bool, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildIsWhitelistedQuery(r.db.builder, models.NormalizeEmail(email))
	if err != nil {
		log.Err(err).Str("func", "*whitelistRepository.IsWhitelisted").Msg("error building query")
		return false, err
	}

	var count int
	err = r.db.withRetry(ctx, func() error {
		return r.db.QueryRowContext(ctx, query, args...).Scan(&count)
	})
	if err != nil {
		log.Err(err).Str("func", "*whitelistRepository.IsWhitelisted").Msg("error querying whitelist")
		return false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return count > 0, nil
}

// Add stores a new entry. Email and domain are normalized to lower case.
func (r *whitelistRepository) Add(ctx context.Context, entry models.WhitelistEntry) (models.WhitelistEntry, error) {
	log := logger.FromContext(ctx)

	entry, err := r.prepare(entry)
	if err != nil {
		return models.WhitelistEntry{}, err
	}

	query, args, err := buildInsertWhitelistQuery(r.db.builder, entry)
	if err != nil {
		return models.WhitelistEntry{}, err
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		if r.db.isUniqueViolation(err) {
			return models.WhitelistEntry{}, ErrDuplicateWhitelistEntry
		}
		log.Err(err).Str("func", "*whitelistRepository.Add").Msg("error inserting whitelist entry")
		return models.WhitelistEntry{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return entry, nil
}

func (r *whitelistRepository) prepare(entry models.WhitelistEntry) (models.WhitelistEntry, error) {
	entry.Email = models.NormalizeEmail(entry.Email)
	entry.Domain = strings.Trim(strings.ToLower(strings.TrimSpace(entry.Domain)), ".@")

	if (entry.Email == "") == (entry.Domain == "") {
		return models.WhitelistEntry{}, ErrInvalidWhitelistEntry
	}
	if entry.ID == "" {
		entry.ID = r.ids.Generate()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	return entry, nil
}
