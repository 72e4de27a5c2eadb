package store

import (
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/oni-auth/models"
)

const (
	accountsTable  = "accounts"
	whitelistTable = "whitelist_accounts"
)

// accountColumns is the projection every account query returns, in the
// order scanAccount expects.
var accountColumns = []string{
	"id",
	"email",
	"password_digest",
	"external_id",
	"role",
	"registration_status",
	"registered",
	"registration_date",
	"registration_token",
	"reset_token",
	"reset_expires",
	"archived_at",
	"created_at",
	"updated_at",
}

// tokenColumns lists the columns FindByToken may search.
var tokenColumns = map[models.TokenField]struct{}{
	models.RegistrationTokenField: {},
	models.ResetTokenField:        {},
}

func projection(withDigest bool) []string {
	cols := make([]string, len(accountColumns))
	copy(cols, accountColumns)
	if !withDigest {
		cols[2] = "'' AS password_digest"
	}
	return cols
}

func returningAccount() string {
	return "RETURNING " + strings.Join(accountColumns, ", ")
}

// buildFindAccountQuery selects a single account matching where.
func buildFindAccountQuery(b sq.StatementBuilderType, where sq.Sqlizer, withDigest bool) (string, []any, error) {
	query, args, err := b.Select(projection(withDigest)...).
		From(accountsTable).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildCreateAccountQuery inserts account and returns the stored row.
func buildCreateAccountQuery(b sq.StatementBuilderType, account models.Account) (string, []any, error) {
	query, args, err := b.Insert(accountsTable).
		Columns(accountColumns...).
		Values(
			account.ID,
			account.Email,
			account.PasswordDigest,
			nullString(account.ExternalID),
			string(account.Role),
			nullString(string(account.Registration.Status)),
			account.Registration.Registered,
			account.Registration.Date,
			nullString(account.Registration.Token),
			nullString(account.Reset.Token),
			account.Reset.Expires,
			account.Archived,
			account.CreatedAt,
			account.UpdatedAt,
		).
		Suffix(returningAccount()).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildUpdateAccountQuery renders one conditional UPDATE ... RETURNING.
// The selector becomes the WHERE clause, so the write only happens when the
// row still matches it.
func buildUpdateAccountQuery(b sq.StatementBuilderType, sel models.AccountSelector, upd models.AccountUpdate, now time.Time) (string, []any, error) {
	if sel.Empty() {
		return "", nil, ErrEmptySelector
	}
	if upd.Empty() {
		return "", nil, ErrNothingToUpdate
	}

	set := map[string]any{"updated_at": now}
	if upd.PasswordDigest != nil {
		set["password_digest"] = *upd.PasswordDigest
	}
	if upd.ExternalID != nil {
		set["external_id"] = nullString(*upd.ExternalID)
	}
	if upd.Role != nil {
		set["role"] = string(*upd.Role)
	}
	if upd.RegistrationStatus != nil {
		set["registration_status"] = nullString(string(*upd.RegistrationStatus))
	}
	if upd.Registered != nil {
		set["registered"] = *upd.Registered
	}
	if upd.RegistrationDate != nil {
		set["registration_date"] = *upd.RegistrationDate
	}
	if upd.RegistrationToken != nil {
		set["registration_token"] = nullString(*upd.RegistrationToken)
	}
	if upd.ResetToken != nil {
		set["reset_token"] = nullString(*upd.ResetToken)
	}
	if upd.ResetExpires != nil {
		set["reset_expires"] = *upd.ResetExpires
	}
	if upd.ClearReset {
		set["reset_token"] = nil
		set["reset_expires"] = nil
	}
	if upd.Archived != nil {
		set["archived_at"] = *upd.Archived
	}

	query, args, err := b.Update(accountsTable).
		SetMap(set).
		Where(selectorWhere(sel)).
		Suffix(returningAccount()).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// selectorWhere turns a selector into an AND of equality conditions in a
// fixed order.
func selectorWhere(sel models.AccountSelector) sq.And {
	where := sq.And{}
	if sel.ID != "" {
		where = append(where, sq.Eq{"id": sel.ID})
	}
	if sel.Email != "" {
		where = append(where, sq.Eq{"email": sel.Email})
	}
	if sel.RegistrationToken != "" {
		where = append(where, sq.Eq{"registration_token": sel.RegistrationToken})
	}
	if sel.ResetToken != "" {
		where = append(where, sq.Eq{"reset_token": sel.ResetToken})
	}
	if sel.Status != nil {
		if *sel.Status == models.RegistrationStatusNone {
			where = append(where, sq.Eq{"registration_status": nil})
		} else {
			where = append(where, sq.Eq{"registration_status": string(*sel.Status)})
		}
	}
	if sel.Registered != nil {
		where = append(where, sq.Eq{"registered": *sel.Registered})
	}
	return where
}

// buildIsWhitelistedQuery counts entries matching the exact email or the
// email's domain or one of its parent domains.
func buildIsWhitelistedQuery(b sq.StatementBuilderType, email string) (string, []any, error) {
	match := sq.Or{sq.Eq{"email": email}}
	if suffixes := models.DomainSuffixes(models.EmailDomain(email)); len(suffixes) > 0 {
		match = append(match, sq.Eq{"domain": suffixes})
	}

	query, args, err := b.Select("COUNT(*)").
		From(whitelistTable).
		Where(match).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildInsertWhitelistQuery(b sq.StatementBuilderType, entry models.WhitelistEntry) (string, []any, error) {
	query, args, err := b.Insert(whitelistTable).
		Columns("id", "email", "domain", "created_at").
		Values(entry.ID, nullString(entry.Email), nullString(entry.Domain), entry.CreatedAt).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// nullString maps the empty string to SQL NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
