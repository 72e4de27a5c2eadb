package store

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/oni-auth/models"
)

func pgUniqueViolation(table, constraint string) error {
	return &pgconn.PgError{Code: pgerrcode.UniqueViolation, TableName: table, ConstraintName: constraint}
}

func TestAccountRepository_FindByEmail(t *testing.T) {
	repo, mock := newTestAccountRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, password_digest")).
		WithArgs("a@b.com").
		WillReturnRows(addAccountRow(accountRows(), "id-1", "a@b.com", "digest"))

	account, err := repo.FindByEmail(testContext(), "  A@B.com ", true)
	require.NoError(t, err)

	assert.Equal(t, "id-1", account.ID)
	assert.Equal(t, "a@b.com", account.Email)
	assert.Equal(t, "digest", account.PasswordDigest)
	assert.Equal(t, models.RoleUser, account.Role)
	assert.Equal(t, models.RegistrationStatusPending, account.Registration.Status)
	assert.Equal(t, "reg-token", account.Registration.Token)
	assert.Nil(t, account.Registration.Date)
	assert.Nil(t, account.Archived)
	assert.Empty(t, account.ExternalID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_FindByEmail_WithoutDigest(t *testing.T) {
	repo, mock := newTestAccountRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("'' AS password_digest")).
		WithArgs("a@b.com").
		WillReturnRows(addAccountRow(accountRows(), "id-1", "a@b.com", ""))

	account, err := repo.FindByEmail(testContext(), "a@b.com", false)
	require.NoError(t, err)
	assert.Empty(t, account.PasswordDigest)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_FindByEmail_NotFound(t *testing.T) {
	repo, mock := newTestAccountRepo(t)

	mock.ExpectQuery("SELECT").WithArgs("x@b.com").WillReturnRows(accountRows())

	_, err := repo.FindByEmail(testContext(), "x@b.com", true)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAccountRepository_FindByEmail_DBError(t *testing.T) {
	repo, mock := newTestAccountRepo(t)

	mock.ExpectQuery("SELECT").WillReturnError(errors.New("network down"))

	_, err := repo.FindByEmail(testContext(), "a@b.com", true)
	assert.ErrorIs(t, err, ErrExecutingQuery)
	assert.NotErrorIs(t, err, ErrAccountNotFound)
}

func TestAccountRepository_FindByEmail_RetriesTransientErrors(t *testing.T) {
	repo, mock := newTestAccountRepo(t)

	mock.ExpectQuery("SELECT").WillReturnError(&pgconn.PgError{Code: pgerrcode.SerializationFailure})
	mock.ExpectQuery("SELECT").
		WithArgs("a@b.com").
		WillReturnRows(addAccountRow(accountRows(), "id-1", "a@b.com", "digest"))

	account, err := repo.FindByEmail(testContext(), "a@b.com", true)
	require.NoError(t, err)
	assert.Equal(t, "id-1", account.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_FindByExternalID(t *testing.T) {
	repo, mock := newTestAccountRepo(t)

	rows := accountRows().AddRow(
		"id-2", "g@b.com", "", "google-123", "admin",
		"approved", true, fixedNow, nil,
		nil, nil, nil, fixedNow, fixedNow,
	)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE external_id = $1")).WithArgs("google-123").WillReturnRows(rows)

	account, err := repo.FindByExternalID(testContext(), "google-123")
	require.NoError(t, err)
	assert.Equal(t, "google-123", account.ExternalID)
	assert.True(t, account.IsAdmin())
	assert.True(t, account.Registration.Registered)
	require.NotNil(t, account.Registration.Date)
	assert.True(t, account.Registration.Consistent())
}

func TestAccountRepository_FindByExternalID_Empty(t *testing.T) {
	repo, _ := newTestAccountRepo(t)

	_, err := repo.FindByExternalID(testContext(), "")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAccountRepository_FindByToken(t *testing.T) {
	repo, mock := newTestAccountRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE reset_token = $1")).
		WithArgs("reset-tok").
		WillReturnRows(addAccountRow(accountRows(), "id-1", "a@b.com", ""))

	account, err := repo.FindByToken(testContext(), models.ResetTokenField, "reset-tok")
	require.NoError(t, err)
	assert.Equal(t, "id-1", account.ID)
}

func TestAccountRepository_FindByToken_Rejects(t *testing.T) {
	repo, _ := newTestAccountRepo(t)

	_, err := repo.FindByToken(testContext(), models.TokenField("password_digest"), "x")
	assert.ErrorIs(t, err, ErrUnknownTokenField)

	_, err = repo.FindByToken(testContext(), models.RegistrationTokenField, "")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAccountRepository_Create(t *testing.T) {
	repo, mock := newTestAccountRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO accounts")).
		WithArgs(
			sqlmock.AnyArg(), "new@b.com", "digest", nil, "user",
			nil, false, nil, nil, nil, nil, nil, fixedNow, fixedNow,
		).
		WillReturnRows(accountRows().AddRow(
			"id-9", "new@b.com", "digest", nil, "user",
			nil, false, nil, nil, nil, nil, nil, fixedNow, fixedNow,
		))

	created, err := repo.Create(testContext(), models.Account{Email: "New@B.com", PasswordDigest: "digest"})
	require.NoError(t, err)

	assert.Equal(t, "id-9", created.ID)
	assert.Equal(t, models.RegistrationStatusNone, created.Registration.Status)
	assert.False(t, created.Registration.Registered)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Create_Duplicates(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "email", err: pgUniqueViolation("accounts", "accounts_email_key"), want: ErrDuplicateEmail},
		{name: "external id", err: pgUniqueViolation("accounts", "accounts_external_id_key"), want: ErrDuplicateExternalID},
		{name: "other", err: errors.New("disk full"), want: ErrExecutingQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newTestAccountRepo(t)
			mock.ExpectQuery("INSERT INTO accounts").WillReturnError(tt.err)

			_, err := repo.Create(testContext(), models.Account{Email: "a@b.com"})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAccountRepository_UpdateFields(t *testing.T) {
	repo, mock := newTestAccountRepo(t)
	pending := models.RegistrationStatusPending

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE accounts SET")).
		WithArgs(true, fixedNow, "approved", nil, fixedNow, "reg-token", "pending").
		WillReturnRows(accountRows().AddRow(
			"id-1", "a@b.com", "", nil, "user",
			"approved", true, fixedNow, nil,
			nil, nil, nil, fixedNow, fixedNow,
		))

	updated, err := repo.UpdateFields(testContext(),
		models.AccountSelector{RegistrationToken: "reg-token", Status: &pending},
		models.AccountUpdate{
			RegistrationStatus: models.Ptr(models.RegistrationStatusApproved),
			Registered:         models.Ptr(true),
			RegistrationDate:   &fixedNow,
			RegistrationToken:  models.Ptr(""),
		},
	)
	require.NoError(t, err)

	assert.True(t, updated.Registration.Registered)
	assert.Empty(t, updated.Registration.Token)
	assert.True(t, updated.Registration.Consistent())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_UpdateFields_NoMatch(t *testing.T) {
	repo, mock := newTestAccountRepo(t)

	mock.ExpectQuery("UPDATE accounts").WillReturnError(sql.ErrNoRows)

	_, err := repo.UpdateFields(testContext(),
		models.AccountSelector{Email: "a@b.com"},
		models.AccountUpdate{PasswordDigest: models.Ptr("d")},
	)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAccountRepository_UpdateFields_Invalid(t *testing.T) {
	repo, _ := newTestAccountRepo(t)

	_, err := repo.UpdateFields(testContext(), models.AccountSelector{}, models.AccountUpdate{PasswordDigest: models.Ptr("d")})
	assert.ErrorIs(t, err, ErrEmptySelector)

	_, err = repo.UpdateFields(testContext(), models.AccountSelector{ID: "id-1"}, models.AccountUpdate{})
	assert.ErrorIs(t, err, ErrNothingToUpdate)
}

func TestAccountRepository_UpdateFields_DuplicateExternalID(t *testing.T) {
	repo, mock := newTestAccountRepo(t)

	mock.ExpectQuery("UPDATE accounts").WillReturnError(pgUniqueViolation("accounts", "accounts_external_id_key"))

	_, err := repo.UpdateFields(testContext(),
		models.AccountSelector{ID: "id-1"},
		models.AccountUpdate{ExternalID: models.Ptr("google-1")},
	)
	assert.ErrorIs(t, err, ErrDuplicateExternalID)
}
