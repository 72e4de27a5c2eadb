package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/oni-auth/internal/config"
	"github.com/MKhiriev/oni-auth/internal/logger"
	"github.com/MKhiriev/oni-auth/models"
)

func newSQLiteStorages(t *testing.T) *Storages {
	t.Helper()
	dsn := "sqlite://" + filepath.Join(t.TempDir(), "oni.db")

	s, err := NewStorages(context.Background(), config.Storage{DB: config.DB{DSN: dsn}}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNewConnectDB_UnsupportedDSN(t *testing.T) {
	_, err := NewConnectDB(context.Background(), config.DB{DSN: "mysql://root:pw@localhost/oni"}, logger.Nop())
	require.ErrorIs(t, err, ErrUnsupportedDSN)
	assert.NotContains(t, err.Error(), "pw")
}

func TestSQLite_AccountLifecycle(t *testing.T) {
	s := newSQLiteStorages(t)
	ctx := testContext()
	repo := s.AccountRepository

	require.NoError(t, s.Ping(ctx))

	created, err := repo.Create(ctx, models.Account{
		Email:          "Alice@Example.com",
		PasswordDigest: "digest",
		Registration: models.Registration{
			Status: models.RegistrationStatusPending,
			Token:  "reg-1",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", created.Email)

	_, err = repo.Create(ctx, models.Account{Email: "alice@example.com"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	found, err := repo.FindByEmail(ctx, "ALICE@example.com", true)
	require.NoError(t, err)
	assert.Equal(t, "digest", found.PasswordDigest)

	found, err = repo.FindByEmail(ctx, "alice@example.com", false)
	require.NoError(t, err)
	assert.Empty(t, found.PasswordDigest)

	byToken, err := repo.FindByToken(ctx, models.RegistrationTokenField, "reg-1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byToken.ID)

	pending := models.RegistrationStatusPending
	now := time.Now().UTC().Truncate(time.Second)
	confirm := func() (models.Account, error) {
		return repo.UpdateFields(ctx,
			models.AccountSelector{RegistrationToken: "reg-1", Status: &pending},
			models.AccountUpdate{
				RegistrationStatus: models.Ptr(models.RegistrationStatusApproved),
				Registered:         models.Ptr(true),
				RegistrationDate:   &now,
				RegistrationToken:  models.Ptr(""),
			},
		)
	}

	confirmed, err := confirm()
	require.NoError(t, err)
	assert.True(t, confirmed.Registration.Registered)
	assert.True(t, confirmed.Registration.Consistent())
	assert.Empty(t, confirmed.Registration.Token)

	_, err = confirm()
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestSQLite_RegisteredCheckConstraint(t *testing.T) {
	s := newSQLiteStorages(t)

	_, err := s.AccountRepository.Create(testContext(), models.Account{
		Email:        "bob@example.com",
		Registration: models.Registration{Registered: true},
	})
	assert.Error(t, err)
}

func TestSQLite_ResetTokenRoundTrip(t *testing.T) {
	s := newSQLiteStorages(t)
	ctx := testContext()

	_, err := s.AccountRepository.Create(ctx, models.Account{Email: "carol@example.com", PasswordDigest: "old"})
	require.NoError(t, err)

	expires := time.Now().UTC().Add(10 * time.Minute).Truncate(time.Second)
	_, err = s.AccountRepository.UpdateFields(ctx,
		models.AccountSelector{Email: "carol@example.com"},
		models.AccountUpdate{ResetToken: models.Ptr("rst"), ResetExpires: &expires},
	)
	require.NoError(t, err)

	account, err := s.AccountRepository.FindByToken(ctx, models.ResetTokenField, "rst")
	require.NoError(t, err)
	require.NotNil(t, account.Reset.Expires)
	assert.True(t, expires.Equal(*account.Reset.Expires))

	updated, err := s.AccountRepository.UpdateFields(ctx,
		models.AccountSelector{ResetToken: "rst"},
		models.AccountUpdate{PasswordDigest: models.Ptr("new"), ClearReset: true},
	)
	require.NoError(t, err)
	assert.Empty(t, updated.Reset.Token)
	assert.Nil(t, updated.Reset.Expires)
}

func TestSQLite_Whitelist(t *testing.T) {
	s := newSQLiteStorages(t)
	ctx := testContext()

	_, err := s.WhitelistRepository.Add(ctx, models.WhitelistEntry{Domain: "example.com"})
	require.NoError(t, err)
	_, err = s.WhitelistRepository.Add(ctx, models.WhitelistEntry{Email: "vip@other.org"})
	require.NoError(t, err)
	_, err = s.WhitelistRepository.Add(ctx, models.WhitelistEntry{Domain: "EXAMPLE.com"})
	assert.ErrorIs(t, err, ErrDuplicateWhitelistEntry)

	tests := []struct {
		email string
		want  bool
	}{
		{email: "a@example.com", want: true},
		{email: "a@mail.example.com", want: true},
		{email: "a@notexample.com", want: false},
		{email: "vip@other.org", want: true},
		{email: "other@other.org", want: false},
	}
	for _, tt := range tests {
		got, err := s.WhitelistRepository.IsWhitelisted(ctx, tt.email)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.email)
	}
}

func TestSQLite_FixturesReplaceContent(t *testing.T) {
	s := newSQLiteStorages(t)
	ctx := testContext()

	_, err := s.AccountRepository.Create(ctx, models.Account{Email: "old@example.com"})
	require.NoError(t, err)

	require.NoError(t, s.Fixtures.Reset(ctx))
	require.NoError(t, s.Fixtures.Load(ctx,
		[]models.Account{{Email: "new@example.com", Role: models.RoleAdmin}},
		[]models.WhitelistEntry{{Domain: "example.org"}},
	))

	_, err = s.AccountRepository.FindByEmail(ctx, "old@example.com", false)
	assert.ErrorIs(t, err, ErrAccountNotFound)

	admin, err := s.AccountRepository.FindByEmail(ctx, "new@example.com", false)
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())

	ok, err := s.WhitelistRepository.IsWhitelisted(ctx, "x@example.org")
	require.NoError(t, err)
	assert.True(t, ok)
}
