package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/oni-auth/internal/logger"
	"github.com/MKhiriev/oni-auth/internal/utils"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func testContext() context.Context {
	l := zerolog.Nop()
	return l.WithContext(context.Background())
}

func newTestAccountRepo(t *testing.T) (*accountRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newTestDB(t)
	return &accountRepository{
		db:     newPostgresDB(db, logger.Nop()),
		ids:    utils.NewUUIDGenerator(),
		now:    func() time.Time { return fixedNow },
		logger: logger.Nop(),
	}, mock
}

func accountRows() *sqlmock.Rows {
	return sqlmock.NewRows(accountColumns)
}

// addAccountRow appends a pending account row.
func addAccountRow(rows *sqlmock.Rows, id, email, digest string) *sqlmock.Rows {
	return rows.AddRow(
		id, email, digest, nil, "user",
		"pending", false, nil, "reg-token",
		nil, nil, nil, fixedNow, fixedNow,
	)
}
