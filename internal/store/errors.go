package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrAccountNotFound is returned when a lookup or a conditional update
	// matches no account row.
	ErrAccountNotFound = errors.New("account was not found")

	// ErrDuplicateEmail is returned when an account with the same email
	// already exists.
	ErrDuplicateEmail = errors.New("email already exists")

	// ErrDuplicateExternalID is returned when another account is already
	// linked to the same external identity.
	ErrDuplicateExternalID = errors.New("external id already exists")

	// ErrDuplicateWhitelistEntry is returned when the email or domain is
	// already whitelisted.
	ErrDuplicateWhitelistEntry = errors.New("whitelist entry already exists")

	// ErrUnknownTokenField is returned when FindByToken is asked to search a
	// column that does not hold single-use tokens.
	ErrUnknownTokenField = errors.New("unknown token field")

	// ErrEmptySelector is returned when an update has no WHERE conditions.
	// Unconditional updates of the whole table are never issued.
	ErrEmptySelector = errors.New("empty account selector")

	// ErrNothingToUpdate is returned when an update sets no columns.
	ErrNothingToUpdate = errors.New("nothing to update")

	// ErrInvalidWhitelistEntry is returned when an entry sets both or neither
	// of email and domain.
	ErrInvalidWhitelistEntry = errors.New("whitelist entry must name exactly one of email and domain")

	// ErrUnsupportedDSN is returned when the database DSN names no supported
	// driver.
	ErrUnsupportedDSN = errors.New("unsupported database dsn")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row fails.
	ErrScanningRow = errors.New("failed to scan account row")
)
