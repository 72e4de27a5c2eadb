package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when a
// configuration group is incomplete or invalid.
var (
	// ErrInvalidAppConfigs indicates invalid signing keys, lifetimes or URLs.
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidStorageConfigs indicates a missing database DSN.
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidServerConfigs indicates an invalid listen address, timeout
	// or CORS origin.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidMailConfigs indicates an unknown mail driver or missing
	// driver credentials.
	ErrInvalidMailConfigs = errors.New("invalid mail configuration")
	// ErrInvalidWorkerConfigs indicates invalid background worker sizing.
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
	// ErrInvalidOAuthConfigs indicates a Google client without a secret or
	// a malformed endpoint URL.
	ErrInvalidOAuthConfigs = errors.New("invalid oauth configuration")
)

// ErrReadingEnv is returned when an environment variable cannot be
// converted to its field type, e.g. a malformed duration.
var ErrReadingEnv = errors.New("error reading env configs")

// ErrInvalidAddress is returned by the -a flag for a malformed host:port.
var ErrInvalidAddress = errors.New("invalid listen address")
