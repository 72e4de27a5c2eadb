package service

import "errors"

// Validation errors.
var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrInvalidEmail        = errors.New("invalid email")
	ErrInvalidPassword     = errors.New("invalid password")
)

// Authentication errors. Their messages never tell which check failed.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrNotAuthenticated   = errors.New("not authenticated")
)

// Authorization errors.
var (
	ErrInvalidCSRFToken = errors.New("invalid csrf token")
	ErrCSRFTokenExpired = errors.New("csrf token has expired")
	ErrNotAdmin         = errors.New("admin role required")
)

// Workflow errors.
var (
	ErrRegistrationDenied = errors.New("registration was denied")
	ErrAlreadyRegistered  = errors.New("account is already registered")

	// ErrConcurrentUpdate is returned when a conditional update lost a race
	// against another request touching the same account.
	ErrConcurrentUpdate = errors.New("account was changed concurrently")

	ErrTokenCreation = errors.New("token creation failed")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)
