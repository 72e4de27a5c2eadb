// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors raised by the transport layer itself. Callers can match
// against them with [errors.Is].
var (
	// ErrNoSessionToken is returned by the session middleware when neither
	// the session cookie nor an "Authorization: Bearer" header is present.
	ErrNoSessionToken = errors.New("no session token in request")

	// ErrNoAccountInContext is returned when a handler behind the session
	// middleware finds no account in the request context.
	ErrNoAccountInContext = errors.New("no authenticated account in request context")

	// ErrMissingToken is returned when a link handler is called without the
	// token query parameter.
	ErrMissingToken = errors.New("missing token query parameter")

	// ErrInvalidRedirect is returned when a redirect target is not a
	// same-origin absolute path.
	ErrInvalidRedirect = errors.New("redirect must be a same-origin path")

	// ErrInvalidOAuthState is returned by the sign-in callback when the
	// state parameter does not match the state cookie.
	ErrInvalidOAuthState = errors.New("oauth state mismatch")

	// ErrMissingAuthCode is returned when the sign-in callback carries no
	// authorization code.
	ErrMissingAuthCode = errors.New("missing authorization code")

	// ErrUnverifiedEmail is returned when the identity provider has not
	// verified the user's email.
	ErrUnverifiedEmail = errors.New("provider email is not verified")
)
