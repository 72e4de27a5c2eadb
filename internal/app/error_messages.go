// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// oni-auth handlers, middleware and services.
//
// All Msg* constants are human-readable message strings that are written into
// HTTP response bodies. Keeping them in one place ensures consistent wording
// throughout the API.
package app

// APIBasePath is the mount point of the authentication routes.
const APIBasePath = "/api/v1/auth"

const (
	// MsgInvalidDataProvided is returned when the request body cannot be
	// decoded.
	MsgInvalidDataProvided = "Invalid data provided"

	// MsgMissingCredentials is returned when login or registration lacks an
	// email or a password.
	MsgMissingCredentials = "Please provide an email and password"

	// MsgInvalidEmail is returned when an email does not look like one.
	MsgInvalidEmail = "Please provide a valid email"

	// MsgInvalidPassword is returned when a password violates the policy.
	MsgInvalidPassword = "Password does not meet the requirements"

	// MsgInvalidCredentials is returned for unknown emails and wrong
	// passwords alike.
	MsgInvalidCredentials = "Invalid credentials"

	// MsgInvalidToken is the one message for every token failure.
	MsgInvalidToken = "Invalid or expired token"

	// MsgSessionExpired is returned when the session cookie is missing or no
	// longer verifies.
	MsgSessionExpired = "Session expired, please login again to start a new session"

	MsgInvalidCSRFToken = "Invalid CSRF token"
	MsgCSRFTokenExpired = "CSRF token has expired"

	// MsgNotAdmin is returned when a non-admin caller reaches an admin route.
	MsgNotAdmin = "Not authorized"

	// MsgAccountNotFound is returned when an admin action names no account.
	MsgAccountNotFound = "User not found"

	// MsgEmailAlreadyExists is returned when registering an email twice.
	MsgEmailAlreadyExists = "Email already exists"

	// MsgExternalIDAlreadyExists is returned when an external identity is
	// already linked to another account.
	MsgExternalIDAlreadyExists = "Account already linked"

	MsgRegistrationDenied = "Registration was denied"

	// MsgConcurrentUpdate is returned when another request changed the
	// account first.
	MsgConcurrentUpdate = "Account was changed by another request, please retry"

	// MsgInternalServerError is returned when an unexpected server-side
	// failure occurs that the client cannot resolve.
	MsgInternalServerError = "Internal server error"

	MsgNotFound = "Not found"

	// MsgInvalidSignInState is returned when a sign-in callback does not
	// belong to a sign-in started by this browser.
	MsgInvalidSignInState = "Invalid sign-in state"

	// MsgExternalSignInFailed is returned when the identity provider
	// rejects the sign-in or withholds a verified email.
	MsgExternalSignInFailed = "Sign in with the identity provider failed"
)

// Success messages.
const (
	MsgLoggedOut            = "Logged out"
	MsgRegistrationPending  = "Registration received, check your email"
	MsgRegistrationReview   = "Registration received, it will be reviewed by an administrator"
	MsgAlreadyRegistered    = "User is already registered"
	MsgRegistrationApproved = "Registration approved, confirmation email sent"
	MsgRegistrationDeniedOK = "Registration denied"
	MsgResetEmailSent       = "If the email is registered, a reset link has been sent"
	MsgPasswordUpdated      = "Password updated"
)
