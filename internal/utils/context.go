// Package utils provides general-purpose helpers shared by the transport,
// service and storage layers: request-scoped context values, JSON response
// writing, HMAC signing, password digests, JWT signing and parsing, random
// token generation and identifier generation.
package utils

import (
	"context"

	"github.com/MKhiriev/oni-auth/models"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

var (
	// AccountCtxKey holds the authenticated [models.Account].
	AccountCtxKey = contextKey("account")

	// CSRFTokenCtxKey holds the anti-forgery token of the current request.
	CSRFTokenCtxKey = contextKey("csrfToken")
)

// WithAccount returns a copy of ctx carrying the authenticated account.
func WithAccount(ctx context.Context, account models.Account) context.Context {
	return context.WithValue(ctx, AccountCtxKey, account)
}

// GetAccountFromContext retrieves the authenticated account.
//
// ok is false when the request did not pass through the session middleware.
func GetAccountFromContext(ctx context.Context) (models.Account, bool) {
	account, ok := ctx.Value(AccountCtxKey).(models.Account)
	return account, ok
}

// WithCSRFToken returns a copy of ctx carrying the anti-forgery token that
// is valid for the current request.
func WithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, CSRFTokenCtxKey, token)
}

// GetCSRFTokenFromContext retrieves the anti-forgery token.
func GetCSRFTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(CSRFTokenCtxKey).(string)
	return token, ok && token != ""
}
