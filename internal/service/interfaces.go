// Package service implements the credential, anti-forgery, registration and
// session logic of oni-auth on top of the store and mail collaborators.
package service

import (
	"context"

	"github.com/MKhiriev/oni-auth/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// TokenService mints and verifies the four kinds of signed tokens.
//
// Session tokens are signed with the private key. Public, registration and
// reset tokens are signed with the public key, so a token travelling in a
// URL can never be replayed as a session token.
type TokenService interface {
	IssueSessionToken(account models.Account) (models.Token, error)
	IssuePublicToken(account models.Account) (models.Token, error)
	IssueRegistrationToken(account models.Account) (models.Token, error)
	IssueResetToken(account models.Account) (models.Token, error)

	// Verify checks signature, issuer, expiry and the type claim of
	// tokenString. Every failure is reported as ErrInvalidToken.
	Verify(tokenString string, tokenType models.TokenType) (*models.Claims, error)
}

// CSRFService issues and checks anti-forgery contexts and converts them to
// and from their signed cookie form.
type CSRFService interface {
	Issue() (models.CSRFContext, error)
	Check(csrf models.CSRFContext, headerToken string) error
	Encode(csrf models.CSRFContext) (string, error)
	Decode(cookieValue string) (models.CSRFContext, error)
}

// RegistrationService runs the registration workflow:
// created -> pending -> approved (registered) or denied.
type RegistrationService interface {
	// CreateUser stores a new account with a hashed password and no
	// registration state.
	CreateUser(ctx context.Context, email, password string) (models.Account, error)

	// CheckWhitelist reports whether email skips admin review.
	CheckWhitelist(ctx context.Context, email string) (bool, error)

	// RegisterUser mints a registration token, moves the account to pending
	// and mails the confirmation link. The token is persisted before the
	// email is queued.
	RegisterUser(ctx context.Context, account models.Account) (models.Account, models.Token, error)

	// Register creates the account and takes the whitelist or the admin
	// review branch.
	Register(ctx context.Context, credentials models.Credentials) (models.RegistrationResult, error)

	// RegisterApprove is the admin approval. It is a no-op for an account
	// that is already registered.
	RegisterApprove(ctx context.Context, email string) (models.ApprovalResult, error)

	// RegisterDeny moves a not yet registered account to denied and revokes
	// its outstanding registration token.
	RegisterDeny(ctx context.Context, email string) (models.Account, error)

	// ConfirmRegistration consumes a registration token.
	ConfirmRegistration(ctx context.Context, token string) (models.Account, error)

	// CheckUserRegistration reports the registered flag of an account.
	CheckUserRegistration(ctx context.Context, email string) (bool, error)
}

// PasswordService runs the password reset workflow.
type PasswordService interface {
	RequestReset(ctx context.Context, email string) error
	ConfirmReset(ctx context.Context, token string) (models.Account, error)
	UpdatePassword(ctx context.Context, account models.Account, password string) (models.Account, error)
}

// AuthService authenticates callers.
type AuthService interface {
	Login(ctx context.Context, credentials models.Credentials) (models.Account, error)

	// Authenticate verifies a session token and loads the account it names.
	Authenticate(ctx context.Context, sessionToken string) (models.Account, error)

	WhoAmI(account models.Account) models.Identity

	// ResolveExternalAccount finds or links the account of a federated
	// identity, creating a password-less account when none exists.
	ResolveExternalAccount(ctx context.Context, externalID, email string) (models.Account, error)
}

type AppInfoService interface {
	GetAppInfo(ctx context.Context) models.AppBuildInfo
}

// Notifier is the fire-and-forget mail contract. Send returns nothing: the
// workflow state is authoritative, the email is best effort.
type Notifier interface {
	Send(ctx context.Context, to string, kind models.MailKind, vars models.MailVars)
}

// PasswordHasher produces and checks one-way password digests.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) (bool, error)
}
