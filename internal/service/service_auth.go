package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/oni-auth/internal/logger"
	"github.com/MKhiriev/oni-auth/internal/store"
	"github.com/MKhiriev/oni-auth/internal/validators"
	"github.com/MKhiriev/oni-auth/models"
)

// timingPassword is hashed once at construction. Logins for unknown emails
// verify against its digest so they cost the same as a wrong password.
const timingPassword = "oni-auth-timing-equaliser"

// authService is the concrete implementation of AuthService.
type authService struct {
	accounts store.AccountRepository

	tokens    TokenService
	hasher    PasswordHasher
	validator validators.Validator

	dummyDigest string

	logger *logger.Logger
}

// NewAuthService constructs an AuthService. It fails only when the hasher
// cannot produce the digest used for unknown emails.
func NewAuthService(
	accounts store.AccountRepository,
	tokens TokenService,
	hasher PasswordHasher,
	validator validators.Validator,
	logger *logger.Logger,
) (AuthService, error) {
	digest, err := hasher.Hash(timingPassword)
	if err != nil {
		return nil, fmt.Errorf("error preparing login digest: %w", err)
	}

	return &authService{
		accounts:    accounts,
		tokens:      tokens,
		hasher:      hasher,
		validator:   validator,
		dummyDigest: digest,
		logger:      logger,
	}, nil
}

// Login checks credentials and returns the account without its digest.
//
// Returns:
//   - ErrInvalidEmail / ErrInvalidPassword if a field is missing or malformed.
//   - ErrInvalidCredentials for an unknown, archived or password-less account
//     and for a wrong password alike.
//   - a wrapped storage error if the lookup fails for another reason.
func (a *authService) Login(ctx context.Context, credentials models.Credentials) (models.Account, error) {
	log := logger.FromContext(ctx)

	credentials.Email = models.NormalizeEmail(credentials.Email)
	// the length policy is not applied here: old passwords keep working
	if err := a.validator.Validate(ctx, credentials, validators.FieldEmail, validators.FieldPassword); err != nil {
		return models.Account{}, validationError(err)
	}

	account, err := a.accounts.FindByEmail(ctx, credentials.Email, true)
	if err != nil && !errors.Is(err, store.ErrAccountNotFound) {
		log.Err(err).Str("email", credentials.Email).Msg("account search by email failed")
		return models.Account{}, fmt.Errorf("account search by email failed: %w", err)
	}

	if err != nil || account.IsArchived() || account.PasswordDigest == "" {
		_, _ = a.hasher.Verify(credentials.Password, a.dummyDigest)
		log.Info().Str("email", credentials.Email).Msg("login for unknown account")
		return models.Account{}, ErrInvalidCredentials
	}

	ok, err := a.hasher.Verify(credentials.Password, account.PasswordDigest)
	if err != nil {
		log.Err(err).Str("email", credentials.Email).Msg("stored digest could not be verified")
		return models.Account{}, ErrInvalidCredentials
	}
	if !ok {
		log.Info().Str("email", credentials.Email).Msg("wrong password")
		return models.Account{}, ErrInvalidCredentials
	}

	account.PasswordDigest = ""
	return account, nil
}

// Authenticate re-reads the account named by a session token, so role
// changes and archiving take effect before the token expires.
func (a *authService) Authenticate(ctx context.Context, sessionToken string) (models.Account, error) {
	log := logger.FromContext(ctx)

	if sessionToken == "" {
		return models.Account{}, ErrNotAuthenticated
	}

	claims, err := a.tokens.Verify(sessionToken, models.TokenTypeSession)
	if err != nil {
		log.Debug().Err(err).Msg("session token rejected")
		return models.Account{}, err
	}

	account, err := a.accounts.FindByEmail(ctx, claims.Email, false)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return models.Account{}, ErrInvalidToken
		}
		log.Err(err).Str("email", claims.Email).Msg("account search by email failed")
		return models.Account{}, fmt.Errorf("account search by email failed: %w", err)
	}

	if account.ID != claims.ID || account.IsArchived() {
		return models.Account{}, ErrInvalidToken
	}

	return account, nil
}

func (a *authService) WhoAmI(account models.Account) models.Identity {
	return account.Identity()
}

// ResolveExternalAccount returns the account linked to externalID. An
// existing account with the same email is linked on first use; otherwise a
// password-less account is created.
func (a *authService) ResolveExternalAccount(ctx context.Context, externalID, email string) (models.Account, error) {
	log := logger.FromContext(ctx)

	if externalID == "" {
		return models.Account{}, ErrInvalidDataProvided
	}
	req := models.EmailRequest{Email: models.NormalizeEmail(email)}
	if err := a.validator.Validate(ctx, req); err != nil {
		return models.Account{}, validationError(err)
	}

	account, err := a.accounts.FindByExternalID(ctx, externalID)
	switch {
	case err == nil:
		if account.IsArchived() {
			return models.Account{}, ErrInvalidCredentials
		}
		return account, nil
	case !errors.Is(err, store.ErrAccountNotFound):
		log.Err(err).Str("external_id", externalID).Msg("account search by external id failed")
		return models.Account{}, fmt.Errorf("account search by external id failed: %w", err)
	}

	account, err = a.accounts.FindByEmail(ctx, req.Email, false)
	switch {
	case err == nil:
		return a.linkExternalID(ctx, account, externalID)
	case !errors.Is(err, store.ErrAccountNotFound):
		log.Err(err).Str("email", req.Email).Msg("account search by email failed")
		return models.Account{}, fmt.Errorf("account search by email failed: %w", err)
	}

	created, err := a.accounts.Create(ctx, models.Account{
		Email:      req.Email,
		ExternalID: externalID,
		Role:       models.RoleUser,
	})
	if err != nil {
		log.Err(err).Str("email", req.Email).Msg("external account creation ended with error")
		return models.Account{}, fmt.Errorf("external account creation ended with error: %w", err)
	}

	return created, nil
}

func (a *authService) linkExternalID(ctx context.Context, account models.Account, externalID string) (models.Account, error) {
	if account.IsArchived() {
		return models.Account{}, ErrInvalidCredentials
	}
	if account.ExternalID != "" && account.ExternalID != externalID {
		return models.Account{}, store.ErrDuplicateExternalID
	}

	linked, err := a.accounts.UpdateFields(ctx,
		models.AccountSelector{ID: account.ID},
		models.AccountUpdate{ExternalID: &externalID},
	)
	if err != nil {
		return models.Account{}, fmt.Errorf("error linking external id: %w", err)
	}
	return linked, nil
}
