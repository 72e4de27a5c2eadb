package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/oni-auth/internal/config"
	"github.com/MKhiriev/oni-auth/internal/logger"
	"github.com/MKhiriev/oni-auth/internal/store"
	"github.com/MKhiriev/oni-auth/internal/validators"
	"github.com/MKhiriev/oni-auth/models"
)

type passwordService struct {
	accounts store.AccountRepository

	tokens    TokenService
	hasher    PasswordHasher
	notifier  Notifier
	validator validators.Validator

	links    links
	resetTTL time.Duration

	now    func() time.Time
	logger *logger.Logger
}

func NewPasswordService(
	accounts store.AccountRepository,
	tokens TokenService,
	hasher PasswordHasher,
	notifier Notifier,
	validator validators.Validator,
	cfg config.App,
	logger *logger.Logger,
) PasswordService {
	return &passwordService{
		accounts:  accounts,
		tokens:    tokens,
		hasher:    hasher,
		notifier:  notifier,
		validator: validator,
		links:     newLinks(cfg),
		resetTTL:  cfg.ResetTTL,
		now:       time.Now,
		logger:    logger,
	}
}

// RequestReset stores a reset token with its expiry and mails the link.
// Unknown and archived emails succeed silently so the endpoint cannot be
// used to discover accounts.
func (s *passwordService) RequestReset(ctx context.Context, email string) error {
	log := logger.FromContext(ctx)

	req := models.EmailRequest{Email: models.NormalizeEmail(email)}
	if err := s.validator.Validate(ctx, req); err != nil {
		return validationError(err)
	}

	account, err := s.accounts.FindByEmail(ctx, req.Email, false)
	if errors.Is(err, store.ErrAccountNotFound) {
		log.Debug().Str("email", req.Email).Msg("password reset requested for unknown email")
		return nil
	}
	if err != nil {
		log.Err(err).Str("email", req.Email).Msg("error looking up account for reset")
		return fmt.Errorf("error looking up account for reset: %w", err)
	}
	if account.IsArchived() {
		return nil
	}

	token, err := s.tokens.IssueResetToken(account)
	if err != nil {
		log.Err(err).Str("email", account.Email).Msg("error issuing reset token")
		return err
	}

	_, err = s.accounts.UpdateFields(ctx,
		models.AccountSelector{ID: account.ID},
		models.AccountUpdate{
			ResetToken:   models.Ptr(token.SignedString),
			ResetExpires: models.Ptr(token.ExpiresAt.UTC()),
		},
	)
	if err != nil {
		log.Err(err).Str("email", account.Email).Msg("error storing reset token")
		return fmt.Errorf("error storing reset token: %w", err)
	}

	vars := s.links.vars(account.Email)
	vars["Link"] = s.links.resetPassword(token.SignedString)
	vars["ExpiresIn"] = expiresIn(s.resetTTL)
	s.notifier.Send(ctx, account.Email, models.MailPasswordReset, vars)

	return nil
}

// ConfirmReset consumes a reset token. The stored token is cleared with a
// conditional update on the token itself, so a link works once.
func (s *passwordService) ConfirmReset(ctx context.Context, token string) (models.Account, error) {
	log := logger.FromContext(ctx)

	if token == "" {
		return models.Account{}, ErrInvalidToken
	}

	claims, err := s.tokens.Verify(token, models.TokenTypeResetPassword)
	if err != nil {
		log.Debug().Err(err).Msg("reset token rejected")
		return models.Account{}, err
	}

	account, err := s.accounts.FindByToken(ctx, models.ResetTokenField, token)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return models.Account{}, ErrInvalidToken
		}
		log.Err(err).Msg("error looking up reset token")
		return models.Account{}, fmt.Errorf("error looking up reset token: %w", err)
	}

	if account.ID != claims.ID || account.IsArchived() ||
		account.Reset.Expires == nil || s.now().After(*account.Reset.Expires) {
		return models.Account{}, ErrInvalidToken
	}

	updated, err := s.accounts.UpdateFields(ctx,
		models.AccountSelector{ID: account.ID, ResetToken: token},
		models.AccountUpdate{ClearReset: true},
	)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return models.Account{}, ErrInvalidToken
		}
		log.Err(err).Str("email", account.Email).Msg("error clearing reset token")
		return models.Account{}, fmt.Errorf("error clearing reset token: %w", err)
	}

	return updated, nil
}

// UpdatePassword hashes password and stores the digest. Any outstanding
// reset token is revoked by the same update.
func (s *passwordService) UpdatePassword(ctx context.Context, account models.Account, password string) (models.Account, error) {
	log := logger.FromContext(ctx)

	if err := s.validator.Validate(ctx, models.PasswordRequest{Password: password}); err != nil {
		return models.Account{}, validationError(err)
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		log.Err(err).Msg("error hashing password")
		return models.Account{}, fmt.Errorf("error hashing password: %w", err)
	}

	updated, err := s.accounts.UpdateFields(ctx,
		models.AccountSelector{ID: account.ID},
		models.AccountUpdate{PasswordDigest: &digest, ClearReset: true},
	)
	if err != nil {
		log.Err(err).Str("email", account.Email).Msg("error updating password")
		return models.Account{}, fmt.Errorf("error updating password: %w", err)
	}

	return updated, nil
}
