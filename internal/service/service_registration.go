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

// registrationService is the concrete implementation of RegistrationService.
//
// Every state transition is a conditional update: the selector carries the
// state the transition starts from, so a request that lost a race against
// another one writes nothing.
type registrationService struct {
	accounts  store.AccountRepository
	whitelist store.WhitelistRepository

	tokens    TokenService
	hasher    PasswordHasher
	notifier  Notifier
	validator validators.Validator

	links           links
	adminEmail      string
	registrationTTL time.Duration

	now    func() time.Time
	logger *logger.Logger
}

// NewRegistrationService wires the registration workflow to its
// collaborators.
func NewRegistrationService(
	accounts store.AccountRepository,
	whitelist store.WhitelistRepository,
	tokens TokenService,
	hasher PasswordHasher,
	notifier Notifier,
	validator validators.Validator,
	cfg config.App,
	logger *logger.Logger,
) RegistrationService {
	return &registrationService{
		accounts:        accounts,
		whitelist:       whitelist,
		tokens:          tokens,
		hasher:          hasher,
		notifier:        notifier,
		validator:       validator,
		links:           newLinks(cfg),
		adminEmail:      cfg.AdminEmail,
		registrationTTL: cfg.RegistrationTTL,
		now:             time.Now,
		logger:          logger,
	}
}

// CreateUser validates the credentials against the password policy, hashes
// the password and stores the account with an empty registration record.
//
// Returns store.ErrDuplicateEmail if the email is taken.
func (s *registrationService) CreateUser(ctx context.Context, email, password string) (models.Account, error) {
	log := logger.FromContext(ctx)

	creds := models.Credentials{Email: models.NormalizeEmail(email), Password: password}
	if err := s.validator.Validate(ctx, creds); err != nil {
		return models.Account{}, validationError(err)
	}

	digest, err := s.hasher.Hash(creds.Password)
	if err != nil {
		log.Err(err).Msg("error hashing password")
		return models.Account{}, fmt.Errorf("error hashing password: %w", err)
	}

	account, err := s.accounts.Create(ctx, models.Account{
		Email:          creds.Email,
		PasswordDigest: digest,
		Role:           models.RoleUser,
	})
	if err != nil {
		if !errors.Is(err, store.ErrDuplicateEmail) {
			log.Err(err).Str("email", creds.Email).Msg("account creation ended with error")
		}
		return models.Account{}, fmt.Errorf("account creation ended with error: %w", err)
	}

	return account, nil
}

func (s *registrationService) CheckWhitelist(ctx context.Context, email string) (bool, error) {
	return s.whitelist.IsWhitelisted(ctx, models.NormalizeEmail(email))
}

// RegisterUser moves account to pending with a fresh registration token.
// An already pending account gets its token rotated.
func (s *registrationService) RegisterUser(ctx context.Context, account models.Account) (models.Account, models.Token, error) {
	log := logger.FromContext(ctx)

	switch {
	case account.Registration.Registered:
		return models.Account{}, models.Token{}, ErrAlreadyRegistered
	case account.Registration.Status == models.RegistrationStatusDenied:
		return models.Account{}, models.Token{}, ErrRegistrationDenied
	}

	token, err := s.tokens.IssueRegistrationToken(account)
	if err != nil {
		log.Err(err).Str("email", account.Email).Msg("error issuing registration token")
		return models.Account{}, models.Token{}, err
	}

	updated, err := s.accounts.UpdateFields(ctx,
		models.AccountSelector{
			ID:         account.ID,
			Status:     models.Ptr(account.Registration.Status),
			Registered: models.Ptr(false),
		},
		models.AccountUpdate{
			RegistrationToken:  models.Ptr(token.SignedString),
			RegistrationStatus: models.Ptr(models.RegistrationStatusPending),
		},
	)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			log.Warn().Str("email", account.Email).Msg("registration state changed concurrently")
			return models.Account{}, models.Token{}, fmt.Errorf("%w: %w", ErrConcurrentUpdate, err)
		}
		log.Err(err).Str("email", account.Email).Msg("error storing registration token")
		return models.Account{}, models.Token{}, fmt.Errorf("error storing registration token: %w", err)
	}

	vars := s.links.vars(updated.Email)
	vars["Link"] = s.links.confirmRegistration(token.SignedString)
	vars["ExpiresIn"] = expiresIn(s.registrationTTL)
	s.notifier.Send(ctx, updated.Email, models.MailRegistrationConfirmation, vars)

	return updated, token, nil
}

// Register creates the account and then either mails the confirmation link
// right away (whitelisted) or queues the account for admin review.
//
// A failing whitelist lookup is logged and treated as "not whitelisted":
// the account still exists and an admin can approve it.
func (s *registrationService) Register(ctx context.Context, credentials models.Credentials) (models.RegistrationResult, error) {
	log := logger.FromContext(ctx)

	account, err := s.CreateUser(ctx, credentials.Email, credentials.Password)
	if err != nil {
		return models.RegistrationResult{}, err
	}

	whitelisted, err := s.CheckWhitelist(ctx, account.Email)
	if err != nil {
		log.Err(err).Str("email", account.Email).Msg("whitelist lookup failed, falling back to admin review")
		whitelisted = false
	}

	if whitelisted {
		updated, token, err := s.RegisterUser(ctx, account)
		if err != nil {
			return models.RegistrationResult{}, err
		}
		return models.RegistrationResult{Account: updated, Whitelisted: true, Token: token}, nil
	}

	s.notifier.Send(ctx, account.Email, models.MailRegistrationPending, s.links.vars(account.Email))

	if s.adminEmail == "" {
		log.Warn().Str("email", account.Email).Msg("admin email is not configured, registration request not forwarded")
	} else {
		vars := s.links.vars(account.Email)
		vars["AdminURL"] = s.links.adminLogin()
		s.notifier.Send(ctx, s.adminEmail, models.MailRegistrationAdminNotice, vars)
	}

	return models.RegistrationResult{Account: account}, nil
}

// RegisterApprove is idempotent for registered accounts: it reports
// AlreadyRegistered and mints nothing.
func (s *registrationService) RegisterApprove(ctx context.Context, email string) (models.ApprovalResult, error) {
	account, err := s.findForAdmin(ctx, email)
	if err != nil {
		return models.ApprovalResult{}, err
	}

	if account.Registration.Registered {
		return models.ApprovalResult{Account: account, AlreadyRegistered: true}, nil
	}

	updated, token, err := s.RegisterUser(ctx, account)
	if err != nil {
		return models.ApprovalResult{}, err
	}

	return models.ApprovalResult{Account: updated, Token: token}, nil
}

func (s *registrationService) RegisterDeny(ctx context.Context, email string) (models.Account, error) {
	log := logger.FromContext(ctx)

	account, err := s.findForAdmin(ctx, email)
	if err != nil {
		return models.Account{}, err
	}
	if account.Registration.Registered {
		return models.Account{}, ErrAlreadyRegistered
	}

	updated, err := s.accounts.UpdateFields(ctx,
		models.AccountSelector{ID: account.ID, Registered: models.Ptr(false)},
		models.AccountUpdate{
			RegistrationStatus: models.Ptr(models.RegistrationStatusDenied),
			RegistrationToken:  models.Ptr(""),
		},
	)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return models.Account{}, fmt.Errorf("%w: %w", ErrConcurrentUpdate, err)
		}
		log.Err(err).Str("email", account.Email).Msg("error denying registration")
		return models.Account{}, fmt.Errorf("error denying registration: %w", err)
	}

	return updated, nil
}

// ConfirmRegistration resolves the account by the token it stores and
// completes the registration in one conditional update. The token is
// cleared by the same statement, so it confirms at most once.
func (s *registrationService) ConfirmRegistration(ctx context.Context, token string) (models.Account, error) {
	log := logger.FromContext(ctx)

	if token == "" {
		return models.Account{}, ErrInvalidToken
	}

	claims, err := s.tokens.Verify(token, models.TokenTypeRegistration)
	if err != nil {
		log.Debug().Err(err).Msg("registration token rejected")
		return models.Account{}, err
	}

	now := s.now().UTC()
	account, err := s.accounts.UpdateFields(ctx,
		models.AccountSelector{
			ID:                claims.ID,
			RegistrationToken: token,
			Status:            models.Ptr(models.RegistrationStatusPending),
			Registered:        models.Ptr(false),
		},
		models.AccountUpdate{
			RegistrationStatus: models.Ptr(models.RegistrationStatusApproved),
			Registered:         models.Ptr(true),
			RegistrationDate:   &now,
			RegistrationToken:  models.Ptr(""),
		},
	)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			log.Debug().Str("id", claims.ID).Msg("registration token is not outstanding")
			return models.Account{}, ErrInvalidToken
		}
		log.Err(err).Str("id", claims.ID).Msg("error confirming registration")
		return models.Account{}, fmt.Errorf("error confirming registration: %w", err)
	}

	s.notifier.Send(ctx, account.Email, models.MailRegistrationComplete, s.links.vars(account.Email))

	return account, nil
}

// CheckUserRegistration is read-only. It returns store.ErrAccountNotFound
// for unknown emails.
func (s *registrationService) CheckUserRegistration(ctx context.Context, email string) (bool, error) {
	account, err := s.accounts.FindByEmail(ctx, models.NormalizeEmail(email), false)
	if err != nil {
		return false, err
	}
	return account.Registration.Registered, nil
}

func (s *registrationService) findForAdmin(ctx context.Context, email string) (models.Account, error) {
	req := models.EmailRequest{Email: models.NormalizeEmail(email)}
	if err := s.validator.Validate(ctx, req); err != nil {
		return models.Account{}, validationError(err)
	}

	account, err := s.accounts.FindByEmail(ctx, req.Email, false)
	if err != nil {
		return models.Account{}, err
	}
	if account.IsArchived() {
		return models.Account{}, store.ErrAccountNotFound
	}
	return account, nil
}
