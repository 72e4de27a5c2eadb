package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MKhiriev/oni-auth/internal/config"
	"github.com/MKhiriev/oni-auth/internal/utils"
	"github.com/MKhiriev/oni-auth/models"
)

// tokenService is the concrete implementation of TokenService.
//
// All state is read-only after construction, so one instance is shared by
// every request.
type tokenService struct {
	issuer string

	// privateKey signs session tokens only.
	privateKey string

	// publicKey signs public tokens and every token that is put into a link.
	publicKey string

	sessionTTL      time.Duration
	registrationTTL time.Duration
	resetTTL        time.Duration

	now func() time.Time
}

// NewTokenService constructs a TokenService from the application config.
func NewTokenService(cfg config.App) TokenService {
	return &tokenService{
		issuer:          cfg.TokenIssuer,
		privateKey:      cfg.PrivateSignKey,
		publicKey:       cfg.PublicSignKey,
		sessionTTL:      cfg.SessionTTL,
		registrationTTL: cfg.RegistrationTTL,
		resetTTL:        cfg.ResetTTL,
		now:             time.Now,
	}
}

// IssueSessionToken mints the server-only session credential.
func (s *tokenService) IssueSessionToken(account models.Account) (models.Token, error) {
	return s.issue(s.claims(account, models.TokenTypeSession), s.privateKey, s.sessionTTL)
}

// IssuePublicToken mints the client-readable token. It additionally carries
// the role and the registered flag for UI state.
func (s *tokenService) IssuePublicToken(account models.Account) (models.Token, error) {
	claims := s.claims(account, models.TokenTypePublic)
	claims.Role = account.Role
	registered := account.Registration.Registered
	claims.Registered = &registered

	return s.issue(claims, s.publicKey, s.sessionTTL)
}

func (s *tokenService) IssueRegistrationToken(account models.Account) (models.Token, error) {
	return s.issue(s.claims(account, models.TokenTypeRegistration), s.publicKey, s.registrationTTL)
}

func (s *tokenService) IssueResetToken(account models.Account) (models.Token, error) {
	return s.issue(s.claims(account, models.TokenTypeResetPassword), s.publicKey, s.resetTTL)
}

// Verify picks the key from tokenType, so a token signed with the public key
// never verifies as a session token.
func (s *tokenService) Verify(tokenString string, tokenType models.TokenType) (*models.Claims, error) {
	key := s.publicKey
	if tokenType == models.TokenTypeSession {
		key = s.privateKey
	}

	claims := &models.Claims{}
	if err := utils.ParseClaims(tokenString, claims, key, s.issuer, s.now); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.Type != tokenType {
		return nil, fmt.Errorf("%w: unexpected token type %q", ErrInvalidToken, claims.Type)
	}
	if claims.ID == "" || claims.Email == "" {
		return nil, fmt.Errorf("%w: missing identity claims", ErrInvalidToken)
	}

	return claims, nil
}

func (s *tokenService) claims(account models.Account, tokenType models.TokenType) *models.Claims {
	return &models.Claims{
		ID:    account.ID,
		Email: account.Email,
		Type:  tokenType,
	}
}

func (s *tokenService) issue(claims *models.Claims, key string, ttl time.Duration) (models.Token, error) {
	now := s.now()
	expires := now.Add(ttl)

	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   claims.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}

	signed, err := utils.SignClaims(claims, key)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreation, err)
	}

	return models.Token{
		Claims:       claims,
		SignedString: signed,
		ExpiresAt:    claims.ExpiresAt.Time,
	}, nil
}
