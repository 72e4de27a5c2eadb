package service

import (
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/oni-auth/internal/config"
	"github.com/MKhiriev/oni-auth/internal/utils"
	"github.com/MKhiriev/oni-auth/models"
)

const csrfTokenBytes = 32

// csrfService implements the double-submit anti-forgery check. The cookie
// holds {token, expires} signed with the cookie key, so a client cannot
// extend the expiry or plant a context of its own.
type csrfService struct {
	ttl        time.Duration
	signingKey string
	now        func() time.Time
}

func NewCSRFService(cfg config.App) CSRFService {
	return &csrfService{
		ttl:        cfg.CSRFTTL,
		signingKey: cfg.CookieSigningKey,
		now:        time.Now,
	}
}

// Issue creates a fresh context with a random 32-byte hex token.
func (s *csrfService) Issue() (models.CSRFContext, error) {
	token, err := utils.RandomHex(csrfTokenBytes)
	if err != nil {
		return models.CSRFContext{}, err
	}
	return models.CSRFContext{Token: token, Expires: s.now().Add(s.ttl).UTC()}, nil
}

// Check passes only when headerToken equals the context token and the
// context has not expired. The token comparison runs first and in constant
// time.
func (s *csrfService) Check(csrf models.CSRFContext, headerToken string) error {
	if csrf.Token == "" || headerToken == "" ||
		subtle.ConstantTimeCompare([]byte(csrf.Token), []byte(headerToken)) != 1 {
		return ErrInvalidCSRFToken
	}
	if csrf.Expired(s.now()) {
		return ErrCSRFTokenExpired
	}
	return nil
}

// Encode returns the cookie value: base64url(json) "." hmac.
func (s *csrfService) Encode(csrf models.CSRFContext) (string, error) {
	raw, err := json.Marshal(csrf)
	if err != nil {
		return "", fmt.Errorf("error encoding csrf context: %w", err)
	}
	payload := base64.RawURLEncoding.EncodeToString(raw)
	return payload + "." + utils.HashString(payload, s.signingKey), nil
}

// Decode parses and authenticates a cookie value produced by Encode.
func (s *csrfService) Decode(cookieValue string) (models.CSRFContext, error) {
	payload, signature, ok := strings.Cut(cookieValue, ".")
	if !ok || !utils.ValidHash(payload, signature, s.signingKey) {
		return models.CSRFContext{}, ErrInvalidCSRFToken
	}

	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return models.CSRFContext{}, fmt.Errorf("%w: %w", ErrInvalidCSRFToken, err)
	}

	var csrf models.CSRFContext
	if err = json.Unmarshal(raw, &csrf); err != nil {
		return models.CSRFContext{}, fmt.Errorf("%w: %w", ErrInvalidCSRFToken, err)
	}
	if csrf.Token == "" {
		return models.CSRFContext{}, ErrInvalidCSRFToken
	}
	return csrf, nil
}
