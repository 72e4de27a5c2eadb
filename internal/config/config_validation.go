// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

var emailAddress = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup. Each group failure is
// wrapped in its own sentinel so callers can tell which section is broken.
func (cfg *StructuredConfig) validate() error {
	if err := cfg.App.validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAppConfigs, err)
	}

	if err := validation.ValidateStruct(&cfg.Storage.DB,
		validation.Field(&cfg.Storage.DB.DSN, validation.Required),
	); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidStorageConfigs, err)
	}

	if err := validation.ValidateStruct(&cfg.Server,
		validation.Field(&cfg.Server.HTTPAddress, validation.Required),
		validation.Field(&cfg.Server.RequestTimeout, validation.Required),
		validation.Field(&cfg.Server.AllowedOrigins, validation.By(eachURL)),
	); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidServerConfigs, err)
	}

	if err := cfg.Mail.validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMailConfigs, err)
	}

	if err := validation.ValidateStruct(&cfg.Workers,
		validation.Field(&cfg.Workers.MailQueueSize, validation.Required, validation.Min(1)),
		validation.Field(&cfg.Workers.MailWorkers, validation.Required, validation.Min(1)),
	); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidWorkerConfigs, err)
	}

	if err := cfg.OAuth.validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOAuthConfigs, err)
	}

	return nil
}

func (a *App) validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.TokenIssuer, validation.Required),
		validation.Field(&a.PrivateSignKey, validation.Required, validation.Length(16, 0)),
		validation.Field(&a.PublicSignKey, validation.Required, validation.Length(16, 0),
			validation.By(differentFrom(a.PrivateSignKey))),
		validation.Field(&a.SessionTTL, validation.Required),
		validation.Field(&a.RegistrationTTL, validation.Required, validation.By(shorterThan(a.SessionTTL))),
		validation.Field(&a.ResetTTL, validation.Required),
		validation.Field(&a.CSRFTTL, validation.Required),
		validation.Field(&a.CookieSigningKey, validation.Required, validation.Length(16, 0)),
		validation.Field(&a.PasswordMinLength, validation.Required, validation.Min(1)),
		validation.Field(&a.FrontendURL, is.URL),
		validation.Field(&a.BackendURL, validation.Required, is.URL),
		validation.Field(&a.LoginURL, is.URL),
		validation.Field(&a.AdminEmail, validation.Match(emailAddress)),
	)
}

func (m *Mail) validate() error {
	return validation.ValidateStruct(m,
		validation.Field(&m.Driver, validation.Required, validation.In(MailDriverSMTP, MailDriverPostmark, MailDriverLog)),
		validation.Field(&m.From, validation.Required, validation.Match(emailAddress)),
		validation.Field(&m.SMTPHost, validation.By(requiredFor(m.Driver, MailDriverSMTP))),
		validation.Field(&m.SMTPPort, validation.By(requiredFor(m.Driver, MailDriverSMTP))),
		validation.Field(&m.PostmarkToken, validation.By(requiredFor(m.Driver, MailDriverPostmark))),
		validation.Field(&m.PostmarkURL, is.URL),
		validation.Field(&m.Timeout, validation.Required),
	)
}

func (o *OAuth) validate() error {
	if !o.GoogleEnabled() {
		return nil
	}
	return validation.ValidateStruct(o,
		validation.Field(&o.GoogleClientSecret, validation.Required),
		validation.Field(&o.GoogleAuthURL, validation.Required, is.URL),
		validation.Field(&o.GoogleTokenURL, validation.Required, is.URL),
		validation.Field(&o.GoogleUserInfoURL, validation.Required, is.URL),
		validation.Field(&o.Timeout, validation.Required),
	)
}

func differentFrom(other string) validation.RuleFunc {
	return func(value interface{}) error {
		if s, _ := value.(string); s != "" && s == other {
			return errors.New("must differ from the private sign key")
		}
		return nil
	}
}

func shorterThan(limit time.Duration) validation.RuleFunc {
	return func(value interface{}) error {
		if d, _ := value.(time.Duration); d >= limit {
			return fmt.Errorf("must be shorter than %s", limit)
		}
		return nil
	}
}

func eachURL(value interface{}) error {
	origins, _ := value.([]string)
	for _, origin := range origins {
		if err := is.URL.Validate(origin); err != nil {
			return fmt.Errorf("%q: %w", origin, err)
		}
	}
	return nil
}

func requiredFor(driver, wanted string) validation.RuleFunc {
	return func(value interface{}) error {
		if driver != wanted {
			return nil
		}
		return validation.Validate(value, validation.Required)
	}
}
