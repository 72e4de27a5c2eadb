package config

import "time"

// Default values used for anything no source has set.
const (
	DefaultHTTPAddress       = "localhost:8080"
	DefaultRequestTimeout    = 30 * time.Second
	DefaultTokenIssuer       = "oni-auth"
	DefaultSessionTTL        = 24 * time.Hour
	DefaultRegistrationTTL   = time.Hour
	DefaultResetTTL          = 10 * time.Minute
	DefaultCSRFTTL           = time.Minute
	DefaultPasswordMinLength = 6
	DefaultWhitelistTTL      = 5 * time.Minute
	DefaultMailDriver        = MailDriverLog
	DefaultMailFrom          = "oni-register@oni.com"
	DefaultMailTimeout       = 10 * time.Second
	DefaultMailQueueSize     = 64
	DefaultMailWorkers       = 2
	DefaultPostmarkURL       = "https://api.postmarkapp.com"
	DefaultOAuthTimeout      = 10 * time.Second
)

// Google OAuth 2.0 endpoints.
const (
	DefaultGoogleAuthURL     = "https://accounts.google.com/o/oauth2/v2/auth"
	DefaultGoogleTokenURL    = "https://oauth2.googleapis.com/token"
	DefaultGoogleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"
)

// Supported values of Mail.Driver.
const (
	MailDriverSMTP     = "smtp"
	MailDriverPostmark = "postmark"
	MailDriverLog      = "log"
)

func defaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer:       DefaultTokenIssuer,
			SessionTTL:        DefaultSessionTTL,
			RegistrationTTL:   DefaultRegistrationTTL,
			ResetTTL:          DefaultResetTTL,
			CSRFTTL:           DefaultCSRFTTL,
			PasswordMinLength: DefaultPasswordMinLength,
		},
		Storage: Storage{
			Redis: Redis{WhitelistTTL: DefaultWhitelistTTL},
		},
		Server: Server{
			HTTPAddress:    DefaultHTTPAddress,
			RequestTimeout: DefaultRequestTimeout,
		},
		Mail: Mail{
			Driver:      DefaultMailDriver,
			From:        DefaultMailFrom,
			PostmarkURL: DefaultPostmarkURL,
			Timeout:     DefaultMailTimeout,
		},
		Workers: Workers{
			MailQueueSize: DefaultMailQueueSize,
			MailWorkers:   DefaultMailWorkers,
		},
		OAuth: OAuth{
			GoogleAuthURL:     DefaultGoogleAuthURL,
			GoogleTokenURL:    DefaultGoogleTokenURL,
			GoogleUserInfoURL: DefaultGoogleUserInfoURL,
			Timeout:           DefaultOAuthTimeout,
		},
	}
}
