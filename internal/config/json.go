package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] in the layout of the JSON
// config file. Durations accept strings such as "1h" or "30s".
type StructuredJSONConfig struct {
	App struct {
		TokenIssuer       string   `json:"token_issuer"`
		PrivateSignKey    string   `json:"private_sign_key"`
		PublicSignKey     string   `json:"public_sign_key"`
		SessionTTL        Duration `json:"session_ttl"`
		RegistrationTTL   Duration `json:"registration_ttl"`
		ResetTTL          Duration `json:"reset_ttl"`
		CSRFTTL           Duration `json:"csrf_ttl"`
		CookieSigningKey  string   `json:"cookie_signing_key"`
		CookieDomain      string   `json:"cookie_domain"`
		Production        bool     `json:"production"`
		PasswordMinLength int      `json:"password_min_length"`
		FrontendURL       string   `json:"frontend_url"`
		BackendURL        string   `json:"backend_url"`
		LoginURL          string   `json:"login_url"`
		AdminEmail        string   `json:"admin_email"`
		Version           string   `json:"version"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Redis struct {
			URL          string   `json:"url"`
			WhitelistTTL Duration `json:"whitelist_ttl"`
		} `json:"redis,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
		AllowedOrigins []string `json:"allowed_origins"`
	} `json:"server,omitempty"`

	Mail struct {
		Driver        string   `json:"driver"`
		From          string   `json:"from"`
		SMTPHost      string   `json:"smtp_host"`
		SMTPPort      int      `json:"smtp_port"`
		SMTPUsername  string   `json:"smtp_username"`
		SMTPPassword  string   `json:"smtp_password"`
		PostmarkToken string   `json:"postmark_token"`
		PostmarkURL   string   `json:"postmark_url"`
		Timeout       Duration `json:"timeout"`
	} `json:"mail,omitempty"`

	Workers struct {
		MailQueueSize int `json:"mail_queue_size"`
		MailWorkers   int `json:"mail_workers"`
	} `json:"workers,omitempty"`

	OAuth struct {
		GoogleClientID     string   `json:"google_client_id"`
		GoogleClientSecret string   `json:"google_client_secret"`
		GoogleAuthURL      string   `json:"google_auth_url"`
		GoogleTokenURL     string   `json:"google_token_url"`
		GoogleUserInfoURL  string   `json:"google_userinfo_url"`
		Timeout            Duration `json:"timeout"`
	} `json:"oauth,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			TokenIssuer:       jsonCfg.App.TokenIssuer,
			PrivateSignKey:    jsonCfg.App.PrivateSignKey,
			PublicSignKey:     jsonCfg.App.PublicSignKey,
			SessionTTL:        time.Duration(jsonCfg.App.SessionTTL),
			RegistrationTTL:   time.Duration(jsonCfg.App.RegistrationTTL),
			ResetTTL:          time.Duration(jsonCfg.App.ResetTTL),
			CSRFTTL:           time.Duration(jsonCfg.App.CSRFTTL),
			CookieSigningKey:  jsonCfg.App.CookieSigningKey,
			CookieDomain:      jsonCfg.App.CookieDomain,
			Production:        jsonCfg.App.Production,
			PasswordMinLength: jsonCfg.App.PasswordMinLength,
			FrontendURL:       jsonCfg.App.FrontendURL,
			BackendURL:        jsonCfg.App.BackendURL,
			LoginURL:          jsonCfg.App.LoginURL,
			AdminEmail:        jsonCfg.App.AdminEmail,
			Version:           jsonCfg.App.Version,
		},
		Storage: Storage{
			DB: DB{DSN: jsonCfg.Storage.DB.DSN},
			Redis: Redis{
				URL:          jsonCfg.Storage.Redis.URL,
				WhitelistTTL: time.Duration(jsonCfg.Storage.Redis.WhitelistTTL),
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
			AllowedOrigins: jsonCfg.Server.AllowedOrigins,
		},
		Mail: Mail{
			Driver:        jsonCfg.Mail.Driver,
			From:          jsonCfg.Mail.From,
			SMTPHost:      jsonCfg.Mail.SMTPHost,
			SMTPPort:      jsonCfg.Mail.SMTPPort,
			SMTPUsername:  jsonCfg.Mail.SMTPUsername,
			SMTPPassword:  jsonCfg.Mail.SMTPPassword,
			PostmarkToken: jsonCfg.Mail.PostmarkToken,
			PostmarkURL:   jsonCfg.Mail.PostmarkURL,
			Timeout:       time.Duration(jsonCfg.Mail.Timeout),
		},
		Workers: Workers{
			MailQueueSize: jsonCfg.Workers.MailQueueSize,
			MailWorkers:   jsonCfg.Workers.MailWorkers,
		},
		OAuth: OAuth{
			GoogleClientID:     jsonCfg.OAuth.GoogleClientID,
			GoogleClientSecret: jsonCfg.OAuth.GoogleClientSecret,
			GoogleAuthURL:      jsonCfg.OAuth.GoogleAuthURL,
			GoogleTokenURL:     jsonCfg.OAuth.GoogleTokenURL,
			GoogleUserInfoURL:  jsonCfg.OAuth.GoogleUserInfoURL,
			Timeout:            time.Duration(jsonCfg.OAuth.Timeout),
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
