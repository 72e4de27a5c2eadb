package social

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/MKhiriev/oni-auth/internal/config"
	"github.com/MKhiriev/oni-auth/internal/utils"
)

var googleScopes = []string{"openid", "email", "profile"}

// GoogleProvider signs users in with Google.
type GoogleProvider struct {
	cfg         config.OAuth
	callbackURL string
	client      *utils.HTTPClient
}

// NewGoogleProvider returns a provider whose redirect_uri is callbackURL,
// which must match one registered for the Google client.
func NewGoogleProvider(cfg config.OAuth, callbackURL string) *GoogleProvider {
	return &GoogleProvider{
		cfg:         cfg,
		callbackURL: callbackURL,
		client:      utils.NewHTTPClient("", cfg.Timeout),
	}
}

func (p *GoogleProvider) Name() string {
	return "google"
}

func (p *GoogleProvider) AuthCodeURL(state string) string {
	params := url.Values{
		"client_id":     {p.cfg.GoogleClientID},
		"redirect_uri":  {p.callbackURL},
		"response_type": {"code"},
		"scope":         {strings.Join(googleScopes, " ")},
		"state":         {state},
		"prompt":        {"select_account"},
	}
	return p.cfg.GoogleAuthURL + "?" + params.Encode()
}

type googleToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type googleError struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
}

type googleUserInfo struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

func (p *GoogleProvider) Exchange(ctx context.Context, code string) (Profile, error) {
	var (
		token   googleToken
		failure googleError
	)

	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetFormData(map[string]string{
			"client_id":     p.cfg.GoogleClientID,
			"client_secret": p.cfg.GoogleClientSecret,
			"code":          code,
			"redirect_uri":  p.callbackURL,
			"grant_type":    "authorization_code",
		}).
		SetResult(&token).
		SetError(&failure).
		Post(p.cfg.GoogleTokenURL)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %w", ErrExchange, err)
	}
	if resp.IsError() || token.AccessToken == "" {
		return Profile{}, fmt.Errorf("%w: status %d: %s %s", ErrExchange, resp.StatusCode(), failure.Error, failure.Description)
	}

	var info googleUserInfo
	resp, err = p.client.R().
		SetContext(ctx).
		SetAuthToken(token.AccessToken).
		SetResult(&info).
		Get(p.cfg.GoogleUserInfoURL)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %w", ErrUserInfo, err)
	}
	if resp.IsError() {
		return Profile{}, fmt.Errorf("%w: status %d", ErrUserInfo, resp.StatusCode())
	}
	if info.Subject == "" || info.Email == "" {
		return Profile{}, fmt.Errorf("%w: profile has no id or email", ErrUserInfo)
	}

	return Profile{
		Subject:       info.Subject,
		Email:         info.Email,
		EmailVerified: info.EmailVerified,
	}, nil
}
