package service

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/oni-auth/internal/app"
	"github.com/MKhiriev/oni-auth/internal/config"
	"github.com/MKhiriev/oni-auth/models"
)

// links builds the URLs and common variables embedded into outgoing mail.
type links struct {
	backendURL  string
	frontendURL string
	loginURL    string
}

func newLinks(cfg config.App) links {
	return links{
		backendURL:  strings.TrimRight(cfg.BackendURL, "/"),
		frontendURL: strings.TrimRight(cfg.FrontendURL, "/"),
		loginURL:    cfg.LoginURL,
	}
}

func (l links) confirmRegistration(token string) string {
	return l.backendURL + app.APIBasePath + "/register/confirm?token=" + url.QueryEscape(token)
}

func (l links) resetPassword(token string) string {
	return l.backendURL + app.APIBasePath + "/resetpassword?token=" + url.QueryEscape(token)
}

func (l links) adminLogin() string {
	return l.frontendURL + "/admin/login"
}

// supportEmail is support@<frontend host>, empty when the frontend URL is
// not configured.
func (l links) supportEmail() string {
	u, err := url.Parse(l.frontendURL)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return "support@" + u.Hostname()
}

func (l links) vars(email string) models.MailVars {
	return models.MailVars{
		"Email":        email,
		"SupportEmail": l.supportEmail(),
		"LoginURL":     l.loginURL,
	}
}

// expiresIn renders a token lifetime for humans, e.g. "1 hour" or "10 minutes".
func expiresIn(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int(d/time.Hour), "hour")
	case d >= time.Minute:
		return plural(int(d/time.Minute), "minute")
	default:
		return plural(int(d/time.Second), "second")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.Itoa(n) + " " + unit + "s"
}
