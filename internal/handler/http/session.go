package http

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MKhiriev/oni-auth/internal/utils"
	"github.com/MKhiriev/oni-auth/models"
)

const (
	// sessionCookieName carries the session token. It is never readable
	// from scripts.
	sessionCookieName = "oni-token"

	// publicCookieName carries the public token the browser application
	// reads for UI state.
	publicCookieName = "oni-public-token"

	csrfCookieName = "_csrf"
	csrfHeaderName = "X-CSRF-Token"
)

// establishSession issues the session and public tokens, attaches them as
// cookies and then either redirects to redirect or writes payload merged
// with {"success": true}. Exactly one of the two happens.
func (h *Handler) establishSession(w http.ResponseWriter, r *http.Request, account models.Account, status int, payload models.Payload, redirect string) {
	tokens := h.services.TokenService

	session, err := tokens.IssueSessionToken(account)
	if err != nil {
		writeError(w, r, err)
		return
	}
	public, err := tokens.IssuePublicToken(account)
	if err != nil {
		writeError(w, r, err)
		return
	}

	http.SetCookie(w, h.sessionCookie(session))
	http.SetCookie(w, h.publicCookie(public))

	if redirect != "" {
		http.Redirect(w, r, redirect, http.StatusFound)
		return
	}

	body := models.Payload{}
	for k, v := range payload {
		body[k] = v
	}
	body["success"] = true

	_, _ = utils.WriteJSON(w, body, status)
}

func (h *Handler) sessionCookie(token models.Token) *http.Cookie {
	return &http.Cookie{
		Name:     sessionCookieName,
		Value:    token.SignedString,
		Path:     "/",
		Expires:  token.ExpiresAt,
		MaxAge:   maxAge(token.ExpiresAt),
		HttpOnly: true,
		Secure:   h.app.Production,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *Handler) publicCookie(token models.Token) *http.Cookie {
	return &http.Cookie{
		Name:     publicCookieName,
		Value:    token.SignedString,
		Path:     "/",
		Domain:   h.app.CookieDomain,
		Expires:  token.ExpiresAt,
		MaxAge:   maxAge(token.ExpiresAt),
		Secure:   h.app.Production,
		SameSite: http.SameSiteStrictMode,
	}
}

func (h *Handler) csrfCookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     csrfCookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		MaxAge:   maxAge(expires),
		HttpOnly: true,
		Secure:   h.app.Production,
		SameSite: http.SameSiteStrictMode,
	}
}

// clearSessionCookies overwrites every session related cookie with an empty,
// already expired one.
func (h *Handler) clearSessionCookies(w http.ResponseWriter) {
	for _, c := range []*http.Cookie{
		h.sessionCookie(models.Token{}),
		h.publicCookie(models.Token{}),
		h.csrfCookie("", time.Time{}),
	} {
		expire(c)
		http.SetCookie(w, c)
	}
}

func expire(c *http.Cookie) {
	c.Value = ""
	c.MaxAge = -1
	c.Expires = time.Unix(1, 0)
}

// maxAge is the cookie lifetime in whole seconds, at least one.
func maxAge(expires time.Time) int {
	seconds := int(time.Until(expires).Seconds())
	if seconds < 1 {
		return 1
	}
	return seconds
}

// sameOriginPath accepts only absolute paths on this origin, so a redirect
// parameter cannot send the browser elsewhere.
func sameOriginPath(target string) (string, error) {
	if target == "" {
		return "", nil
	}
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.Contains(target, `\`) {
		return "", ErrInvalidRedirect
	}

	u, err := url.Parse(target)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "", ErrInvalidRedirect
	}
	return u.String(), nil
}

// withQueryFlag returns base with key=value added to its query string.
func withQueryFlag(base, key, value string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
