package http

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"time"

	"github.com/MKhiriev/oni-auth/internal/app"
	"github.com/MKhiriev/oni-auth/internal/logger"
	"github.com/MKhiriev/oni-auth/internal/social"
	"github.com/MKhiriev/oni-auth/internal/utils"
	"github.com/MKhiriev/oni-auth/models"
)

const (
	oauthStateCookieName = "_oauth_state"
	oauthStateTTL        = 10 * time.Minute
)

// externalSignIn starts the provider's authorization code flow. The state is
// kept in a cookie scoped to the callback so the callback can tell its own
// sign-ins from forged ones.
func (h *Handler) externalSignIn(w http.ResponseWriter, r *http.Request) {
	if h.social == nil {
		notFound(w, r)
		return
	}

	state, err := utils.RandomHex(32)
	if err != nil {
		writeError(w, r, err)
		return
	}

	http.SetCookie(w, h.oauthStateCookie(state, h.now().Add(oauthStateTTL)))
	http.Redirect(w, r, h.social.AuthCodeURL(state), http.StatusFound)
}

// externalSignInCallback finishes the flow: it resolves the provider's
// identity to an account and establishes a session for it. With a frontend
// URL configured the browser is sent there, otherwise the session is
// reported as JSON.
func (h *Handler) externalSignInCallback(w http.ResponseWriter, r *http.Request) {
	if h.social == nil {
		notFound(w, r)
		return
	}

	ctx := r.Context()
	log := logger.FromRequest(r)
	query := r.URL.Query()

	// the state is single use
	stale := h.oauthStateCookie("", time.Time{})
	expire(stale)
	http.SetCookie(w, stale)

	cookie, err := r.Cookie(oauthStateCookieName)
	if err != nil || cookie.Value == "" ||
		subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(query.Get("state"))) != 1 {
		writeError(w, r, ErrInvalidOAuthState)
		return
	}

	if reason := query.Get("error"); reason != "" {
		writeError(w, r, fmt.Errorf("%w: provider answered %q", social.ErrExchange, reason))
		return
	}
	code := query.Get("code")
	if code == "" {
		writeError(w, r, ErrMissingAuthCode)
		return
	}

	profile, err := h.social.Exchange(ctx, code)
	if err != nil {
		recordAuthEvent(h.social.Name(), err)
		writeError(w, r, err)
		return
	}
	if !profile.EmailVerified {
		recordAuthEvent(h.social.Name(), ErrUnverifiedEmail)
		writeError(w, r, ErrUnverifiedEmail)
		return
	}

	account, err := h.services.AuthService.ResolveExternalAccount(ctx, profile.Subject, profile.Email)
	recordAuthEvent(h.social.Name(), err)
	if err != nil {
		writeError(w, r, err)
		return
	}

	log.Info().Str("email", account.Email).Str("provider", h.social.Name()).Msg("account signed in with identity provider")
	h.establishSession(w, r, account, http.StatusOK, models.Payload{
		"email":      account.Email,
		"registered": account.Registration.Registered,
	}, h.app.FrontendURL)
}

// oauthStateCookie survives the top-level redirect back from the provider,
// hence Lax.
func (h *Handler) oauthStateCookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     oauthStateCookieName,
		Value:    value,
		Path:     app.APIBasePath + "/google",
		Expires:  expires,
		MaxAge:   maxAge(expires),
		HttpOnly: true,
		Secure:   h.app.Production,
		SameSite: http.SameSiteLaxMode,
	}
}
