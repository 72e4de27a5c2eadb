package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/oni-auth/internal/logger"
	"github.com/MKhiriev/oni-auth/internal/service"
	"github.com/MKhiriev/oni-auth/internal/utils"
)

// session is an HTTP middleware that enforces session authentication.
//
// The session token is read from the session cookie or, for non-browser
// clients, from an "Authorization: Bearer" header. The account is re-read
// from the store on every request, so the role used by later stages is never
// taken from a token claim. On success the account is stored in the request
// context under [utils.AccountCtxKey] and the request logger is tagged with
// the account email.
//
// Requests without a valid session get 401 and the session cookies are
// cleared.
func (h *Handler) session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, err := sessionTokenFromRequest(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		ctx := r.Context()
		account, err := h.services.AuthService.Authenticate(ctx, tokenString)
		if err != nil {
			if statusFromError(err) == http.StatusUnauthorized {
				h.clearSessionCookies(w)
				writeError(w, r, service.ErrNotAuthenticated)
				return
			}
			writeError(w, r, err)
			return
		}

		log := logger.FromContext(ctx).WithAccount(account.Email)
		ctx = log.WithContext(utils.WithAccount(ctx, account))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// adminOnly must run behind session.
func (h *Handler) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account, ok := utils.GetAccountFromContext(r.Context())
		if !ok {
			writeError(w, r, ErrNoAccountInContext)
			return
		}
		if !account.IsAdmin() {
			logger.FromRequest(r).Warn().Msg("admin route reached by non-admin account")
			writeError(w, r, service.ErrNotAdmin)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func sessionTokenFromRequest(r *http.Request) (string, error) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	if header := r.Header.Get("Authorization"); header != "" {
		token, err := utils.ParseBearerToken(header)
		if err != nil {
			return "", errors.Join(ErrNoSessionToken, err)
		}
		return token, nil
	}

	return "", ErrNoSessionToken
}
