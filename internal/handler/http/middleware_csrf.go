package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/oni-auth/internal/logger"
	"github.com/MKhiriev/oni-auth/internal/service"
	"github.com/MKhiriev/oni-auth/internal/utils"
	"github.com/MKhiriev/oni-auth/models"
)

// csrfIssue makes sure the request carries an anti-forgery context. A valid
// unexpired context from the cookie is reused; otherwise a fresh one is
// issued and set as the _csrf cookie. Either way the token is put into the
// request context for the handler to hand out.
func (h *Handler) csrfIssue(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		csrfService := h.services.CSRFService

		csrf, err := h.csrfFromCookie(r)
		if err != nil || csrf.Expired(h.now()) {
			csrf, err = csrfService.Issue()
			if err != nil {
				writeError(w, r, err)
				return
			}

			value, err := csrfService.Encode(csrf)
			if err != nil {
				writeError(w, r, err)
				return
			}
			http.SetCookie(w, h.csrfCookie(value, csrf.Expires))
			logger.FromRequest(r).Debug().Msg("csrf token issued")
		}

		next.ServeHTTP(w, r.WithContext(utils.WithCSRFToken(r.Context(), csrf.Token)))
	})
}

// csrfCheck rejects the request with 403 unless the X-CSRF-Token header
// equals the token of an unexpired _csrf cookie. An expired cookie is
// cleared.
func (h *Handler) csrfCheck(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		csrf, err := h.csrfFromCookie(r)
		if err != nil {
			logger.FromRequest(r).Debug().Err(err).Msg("csrf cookie rejected")
			csrf = models.CSRFContext{}
		}

		if err = h.services.CSRFService.Check(csrf, r.Header.Get(csrfHeaderName)); err != nil {
			if errors.Is(err, service.ErrCSRFTokenExpired) {
				c := h.csrfCookie("", csrf.Expires)
				expire(c)
				http.SetCookie(w, c)
			}
			writeError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(utils.WithCSRFToken(r.Context(), csrf.Token)))
	})
}

func (h *Handler) csrfFromCookie(r *http.Request) (models.CSRFContext, error) {
	cookie, err := r.Cookie(csrfCookieName)
	if err != nil {
		return models.CSRFContext{}, err
	}
	return h.services.CSRFService.Decode(cookie.Value)
}
