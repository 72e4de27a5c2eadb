package http

import (
	"net/http"

	"github.com/MKhiriev/oni-auth/internal/app"
	"github.com/MKhiriev/oni-auth/internal/logger"
	"github.com/MKhiriev/oni-auth/internal/utils"
	"github.com/MKhiriev/oni-auth/models"
)

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var creds models.Credentials
	if err := utils.DecodeJSON(r, &creds); err != nil {
		log.Debug().Err(err).Msg("invalid login body")
		utils.WriteError(w, app.MsgMissingCredentials, http.StatusBadRequest)
		return
	}
	if creds.Email == "" || creds.Password == "" {
		utils.WriteError(w, app.MsgMissingCredentials, http.StatusBadRequest)
		return
	}

	account, err := h.services.AuthService.Login(ctx, creds)
	recordAuthEvent("login", err)
	if err != nil {
		writeError(w, r, err)
		return
	}

	registered, err := h.services.RegistrationService.CheckUserRegistration(ctx, account.Email)
	if err != nil {
		log.Warn().Err(err).Str("email", account.Email).Msg("registration check failed, using the login record")
		registered = account.Registration.Registered
	}

	log.Info().Str("email", account.Email).Msg("account logged in")

	h.establishSession(w, r, account, http.StatusOK, models.Payload{
		"email":      account.Email,
		"registered": registered,
	}, "")
}

// logout always succeeds, whether or not a session existed.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookies(w)
	_, _ = utils.WriteJSON(w, models.Payload{"success": true, "message": app.MsgLoggedOut}, http.StatusOK)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	account, ok := utils.GetAccountFromContext(r.Context())
	if !ok {
		writeError(w, r, ErrNoAccountInContext)
		return
	}

	identity := h.services.AuthService.WhoAmI(account)
	_, _ = utils.WriteJSON(w, models.Payload{
		"success": true,
		"email":   identity.Email,
		"role":    identity.Role,
	}, http.StatusOK)
}

// refreshSession re-issues the session cookies and, when asked, redirects
// to a path on this origin.
func (h *Handler) refreshSession(w http.ResponseWriter, r *http.Request) {
	account, ok := utils.GetAccountFromContext(r.Context())
	if !ok {
		writeError(w, r, ErrNoAccountInContext)
		return
	}

	redirect, err := sameOriginPath(r.URL.Query().Get("redirect"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.establishSession(w, r, account, http.StatusOK, models.Payload{"email": account.Email}, redirect)
}

func (h *Handler) requestCSRFToken(w http.ResponseWriter, r *http.Request) {
	token, ok := utils.GetCSRFTokenFromContext(r.Context())
	if !ok {
		utils.WriteError(w, app.MsgInternalServerError, http.StatusInternalServerError)
		return
	}

	_, _ = utils.WriteJSON(w, models.Payload{"success": true, "csrf": token}, http.StatusOK)
}
