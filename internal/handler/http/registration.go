package http

import (
	"net/http"

	"github.com/MKhiriev/oni-auth/internal/app"
	"github.com/MKhiriev/oni-auth/internal/logger"
	"github.com/MKhiriev/oni-auth/internal/utils"
	"github.com/MKhiriev/oni-auth/models"
)

// register creates the account. The registration token is echoed back only
// outside production, for manual testing without a mailbox.
func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := utils.DecodeJSON(r, &creds); err != nil {
		logger.FromRequest(r).Debug().Err(err).Msg("invalid register body")
		utils.WriteError(w, app.MsgMissingCredentials, http.StatusBadRequest)
		return
	}
	if creds.Email == "" || creds.Password == "" {
		utils.WriteError(w, app.MsgMissingCredentials, http.StatusBadRequest)
		return
	}

	result, err := h.services.RegistrationService.Register(r.Context(), creds)
	recordAuthEvent("register", err)
	if err != nil {
		writeError(w, r, err)
		return
	}

	payload := models.Payload{
		"success":     true,
		"email":       result.Account.Email,
		"whitelisted": result.Whitelisted,
		"message":     app.MsgRegistrationReview,
	}
	if result.Whitelisted {
		payload["message"] = app.MsgRegistrationPending
	}
	h.withDebugToken(payload, result.Token)

	_, _ = utils.WriteJSON(w, payload, http.StatusCreated)
}

func (h *Handler) registerApprove(w http.ResponseWriter, r *http.Request) {
	var req models.EmailRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.services.RegistrationService.RegisterApprove(r.Context(), req.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}

	payload := models.Payload{
		"success": true,
		"email":   result.Account.Email,
		"message": app.MsgRegistrationApproved,
	}
	if result.AlreadyRegistered {
		payload["message"] = app.MsgAlreadyRegistered
	}
	h.withDebugToken(payload, result.Token)

	logger.FromRequest(r).Info().Str("email", result.Account.Email).
		Bool("already_registered", result.AlreadyRegistered).Msg("registration approved")

	_, _ = utils.WriteJSON(w, payload, http.StatusOK)
}

func (h *Handler) registerDeny(w http.ResponseWriter, r *http.Request) {
	var req models.EmailRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	account, err := h.services.RegistrationService.RegisterDeny(r.Context(), req.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}

	logger.FromRequest(r).Info().Str("email", account.Email).Msg("registration denied")

	_, _ = utils.WriteJSON(w, models.Payload{
		"success": true,
		"email":   account.Email,
		"message": app.MsgRegistrationDeniedOK,
	}, http.StatusOK)
}

// confirmRegistration is the target of the emailed link. It signs the user
// in and, when a login page is configured, sends the browser there.
func (h *Handler) confirmRegistration(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeError(w, r, ErrMissingToken)
		return
	}

	account, err := h.services.RegistrationService.ConfirmRegistration(r.Context(), token)
	recordAuthEvent("confirm_registration", err)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var redirect string
	if h.app.LoginURL != "" {
		redirect, err = withQueryFlag(h.app.LoginURL, "registered", "true")
		if err != nil {
			logger.FromRequest(r).Err(err).Str("login_url", h.app.LoginURL).Msg("invalid login url, answering with json")
			redirect = ""
		}
	}

	h.establishSession(w, r, account, http.StatusOK, models.Payload{
		"email":      account.Email,
		"registered": account.Registration.Registered,
	}, redirect)
}

func (h *Handler) withDebugToken(payload models.Payload, token models.Token) {
	if h.app.Production || token.SignedString == "" {
		return
	}
	payload["token"] = token.SignedString
}
