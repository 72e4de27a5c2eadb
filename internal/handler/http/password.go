package http

import (
	"net/http"

	"github.com/MKhiriev/oni-auth/internal/app"
	"github.com/MKhiriev/oni-auth/internal/utils"
	"github.com/MKhiriev/oni-auth/models"
)

// forgotPassword answers the same way for known and unknown emails.
func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.EmailRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.services.PasswordService.RequestReset(r.Context(), req.Email); err != nil {
		writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, models.Payload{"success": true, "message": app.MsgResetEmailSent}, http.StatusOK)
}

// resetPassword consumes the emailed reset token and signs the user in, so
// the client can follow up with PUT /password.
func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeError(w, r, ErrMissingToken)
		return
	}

	account, err := h.services.PasswordService.ConfirmReset(r.Context(), token)
	recordAuthEvent("reset_password", err)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.establishSession(w, r, account, http.StatusOK, models.Payload{"email": account.Email}, "")
}

func (h *Handler) updatePassword(w http.ResponseWriter, r *http.Request) {
	account, ok := utils.GetAccountFromContext(r.Context())
	if !ok {
		writeError(w, r, ErrNoAccountInContext)
		return
	}

	var req models.PasswordRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if _, err := h.services.PasswordService.UpdatePassword(r.Context(), account, req.Password); err != nil {
		writeError(w, r, err)
		return
	}

	_, _ = utils.WriteJSON(w, models.Payload{"success": true, "message": app.MsgPasswordUpdated}, http.StatusOK)
}
