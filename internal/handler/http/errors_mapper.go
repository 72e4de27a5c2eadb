package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/oni-auth/internal/app"
	"github.com/MKhiriev/oni-auth/internal/logger"
	"github.com/MKhiriev/oni-auth/internal/service"
	"github.com/MKhiriev/oni-auth/internal/social"
	"github.com/MKhiriev/oni-auth/internal/store"
	"github.com/MKhiriev/oni-auth/internal/utils"
)

type errorResponse struct {
	target  error
	status  int
	message string
}

// errorResponses is ordered: a wrapped error may match several targets and
// the first one wins.
var errorResponses = []errorResponse{
	{service.ErrInvalidCredentials, http.StatusUnauthorized, app.MsgInvalidCredentials},
	{service.ErrInvalidToken, http.StatusUnauthorized, app.MsgInvalidToken},
	{service.ErrNotAuthenticated, http.StatusUnauthorized, app.MsgSessionExpired},
	{ErrNoSessionToken, http.StatusUnauthorized, app.MsgSessionExpired},
	{ErrNoAccountInContext, http.StatusUnauthorized, app.MsgSessionExpired},
	{social.ErrExchange, http.StatusUnauthorized, app.MsgExternalSignInFailed},
	{social.ErrUserInfo, http.StatusUnauthorized, app.MsgExternalSignInFailed},
	{ErrUnverifiedEmail, http.StatusUnauthorized, app.MsgExternalSignInFailed},

	{service.ErrInvalidCSRFToken, http.StatusForbidden, app.MsgInvalidCSRFToken},
	{service.ErrCSRFTokenExpired, http.StatusForbidden, app.MsgCSRFTokenExpired},
	{service.ErrNotAdmin, http.StatusForbidden, app.MsgNotAdmin},
	{ErrInvalidOAuthState, http.StatusForbidden, app.MsgInvalidSignInState},

	{service.ErrInvalidEmail, http.StatusBadRequest, app.MsgInvalidEmail},
	{service.ErrInvalidPassword, http.StatusBadRequest, app.MsgInvalidPassword},
	{service.ErrInvalidDataProvided, http.StatusBadRequest, app.MsgInvalidDataProvided},
	{utils.ErrEmptyBody, http.StatusBadRequest, app.MsgInvalidDataProvided},
	{ErrMissingToken, http.StatusBadRequest, app.MsgInvalidToken},
	{ErrInvalidRedirect, http.StatusBadRequest, app.MsgInvalidDataProvided},
	{ErrMissingAuthCode, http.StatusBadRequest, app.MsgInvalidDataProvided},

	{service.ErrConcurrentUpdate, http.StatusConflict, app.MsgConcurrentUpdate},
	{service.ErrAlreadyRegistered, http.StatusConflict, app.MsgAlreadyRegistered},
	{service.ErrRegistrationDenied, http.StatusConflict, app.MsgRegistrationDenied},
	{store.ErrDuplicateEmail, http.StatusConflict, app.MsgEmailAlreadyExists},
	{store.ErrDuplicateExternalID, http.StatusConflict, app.MsgExternalIDAlreadyExists},

	{store.ErrAccountNotFound, http.StatusNotFound, app.MsgAccountNotFound},
}

// responseFromError maps err to a status code and a client-safe message.
// Anything unknown is an internal error whose details stay in the log.
func responseFromError(err error) (int, string) {
	for _, resp := range errorResponses {
		if errors.Is(err, resp.target) {
			return resp.status, resp.message
		}
	}
	return http.StatusInternalServerError, app.MsgInternalServerError
}

func statusFromError(err error) int {
	status, _ := responseFromError(err)
	return status
}

// writeError logs err and writes the uniform failure body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)

	status, message := responseFromError(err)
	if status >= http.StatusInternalServerError {
		log.Err(err).Int("status", status).Msg("request failed")
	} else {
		log.Debug().Err(err).Int("status", status).Msg("request rejected")
	}

	utils.WriteError(w, message, status)
}
