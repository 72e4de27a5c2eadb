package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/oni-auth/internal/app"
	"github.com/MKhiriev/oni-auth/internal/service"
	"github.com/MKhiriev/oni-auth/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestForgotPassword(t *testing.T) {
	h, mocks := newTestHandler(t, testAppConfig())
	mocks.password.EXPECT().RequestReset(gomock.Any(), "a@b.com").Return(nil)

	rec := serve(h.Init(), httptest.NewRequest(http.MethodPost, api+"/forgotpassword",
		jsonBody(t, models.EmailRequest{Email: "a@b.com"})))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, app.MsgResetEmailSent, decodeBody(t, rec)["message"])
}

func TestForgotPassword_EmptyBody(t *testing.T) {
	h, _ := newTestHandler(t, testAppConfig())

	rec := serve(h.Init(), httptest.NewRequest(http.MethodPost, api+"/forgotpassword", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, app.MsgInvalidDataProvided, decodeBody(t, rec)["error"])
}

func TestForgotPassword_InvalidEmail(t *testing.T) {
	h, mocks := newTestHandler(t, testAppConfig())
	mocks.password.EXPECT().RequestReset(gomock.Any(), "nope").Return(service.ErrInvalidEmail)

	rec := serve(h.Init(), httptest.NewRequest(http.MethodPost, api+"/forgotpassword",
		jsonBody(t, models.EmailRequest{Email: "nope"})))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, app.MsgInvalidEmail, decodeBody(t, rec)["error"])
}

func TestResetPassword_SignsIn(t *testing.T) {
	h, mocks := newTestHandler(t, testAppConfig())
	mocks.password.EXPECT().ConfirmReset(gomock.Any(), "reset-token").Return(testAccount(), nil)

	rec := serve(h.Init(), httptest.NewRequest(http.MethodGet, api+"/resetpassword?token=reset-token", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a@b.com", decodeBody(t, rec)["email"])
	assert.NotNil(t, responseCookie(rec, sessionCookieName))
}

func TestResetPassword_Rejected(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		err    error
		status int
	}{
		{"missing token", "", nil, http.StatusBadRequest},
		{"expired token", "?token=old", service.ErrInvalidToken, http.StatusUnauthorized},
		{"store failure", "?token=t", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mocks := newTestHandler(t, testAppConfig())
			if tt.err != nil {
				mocks.password.EXPECT().ConfirmReset(gomock.Any(), gomock.Any()).Return(models.Account{}, tt.err)
			}

			rec := serve(h.Init(), httptest.NewRequest(http.MethodGet, api+"/resetpassword"+tt.query, nil))

			assert.Equal(t, tt.status, rec.Code)
			assert.Nil(t, responseCookie(rec, sessionCookieName))
		})
	}
}

func TestUpdatePassword(t *testing.T) {
	h, mocks := newTestHandler(t, testAppConfig())
	account := testAccount()
	mocks.auth.EXPECT().Authenticate(gomock.Any(), "tok").Return(account, nil)
	mocks.password.EXPECT().UpdatePassword(gomock.Any(), account, "new-password").Return(account, nil)

	req := csrfRequest(t, h, http.MethodPut, api+"/password", models.PasswordRequest{Password: "new-password"}, "tok")
	rec := serve(h.Init(), req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, app.MsgPasswordUpdated, decodeBody(t, rec)["message"])
}

func TestUpdatePassword_TooShort(t *testing.T) {
	h, mocks := newTestHandler(t, testAppConfig())
	account := testAccount()
	mocks.auth.EXPECT().Authenticate(gomock.Any(), "tok").Return(account, nil)
	mocks.password.EXPECT().UpdatePassword(gomock.Any(), account, "short").Return(models.Account{}, service.ErrInvalidPassword)

	req := csrfRequest(t, h, http.MethodPut, api+"/password", models.PasswordRequest{Password: "short"}, "tok")
	rec := serve(h.Init(), req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, app.MsgInvalidPassword, decodeBody(t, rec)["error"])
}
