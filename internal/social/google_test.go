package social

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/oni-auth/internal/config"
)

const testCallback = "https://api.example.com/api/v1/auth/google/callback"

// fakeGoogle serves the token and userinfo endpoints.
func fakeGoogle(t *testing.T, tokenStatus int, userInfo string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client-id", r.PostForm.Get("client_id"))
		assert.Equal(t, "client-secret", r.PostForm.Get("client_secret"))
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, testCallback, r.PostForm.Get("redirect_uri"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(tokenStatus)
		if tokenStatus != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Bad Request"}`))
			return
		}
		assert.Equal(t, "good-code", r.PostForm.Get("code"))
		_, _ = w.Write([]byte(`{"access_token":"access-1","token_type":"Bearer","expires_in":3599}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(userInfo))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestProvider(srvURL string) *GoogleProvider {
	return NewGoogleProvider(config.OAuth{
		GoogleClientID:     "client-id",
		GoogleClientSecret: "client-secret",
		GoogleAuthURL:      "https://accounts.example.com/auth",
		GoogleTokenURL:     srvURL + "/token",
		GoogleUserInfoURL:  srvURL + "/userinfo",
		Timeout:            time.Second,
	}, testCallback)
}

func TestGoogleProvider_AuthCodeURL(t *testing.T) {
	p := newTestProvider("http://unused")

	u, err := url.Parse(p.AuthCodeURL("state-123"))
	require.NoError(t, err)

	assert.Equal(t, "accounts.example.com", u.Host)
	q := u.Query()
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, testCallback, q.Get("redirect_uri"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "openid email profile", q.Get("scope"))
	assert.Equal(t, "state-123", q.Get("state"))
	assert.Equal(t, "google", p.Name())
}

func TestGoogleProvider_Exchange(t *testing.T) {
	srv := fakeGoogle(t, http.StatusOK, `{"sub":"1081","email":"a@b.com","email_verified":true}`)

	profile, err := newTestProvider(srv.URL).Exchange(context.Background(), "good-code")

	require.NoError(t, err)
	assert.Equal(t, Profile{Subject: "1081", Email: "a@b.com", EmailVerified: true}, profile)
}

func TestGoogleProvider_Exchange_Errors(t *testing.T) {
	tests := []struct {
		name        string
		tokenStatus int
		userInfo    string
		wantErr     error
	}{
		{name: "code rejected", tokenStatus: http.StatusBadRequest, wantErr: ErrExchange},
		{name: "profile without id", tokenStatus: http.StatusOK, userInfo: `{"email":"a@b.com"}`, wantErr: ErrUserInfo},
		{name: "profile without email", tokenStatus: http.StatusOK, userInfo: `{"sub":"1081"}`, wantErr: ErrUserInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := fakeGoogle(t, tt.tokenStatus, tt.userInfo)

			_, err := newTestProvider(srv.URL).Exchange(context.Background(), "good-code")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGoogleProvider_Exchange_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srvURL := srv.URL
	srv.Close()

	_, err := newTestProvider(srvURL).Exchange(context.Background(), "good-code")
	assert.ErrorIs(t, err, ErrExchange)
}
