package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/oni-auth/internal/config"
)

func TestPostmarkSender_Send(t *testing.T) {
	var got postmarkEmail
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/email", r.URL.Path)
		assert.Equal(t, "server-token", r.Header.Get(postmarkTokenHeader))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ErrorCode":0,"Message":"OK","MessageID":"m-1"}`))
	}))
	defer srv.Close()

	sender := NewPostmarkSender(config.Mail{PostmarkURL: srv.URL, PostmarkToken: "server-token", Timeout: time.Second})
	err := sender.Send(context.Background(), Message{
		From: "oni@oni.com", To: "a@b.com", Subject: "Hi", Text: "t", HTML: "<p>h</p>",
	})
	require.NoError(t, err)

	assert.Equal(t, postmarkEmail{
		From: "oni@oni.com", To: "a@b.com", Subject: "Hi", TextBody: "t", HTMLBody: "<p>h</p>", MessageStream: "outbound",
	}, got)
}

func TestPostmarkSender_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"ErrorCode":300,"Message":"Invalid 'To' address"}`))
	}))
	defer srv.Close()

	sender := NewPostmarkSender(config.Mail{PostmarkURL: srv.URL, Timeout: time.Second})
	err := sender.Send(context.Background(), Message{From: "oni@oni.com", To: "bad"})

	require.ErrorIs(t, err, ErrPostmarkRejected)
	assert.Contains(t, err.Error(), "Invalid 'To' address")
}

func TestPostmarkSender_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	sender := NewPostmarkSender(config.Mail{PostmarkURL: url, Timeout: time.Second})
	err := sender.Send(context.Background(), Message{From: "oni@oni.com", To: "a@b.com"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPostmarkRejected)
}
