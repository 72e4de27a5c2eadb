package mail

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/oni-auth/internal/config"
	"github.com/MKhiriev/oni-auth/internal/logger"
)

func TestNewSender(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Mail
		want    any
		wantErr error
	}{
		{name: "log", cfg: config.Mail{Driver: config.MailDriverLog}, want: &LogSender{}},
		{name: "empty driver", cfg: config.Mail{}, want: &LogSender{}},
		{name: "smtp", cfg: config.Mail{Driver: config.MailDriverSMTP, SMTPHost: "smtp.example.com", SMTPPort: 587}, want: &SMTPSender{}},
		{name: "smtp without host", cfg: config.Mail{Driver: config.MailDriverSMTP}, wantErr: ErrSMTPNotConfigured},
		{name: "postmark", cfg: config.Mail{Driver: config.MailDriverPostmark, PostmarkURL: "https://api.example.com"}, want: &PostmarkSender{}},
		{name: "unknown", cfg: config.Mail{Driver: "pigeon"}, wantErr: ErrUnknownDriver},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender, err := NewSender(tt.cfg, logger.Nop())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, sender)
		})
	}
}

func TestLogSender_Send(t *testing.T) {
	assert.NoError(t, NewLogSender(logger.Nop()).Send(context.Background(), Message{To: "a@b.com"}))
}
