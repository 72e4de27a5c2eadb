package mail

import (
	"context"

	"github.com/MKhiriev/oni-auth/internal/logger"
)

// LogSender writes messages to the log instead of delivering them. It is
// meant for development, where confirmation links are copied from the log.
type LogSender struct {
	logger *logger.Logger
}

func NewLogSender(logger *logger.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (l *LogSender) Send(ctx context.Context, msg Message) error {
	l.logger.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("body", msg.Text).
		Msg("mail not delivered (log driver)")
	return nil
}
