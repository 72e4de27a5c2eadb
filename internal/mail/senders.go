package mail

import (
	"fmt"

	"github.com/MKhiriev/oni-auth/internal/config"
	"github.com/MKhiriev/oni-auth/internal/logger"
)

// NewSender builds the sender selected by cfg.Driver.
func NewSender(cfg config.Mail, logger *logger.Logger) (Sender, error) {
	switch cfg.Driver {
	case config.MailDriverSMTP:
		return NewSMTPSender(cfg)
	case config.MailDriverPostmark:
		return NewPostmarkSender(cfg), nil
	case config.MailDriverLog, "":
		return NewLogSender(logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
