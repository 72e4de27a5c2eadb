package mail

import "errors"

var (
	ErrUnknownMailKind   = errors.New("unknown mail kind")
	ErrUnknownDriver     = errors.New("unknown mail driver")
	ErrInvalidRecipient  = errors.New("invalid recipient address")
	ErrPostmarkRejected  = errors.New("postmark rejected the message")
	ErrSMTPNotConfigured = errors.New("smtp host is not configured")
)
