// Package mail renders and delivers the emails of the registration and
// password reset workflows.
//
// A [Dispatcher] implements the fire-and-forget notification contract used
// by the services: Send never blocks the caller and never reports delivery
// failures back, those are only logged. Actual delivery goes through a
// [Sender]: SMTP, the Postmark HTTP API or, in development, the log.
package mail

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/mail_mock.go -package=mock

// Sender delivers one rendered message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
