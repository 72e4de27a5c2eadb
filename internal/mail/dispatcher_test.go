package mail

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/oni-auth/internal/config"
	"github.com/MKhiriev/oni-auth/internal/logger"
	"github.com/MKhiriev/oni-auth/models"
)

// recordingSender collects delivered messages. It can be told to fail or
// to block until released.
type recordingSender struct {
	mu      sync.Mutex
	sent    []Message
	err     error
	release chan struct{}
}

func (s *recordingSender) Send(ctx context.Context, msg Message) error {
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *recordingSender) messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.sent...)
}

func newTestDispatcher(t *testing.T, sender Sender, queue, workers int) *Dispatcher {
	t.Helper()
	r, err := NewRenderer()
	require.NoError(t, err)
	return NewDispatcher(sender, r,
		config.Mail{From: "oni-register@oni.com", Timeout: time.Second},
		config.Workers{MailQueueSize: queue, MailWorkers: workers},
		logger.Nop(),
	)
}

func TestDispatcher_DeliversQueuedMail(t *testing.T) {
	sender := &recordingSender{}
	d := newTestDispatcher(t, sender, 4, 2)

	ctx, cancel := context.WithCancel(context.Background())
	d.Run(ctx)

	d.Send(context.Background(), "a@b.com", models.MailRegistrationPending, models.MailVars{"Email": "a@b.com"})
	d.Send(context.Background(), "admin@b.com", models.MailRegistrationAdminNotice, models.MailVars{"Email": "a@b.com"})

	require.Eventually(t, func() bool { return len(sender.messages()) == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	d.Wait()

	for _, msg := range sender.messages() {
		assert.Equal(t, "oni-register@oni.com", msg.From)
		assert.NotEmpty(t, msg.Subject)
	}
}

func TestDispatcher_SendDoesNotBlockWhenQueueIsFull(t *testing.T) {
	sender := &recordingSender{release: make(chan struct{})}
	d := newTestDispatcher(t, sender, 0, 1)

	start := time.Now()
	for i := 0; i < 3; i++ {
		d.Send(context.Background(), "a@b.com", models.MailRegistrationPending, nil)
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	close(sender.release)
	d.Wait()
	assert.Len(t, sender.messages(), 3)
}

func TestDispatcher_DrainsQueueOnShutdown(t *testing.T) {
	sender := &recordingSender{}
	d := newTestDispatcher(t, sender, 8, 1)

	for i := 0; i < 5; i++ {
		d.Send(context.Background(), "a@b.com", models.MailPasswordReset, models.MailVars{"Link": "https://example.com/r"})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Run(ctx)
	d.Wait()

	assert.Len(t, sender.messages(), 5)
}

func TestDispatcher_CancelledRequestDoesNotAbortDelivery(t *testing.T) {
	sender := &recordingSender{}
	d := newTestDispatcher(t, sender, 1, 1)

	reqCtx, cancelReq := context.WithCancel(context.Background())
	d.Send(reqCtx, "a@b.com", models.MailRegistrationComplete, nil)
	cancelReq()

	ctx, cancel := context.WithCancel(context.Background())
	d.Run(ctx)
	require.Eventually(t, func() bool { return len(sender.messages()) == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	d.Wait()
}

func TestDispatcher_FailuresAreSwallowed(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp down")}
	d := newTestDispatcher(t, sender, 2, 1)

	d.Send(context.Background(), "a@b.com", models.MailRegistrationPending, nil)
	d.Send(context.Background(), "a@b.com", models.MailKind("unknown"), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Run(ctx)
	d.Wait()

	assert.Empty(t, sender.messages())
}
