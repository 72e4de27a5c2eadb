package mail

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/MKhiriev/oni-auth/internal/config"
	"github.com/MKhiriev/oni-auth/internal/logger"
	"github.com/MKhiriev/oni-auth/models"
)

var deliveries = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "oni_mail_deliveries_total",
	Help: "Outbound emails by kind and result.",
}, []string{"kind", "result"})

type job struct {
	ctx  context.Context
	to   string
	kind models.MailKind
	vars models.MailVars
}

// Dispatcher queues notifications and delivers them in the background.
//
// Send never blocks: when the queue is full the message is delivered from
// a goroutine of its own. Delivery failures are logged and counted, the
// caller never sees them.
type Dispatcher struct {
	sender   Sender
	renderer *Renderer
	from     string
	timeout  time.Duration
	workers  int

	queue chan job
	wg    sync.WaitGroup

	logger *logger.Logger
}

// NewDispatcher creates a dispatcher. It starts delivering once Run is
// called; messages sent before that wait in the queue.
func NewDispatcher(sender Sender, renderer *Renderer, mailCfg config.Mail, workersCfg config.Workers, logger *logger.Logger) *Dispatcher {
	workers := workersCfg.MailWorkers
	if workers < 1 {
		workers = 1
	}
	return &Dispatcher{
		sender:   sender,
		renderer: renderer,
		from:     mailCfg.From,
		timeout:  mailCfg.Timeout,
		workers:  workers,
		queue:    make(chan job, max(workersCfg.MailQueueSize, 0)),
		logger:   logger,
	}
}

// Send schedules an email of the given kind. The request context is kept
// for its values (trace id, logger) but not for its cancellation.
func (d *Dispatcher) Send(ctx context.Context, to string, kind models.MailKind, vars models.MailVars) {
	j := job{ctx: context.WithoutCancel(ctx), to: to, kind: kind, vars: vars}

	select {
	case d.queue <- j:
	default:
		d.logFor(j.ctx).Warn().Str("kind", string(kind)).Msg("mail queue is full, delivering out of band")
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.deliver(j)
		}()
	}
}

// Run starts the delivery goroutines. After ctx is cancelled they drain
// whatever is still queued and stop.
func (d *Dispatcher) Run(ctx context.Context) {
	d.logger.Info().Int("workers", d.workers).Int("queue", cap(d.queue)).Msg("starting mail dispatcher")

	for range d.workers {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.loop(ctx)
		}()
	}
}

// Wait blocks until every started delivery has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) loop(ctx context.Context) {
	for {
		select {
		case j := <-d.queue:
			d.deliver(j)
		case <-ctx.Done():
			for {
				select {
				case j := <-d.queue:
					d.deliver(j)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) deliver(j job) {
	log := d.logFor(j.ctx)

	msg, err := d.renderer.Render(j.kind, j.vars)
	if err != nil {
		deliveries.WithLabelValues(string(j.kind), "failed").Inc()
		log.Err(err).Str("kind", string(j.kind)).Msg("error rendering mail")
		return
	}
	msg.From, msg.To = d.from, j.to

	ctx := j.ctx
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	if err = d.sender.Send(ctx, msg); err != nil {
		deliveries.WithLabelValues(string(j.kind), "failed").Inc()
		log.Err(err).Str("kind", string(j.kind)).Str("to", j.to).Msg("error sending mail")
		return
	}

	deliveries.WithLabelValues(string(j.kind), "sent").Inc()
	log.Debug().Str("kind", string(j.kind)).Str("to", j.to).Msg("mail sent")
}

// logFor prefers the request logger carried by ctx.
func (d *Dispatcher) logFor(ctx context.Context) *logger.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return &logger.Logger{Logger: *l}
	}
	return d.logger
}
