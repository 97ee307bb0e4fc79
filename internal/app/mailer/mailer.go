package mailer

import (
	"context"
	"sync"

	"gopkg.in/gomail.v2"

	"git.platform.alem.school/amibragim/order-up/internal/domain/orders"
	"git.platform.alem.school/amibragim/order-up/internal/ports"
	"git.platform.alem.school/amibragim/order-up/internal/shared/config"
	"git.platform.alem.school/amibragim/order-up/internal/shared/logger"
)

const defaultQueueSize = 32

// Sender delivers one composed message. Satisfied by the SMTP transport and
// by test fakes.
type Sender interface {
	Send(to, subject, body string) error
}

// smtpSender delivers mail through gomail/SMTP.
type smtpSender struct {
	dialer *gomail.Dialer
	from   string
}

func (s *smtpSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return s.dialer.DialAndSend(m)
}

type job struct {
	kind  orders.EventKind
	order *orders.Order
}

// Dispatcher queues best-effort owner emails for selected order events. Every
// failure mode terminates inside the dispatcher: missing transport, missing
// address, full queue, and transport errors are logged and contained. The
// bounded queue also caps the cost of a flaky mail transport.
type Dispatcher struct {
	sender Sender // nil when no transport is configured
	logger *logger.Logger

	jobs      chan job
	closeOnce sync.Once
	wg        sync.WaitGroup
}

var _ ports.OrderNotifier = (*Dispatcher)(nil)

// New builds the dispatcher from config. An unconfigured smtp section yields
// a dispatcher that silently skips every job.
func New(cfg config.SMTP, logger *logger.Logger) *Dispatcher {
	var sender Sender
	if cfg.Configured() {
		sender = &smtpSender{
			dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
			from:   cfg.From,
		}
	}
	return NewWithSender(sender, logger, defaultQueueSize)
}

// NewWithSender wires the dispatcher around an explicit transport. sender may
// be nil to disable delivery.
func NewWithSender(sender Sender, logger *logger.Logger, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}

	d := &Dispatcher{
		sender: sender,
		logger: logger,
		jobs:   make(chan job, queueSize),
	}

	d.wg.Add(1)
	go d.worker()

	return d
}

// Enqueue queues one notification without blocking the caller. Skips are
// silent by contract: no transport, no recipient address, or a full queue all
// result in a log line at most.
func (d *Dispatcher) Enqueue(kind orders.EventKind, order *orders.Order) {
	ctx := context.Background()

	if kind != orders.EventCreated && kind != orders.EventStatusUpdated {
		return
	}
	if d.sender == nil {
		d.logger.Debug(ctx, "email_skipped", "No mail transport configured", map[string]any{"order_id": order.ID})
		return
	}
	if order.Customer == nil || order.Customer.Email == "" {
		d.logger.Debug(ctx, "email_skipped", "Order has no customer email", map[string]any{"order_id": order.ID})
		return
	}

	select {
	case d.jobs <- job{kind: kind, order: order}:
	default:
		d.logger.Warn(ctx, "email_dropped", "Notification queue full, dropping email", map[string]any{"order_id": order.ID, "event": string(kind)})
	}
}

// Close drains the queue and stops the worker. Safe to call more than once.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.jobs)
	})
	d.wg.Wait()
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	ctx := context.Background()
	for j := range d.jobs {
		subject, body := compose(j.kind, j.order)
		if err := d.sender.Send(j.order.Customer.Email, subject, body); err != nil {
			d.logger.Error(ctx, "email_send_failed", "Failed to send order notification email", err)
			continue
		}
		d.logger.Debug(ctx, "email_sent", "Order notification email sent", map[string]any{
			"order_id": j.order.ID,
			"event":    string(j.kind),
			"to":       j.order.Customer.Email,
		})
	}
}
