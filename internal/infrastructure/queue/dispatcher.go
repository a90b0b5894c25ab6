package queue

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dwjc/job-connector/internal/api/metrics"
	"github.com/dwjc/job-connector/internal/core/ports"
)

const (
	defaultWorkers = 4
	defaultBuffer  = 256
	sendTimeout    = 30 * time.Second
)

// Dispatcher delivers outbound emails on a fixed pool of workers. Each
// message is an independent job: a failed recipient never delays or fails
// the others, and failures are not retried.
type Dispatcher struct {
	jobs   chan ports.MailMessage
	sender ports.MailSender
	log    zerolog.Logger

	workers int
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
}

// NewDispatcher creates a Dispatcher with numWorkers workers and a queue of
// bufferSize messages. Non-positive values fall back to the defaults.
func NewDispatcher(numWorkers, bufferSize int, sender ports.MailSender, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if bufferSize <= 0 {
		bufferSize = defaultBuffer
	}
	return &Dispatcher{
		jobs:    make(chan ports.MailMessage, bufferSize),
		sender:  sender,
		log:     log,
		workers: numWorkers,
	}
}

// Start launches all worker goroutines. They run until Stop drains the queue.
func (d *Dispatcher) Start(ctx context.Context) {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.runWorker(ctx, i)
	}
}

// Enqueue queues msg without blocking. It reports false when the queue is
// full or the dispatcher is stopped; the message is then dropped.
func (d *Dispatcher) Enqueue(msg ports.MailMessage) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		metrics.MailDeliveriesTotal.WithLabelValues("dropped").Inc()
		return false
	}

	select {
	case d.jobs <- msg:
		metrics.MailQueueDepth.Set(float64(len(d.jobs)))
		return true
	default:
		metrics.MailDeliveriesTotal.WithLabelValues("dropped").Inc()
		return false
	}
}

// Stop closes the queue and waits for queued messages to be delivered, or
// for ctx to expire.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.jobs)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) runWorker(ctx context.Context, id int) {
	defer d.wg.Done()
	for msg := range d.jobs {
		metrics.MailQueueDepth.Set(float64(len(d.jobs)))
		d.deliver(ctx, id, msg)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, id int, msg ports.MailMessage) {
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
	defer cancel()

	if err := d.sender.Send(sendCtx, msg); err != nil {
		metrics.MailDeliveriesTotal.WithLabelValues("failed").Inc()
		d.log.Warn().Err(err).
			Str("to", msg.To).
			Str("subject", msg.Subject).
			Int("worker_id", id).
			Msg("mail delivery failed")
		return
	}
	metrics.MailDeliveriesTotal.WithLabelValues("sent").Inc()
	d.log.Debug().Str("to", msg.To).Int("worker_id", id).Msg("mail sent")
}
