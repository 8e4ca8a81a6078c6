package email

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"csei-backend/internal/domain/notify"
	"csei-backend/internal/infrastructure/observability"
)

const (
	DefaultQueueSize = 1000
	DefaultWorkers   = 2
	maxAttempts      = 3
	sendTimeout      = 30 * time.Second
)

type job struct {
	msg      notify.Message
	attempts int
}

// Dispatcher queues messages in memory and delivers them on background
// workers. Failed sends are retried with a linear backoff.
type Dispatcher struct {
	sender  notify.Sender
	queue   chan job
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
	mu      sync.RWMutex
	stopped bool
	backoff func(attempt int) time.Duration
	log     *slog.Logger
}

func NewDispatcher(sender notify.Sender, workers, queueSize int) *Dispatcher {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	d := &Dispatcher{
		sender:  sender,
		queue:   make(chan job, queueSize),
		done:    make(chan struct{}),
		backoff: func(attempt int) time.Duration { return time.Duration(attempt*2) * time.Second },
		log:     observability.Logger.With("component", "email"),
	}
	d.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go d.worker()
	}
	return d
}

// Dispatch never blocks. It returns false when the queue is full, the
// dispatcher is stopped or the message has no recipient.
func (d *Dispatcher) Dispatch(ctx context.Context, m notify.Message) bool {
	if m.To == "" {
		observability.Notifications.WithLabelValues("email", "skipped").Inc()
		return false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		observability.Notifications.WithLabelValues("email", "rejected").Inc()
		return false
	}
	select {
	case d.queue <- job{msg: m}:
		observability.Notifications.WithLabelValues("email", "queued").Inc()
		return true
	default:
		d.log.WarnContext(ctx, "email queue full", "to", m.To, "subject", m.Subject)
		observability.Notifications.WithLabelValues("email", "rejected").Inc()
		return false
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for {
		select {
		case j := <-d.queue:
			d.deliver(j)
		case <-d.done:
			// drain what was accepted before Stop
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
	for {
		j.attempts++
		// delivery outlives the request that queued the message
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		err := d.sender.Send(ctx, j.msg)
		cancel()
		if err == nil {
			observability.Notifications.WithLabelValues("email", "sent").Inc()
			return
		}
		d.log.Error("email send failed", "to", j.msg.To, "attempt", j.attempts, "error", err)
		if j.attempts >= maxAttempts {
			observability.Notifications.WithLabelValues("email", "failed").Inc()
			return
		}
		select {
		case <-time.After(d.backoff(j.attempts)):
		case <-d.done:
			observability.Notifications.WithLabelValues("email", "failed").Inc()
			return
		}
	}
}

// Stop refuses new messages, flushes the queue and waits for workers.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.once.Do(func() {
		d.mu.Lock()
		d.stopped = true
		d.mu.Unlock()
		close(d.done)
	})
	finished := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(finished)
	}()
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
