package notifymock

import (
	"context"
	"sync"

	"csei-backend/internal/domain/notify"
)

var (
	_ notify.Dispatcher = (*Dispatcher)(nil)
	_ notify.Sender     = (*Sender)(nil)
)

// Dispatcher records every message and accepts it unless Reject is set.
type Dispatcher struct {
	mu       sync.Mutex
	Reject   bool
	Messages []notify.Message
}

func (d *Dispatcher) Dispatch(_ context.Context, m notify.Message) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Messages = append(d.Messages, m)
	return !d.Reject
}

func (d *Dispatcher) Sent() []notify.Message {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]notify.Message(nil), d.Messages...)
}

// Sender is a function-backed notify.Sender; nil SendFn succeeds.
type Sender struct {
	SendFn func(ctx context.Context, m notify.Message) error
}

func (s *Sender) Send(ctx context.Context, m notify.Message) error {
	if s.SendFn != nil {
		return s.SendFn(ctx, m)
	}
	return nil
}
