package dialogx

import (
	"context"
	"sync"
	"time"

	"github.com/ridermall/riderbot/logx"
)

// Handler processes one inbound event
type Handler interface {
	Handle(ctx context.Context, ev Event)
}

// Dispatcher decouples webhook acknowledgment from conversation
// processing. Enqueue appends the event to the sender's queue before
// the webhook responds, so events for one user are processed strictly
// in arrival order by a single worker; different users run
// concurrently. This serialization is what keeps the two-slot document
// queue race-free when a customer sends two photos back to back.
type Dispatcher struct {
	handler Handler
	timeout time.Duration

	mu     sync.Mutex
	queues map[string][]Event
	wg     sync.WaitGroup
}

// NewDispatcher creates a dispatcher with a per-event processing timeout
func NewDispatcher(handler Handler, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Dispatcher{
		handler: handler,
		timeout: timeout,
		queues:  make(map[string][]Event),
	}
}

// Enqueue appends the event to its user's queue and starts a worker
// for that user if none is draining it. It returns immediately; the
// caller can acknowledge the webhook right away.
func (d *Dispatcher) Enqueue(ev Event) {
	if ev.UserID == "" {
		logx.Warn("dispatch: dropping event without user id")
		return
	}

	d.mu.Lock()
	queue, active := d.queues[ev.UserID]
	d.queues[ev.UserID] = append(queue, ev)
	if !active {
		// Queue presence doubles as the worker flag: the worker
		// deletes the key when it drains the last event.
		d.wg.Add(1)
		go d.drain(ev.UserID)
	}
	d.mu.Unlock()
}

func (d *Dispatcher) drain(userID string) {
	defer d.wg.Done()

	for {
		d.mu.Lock()
		queue := d.queues[userID]
		if len(queue) == 0 {
			delete(d.queues, userID)
			d.mu.Unlock()
			return
		}
		ev := queue[0]
		d.queues[userID] = queue[1:]
		d.mu.Unlock()

		d.process(ev)
	}
}

func (d *Dispatcher) process(ev Event) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			logx.Error("dispatch: panic while handling event for %s: %v", ev.UserID, r)
		}
	}()

	d.handler.Handle(ctx, ev)
}

// Drain blocks until all queued events are processed or the context is
// done. Used on shutdown.
func (d *Dispatcher) Drain(ctx context.Context) error {
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
