package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"farmertwin/model"
)

// ErrSubscriptionClosed is returned by Next once the subscription has been
// removed from its broadcaster.
var ErrSubscriptionClosed = errors.New("subscription closed")

// Subscription is one live stream's private, unbounded FIFO of alerts.
type Subscription struct {
	id uint64

	mu     sync.Mutex
	queue  []model.Alert
	closed bool

	// notify holds at most one pending wake-up.
	notify chan struct{}
	done   chan struct{}
}

func newSubscription(id uint64) *Subscription {
	return &Subscription{
		id:     id,
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

func (s *Subscription) ID() uint64 { return s.id }

func (s *Subscription) enqueue(alert model.Alert) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.queue = append(s.queue, alert)
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *Subscription) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.queue = nil
	close(s.done)
}

func (s *Subscription) pop() (model.Alert, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return model.Alert{}, false
	}
	alert := s.queue[0]
	s.queue[0] = model.Alert{}
	s.queue = s.queue[1:]
	return alert, true
}

// Pending is the number of queued, undelivered alerts.
func (s *Subscription) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Next waits up to wait for the next alert. ok is false when the wait
// expired with nothing queued, which callers turn into a keep-alive. The
// error is ctx.Err() or ErrSubscriptionClosed.
func (s *Subscription) Next(ctx context.Context, wait time.Duration) (alert model.Alert, ok bool, err error) {
	timer := time.NewTimer(wait)
	defer timer.Stop()

	for {
		if alert, ok := s.pop(); ok {
			return alert, true, nil
		}

		select {
		case <-s.notify:
		case <-timer.C:
			return model.Alert{}, false, nil
		case <-ctx.Done():
			return model.Alert{}, false, ctx.Err()
		case <-s.done:
			return model.Alert{}, false, ErrSubscriptionClosed
		}
	}
}
