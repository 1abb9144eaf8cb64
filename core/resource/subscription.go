package resource

import (
	"sync"

	"github.com/google/uuid"
)

// Subscription is a live view on one cache entry.
//
// Updates delivers the latest Snapshot only: a slow reader skips intermediate states
// but always ends up seeing the most recent one. The channel is closed by Unsubscribe.
type Subscription struct {
	id     string
	key    string
	client *Client

	mu     sync.Mutex
	ch     chan Snapshot
	closed bool

	// held while a Subscribe callback runs
	cbMu sync.Mutex
}

func newSubscription(c *Client, key string) *Subscription {
	return &Subscription{
		id:     uuid.New().String(),
		key:    key,
		client: c,
		ch:     make(chan Snapshot, 1),
	}
}

func (s *Subscription) Key() string { return s.key }

func (s *Subscription) Updates() <-chan Snapshot { return s.ch }

// Current returns the entry state right now, regardless of what was read from Updates.
func (s *Subscription) Current() Snapshot {
	snap, _ := s.client.Snapshot(s.key)
	return snap
}

// Unsubscribe detaches from the entry. Safe to call more than once.
//
// For a subscription made by Client.Subscribe it returns only once a running callback
// has finished, and the callback is not called again. It must not be called from
// inside that callback.
func (s *Subscription) Unsubscribe() {
	s.client.unsubscribe(s)
	s.close()
	s.cbMu.Lock()
	s.cbMu.Unlock()
}

func (s *Subscription) publish(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	select {
	case <-s.ch:
	default:
	}
	s.ch <- snap
}

func (s *Subscription) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}

// deliver calls fn with snap unless the subscription is closed.
func (s *Subscription) deliver(fn func(Snapshot), snap Snapshot) bool {
	s.cbMu.Lock()
	defer s.cbMu.Unlock()

	if s.isClosed() {
		return false
	}
	fn(snap)
	return true
}

func (s *Subscription) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
