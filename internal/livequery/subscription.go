package livequery

import (
	"sync"

	"todoboard/internal/domain/entities"
)

// Subscription is one open live query. Snapshots delivers full result sets;
// the channel is closed once the subscription is released.
type Subscription struct {
	hub  *Hub
	ch   chan []entities.Todo
	once sync.Once
	stop func() bool

	mu     sync.Mutex
	closed bool
}

// Snapshots returns the delivery channel. Each delivered slice belongs to
// the receiver.
func (s *Subscription) Snapshots() <-chan []entities.Todo {
	return s.ch
}

// offer queues items, replacing an undelivered older snapshot. It never
// blocks.
func (s *Subscription) offer(items []entities.Todo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- items:
		return
	default:
	}
	select {
	case <-s.ch:
	default:
	}
	select {
	case s.ch <- items:
	default:
	}
}

// Close releases the subscription. It is safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.remove(s)
		s.mu.Lock()
		if s.stop != nil {
			s.stop()
		}
		s.closed = true
		close(s.ch)
		s.mu.Unlock()
	})
}
