package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"todoboard/internal/domain/entities"
	"todoboard/internal/dto"
)

// Subscription is an open live query. Snapshots holds at most one pending
// snapshot; a newer one replaces an unread older one.
type Subscription struct {
	conn *websocket.Conn
	ch   chan []entities.Todo
	done chan struct{}
	stop func() bool

	once sync.Once
	mu   sync.Mutex
	err  error
}

func newSubscription(ctx context.Context, conn *websocket.Conn) *Subscription {
	s := &Subscription{
		conn: conn,
		ch:   make(chan []entities.Todo, 1),
		done: make(chan struct{}),
	}
	s.mu.Lock()
	s.stop = context.AfterFunc(ctx, s.Close)
	s.mu.Unlock()
	go s.read()
	return s
}

// Snapshots is closed when the subscription ends; Err then reports why.
func (s *Subscription) Snapshots() <-chan []entities.Todo {
	return s.ch
}

// Err returns the error that ended the subscription, or nil if it was closed
// by the caller or the server went away cleanly.
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close releases the subscription. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.mu.Lock()
		if s.stop != nil {
			s.stop()
		}
		s.mu.Unlock()
		close(s.done)
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = s.conn.WriteMessage(websocket.CloseMessage, msg)
		_ = s.conn.Close()
	})
}

func (s *Subscription) read() {
	defer close(s.ch)
	for {
		var msg dto.SnapshotMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			s.finish(err)
			return
		}
		if msg.Type != dto.MessageTypeSnapshot {
			continue
		}
		s.offer(dto.ResponsesToTodos(msg.Items))
	}
}

func (s *Subscription) offer(items []entities.Todo) {
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

func (s *Subscription) finish(err error) {
	select {
	case <-s.done:
		return
	default:
	}
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return
	}
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		err = fmt.Errorf("live query closed by server: %w", err)
	}
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	_ = s.conn.Close()
}
