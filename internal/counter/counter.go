// Package counter holds the session-local counter slice: one integer, two
// actions.
package counter

import "sync"

// Action is a counter transition.
type Action int

const (
	Increment Action = iota + 1
	Decrement
)

func (a Action) String() string {
	switch a {
	case Increment:
		return "counter/increment"
	case Decrement:
		return "counter/decrement"
	default:
		return "counter/unknown"
	}
}

// State is the counter slice.
type State struct {
	Value int
}

// Reduce applies a to s. Unknown actions leave s unchanged.
func Reduce(s State, a Action) State {
	switch a {
	case Increment:
		s.Value++
	case Decrement:
		s.Value--
	}
	return s
}

// Store owns one counter State. The zero value is ready to use and starts
// at 0.
type Store struct {
	mu        sync.Mutex
	state     State
	listeners map[int]func(State)
	nextID    int
}

// NewStore returns a Store starting at 0.
func NewStore() *Store {
	return &Store{}
}

// Dispatch applies a and notifies listeners with the new state.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	next := s.state
	listeners := make([]func(State), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(next)
	}
	return next
}

// Value is the read selector for the counter.
func (s *Store) Value() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Value
}

// Subscribe registers fn to run after every dispatch and returns a function
// that removes it.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listeners == nil {
		s.listeners = make(map[int]func(State))
	}
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}
