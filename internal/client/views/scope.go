package views

import (
	"errors"
	"sync"
)

var (
	ErrInFlight = errors.New("operation already in progress")
	ErrClosed   = errors.New("view closed")
	ErrCanceled = errors.New("canceled by user")
)

// scope tracks in-flight operations by key and whether the view is still
// open. Results that land after Close must not touch state.
type scope struct {
	mu       sync.Mutex
	inflight map[string]struct{}
	closed   bool
	notifier Notifier
}

func newScope(n Notifier) scope {
	if n == nil {
		n = NotifierFunc(func(Notification) {})
	}
	return scope{inflight: make(map[string]struct{}), notifier: n}
}

func (s *scope) begin(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if _, busy := s.inflight[key]; busy {
		return ErrInFlight
	}
	s.inflight[key] = struct{}{}
	return nil
}

func (s *scope) end(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, key)
}

// Busy reports whether the operation with the given key is pending.
func (s *scope) Busy(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, busy := s.inflight[key]
	return busy
}

func (s *scope) live() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}

// Close takes the view out of scope. It is safe to call more than once.
func (s *scope) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *scope) notify(level Level, msg string) {
	if !s.live() {
		return
	}
	s.notifier.Notify(Notification{Level: level, Message: msg})
}

// commit runs fn under the scope lock unless the view has been closed, and
// reports whether it ran. View state is only written through commit.
func (s *scope) commit(fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	fn()
	return true
}
