// Package status holds the single status message shown to the user and
// broadcasts changes to listeners.
package status

import (
	"sync"
	"time"
)

// Slot holds one status message. Set replaces it; a scheduled clear only
// takes effect if no newer message was set in the meantime.
type Slot struct {
	mu        sync.RWMutex
	message   string
	gen       uint64
	listeners map[chan string]struct{}
	afterFunc func(time.Duration, func()) *time.Timer
}

// New creates an empty Slot.
func New() *Slot {
	return &Slot{
		listeners: make(map[chan string]struct{}),
		afterFunc: time.AfterFunc,
	}
}

// Message returns the current message.
func (s *Slot) Message() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.message
}

// Set replaces the message and notifies listeners.
func (s *Slot) Set(message string) {
	s.mu.Lock()
	s.gen++
	s.message = message
	s.mu.Unlock()
	s.broadcast(message)
}

// ScheduleClear clears the message after d, unless it has been replaced.
// Non-positive durations clear immediately.
func (s *Slot) ScheduleClear(d time.Duration) *time.Timer {
	s.mu.RLock()
	gen := s.gen
	s.mu.RUnlock()

	clearIfCurrent := func() {
		s.mu.Lock()
		if s.gen != gen {
			s.mu.Unlock()
			return
		}
		s.gen++
		s.message = ""
		s.mu.Unlock()
		s.broadcast("")
	}
	if d <= 0 {
		clearIfCurrent()
		return nil
	}
	return s.afterFunc(d, clearIfCurrent)
}

// Subscribe returns a channel receiving every new message.
// The caller must call Unsubscribe when done to prevent goroutine leaks.
func (s *Slot) Subscribe() chan string {
	ch := make(chan string, 1)
	s.mu.Lock()
	s.listeners[ch] = struct{}{}
	s.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it.
func (s *Slot) Unsubscribe(ch chan string) {
	s.mu.Lock()
	delete(s.listeners, ch)
	s.mu.Unlock()
	close(ch)
}

// broadcast is non-blocking: a full listener keeps its older message and
// misses this one.
func (s *Slot) broadcast(message string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for ch := range s.listeners {
		select {
		case ch <- message:
		default:
		}
	}
}
