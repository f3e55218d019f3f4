package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualTimers captures scheduled callbacks so tests fire them by hand.
type manualTimers struct {
	fns []func()
}

func (m *manualTimers) afterFunc(_ time.Duration, f func()) *time.Timer {
	m.fns = append(m.fns, f)
	return nil
}

func newManualSlot() (*Slot, *manualTimers) {
	s := New()
	m := &manualTimers{}
	s.afterFunc = m.afterFunc
	return s, m
}

func TestSlot_SetAndScheduledClear(t *testing.T) {
	s, timers := newManualSlot()

	s.Set("Toss File: tossed 1 file to 1 location")
	s.ScheduleClear(5 * time.Second)
	require.Len(t, timers.fns, 1)
	assert.Equal(t, "Toss File: tossed 1 file to 1 location", s.Message())

	timers.fns[0]()
	assert.Empty(t, s.Message())
}

func TestSlot_StaleClearDoesNotEraseNewerMessage(t *testing.T) {
	s, timers := newManualSlot()

	s.Set("first")
	s.ScheduleClear(time.Second)
	s.Set("second")

	timers.fns[0]()
	assert.Equal(t, "second", s.Message(), "last write wins")
}

func TestSlot_NonPositiveDelayClearsNow(t *testing.T) {
	s, timers := newManualSlot()
	s.Set("x")
	s.ScheduleClear(0)
	assert.Empty(t, timers.fns)
	assert.Empty(t, s.Message())
}

func TestSlot_SubscribeReceivesMessages(t *testing.T) {
	s := New()
	ch := s.Subscribe()
	defer s.Unsubscribe(ch)

	s.Set("hello")
	select {
	case msg := <-ch:
		assert.Equal(t, "hello", msg)
	case <-time.After(time.Second):
		t.Fatal("no message received")
	}
}

func TestSlot_BroadcastDoesNotBlock(t *testing.T) {
	s := New()
	ch := s.Subscribe()
	defer s.Unsubscribe(ch)

	s.Set("one")
	s.Set("two") // buffer full, dropped

	assert.Equal(t, "one", <-ch)
	assert.Equal(t, "two", s.Message())
}

func TestSlot_RealTimerClears(t *testing.T) {
	s := New()
	ch := s.Subscribe()
	defer s.Unsubscribe(ch)

	s.Set("soon gone")
	<-ch
	s.ScheduleClear(10 * time.Millisecond)

	select {
	case msg := <-ch:
		assert.Empty(t, msg)
	case <-time.After(2 * time.Second):
		t.Fatal("status was not cleared")
	}
}
