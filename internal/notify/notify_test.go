package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualClock collects scheduled clears so tests can fire them in any order.
type manualClock struct {
	mu      sync.Mutex
	pending []func()
	delays  []time.Duration
}

func (m *manualClock) schedule(d time.Duration, f func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, f)
	m.delays = append(m.delays, d)
	return func() {}
}

func (m *manualClock) fire(i int) {
	m.mu.Lock()
	f := m.pending[i]
	m.mu.Unlock()
	f()
}

func TestShow_VisibleThenCleared(t *testing.T) {
	clock := &manualClock{}
	s := NewSurface(WithScheduler(clock.schedule))

	s.Show(Success("Fajr prayer status updated!"))

	n, visible := s.Current()
	require.True(t, visible)
	assert.Equal(t, "Fajr prayer status updated!", n.Message)
	assert.Equal(t, SeveritySuccess, n.Severity)
	assert.Equal(t, []time.Duration{DefaultTTL}, clock.delays)

	clock.fire(0)
	n, visible = s.Current()
	assert.False(t, visible)
	assert.Empty(t, n.Message)
}

func TestShow_OlderTimerDoesNotClearNewerNotice(t *testing.T) {
	clock := &manualClock{}
	s := NewSurface(WithScheduler(clock.schedule))

	s.Show(Info("first"))
	s.Show(Error("second"))

	clock.fire(0)
	n, visible := s.Current()
	require.True(t, visible)
	assert.Equal(t, "second", n.Message)

	clock.fire(1)
	_, visible = s.Current()
	assert.False(t, visible)
}

func TestOnChange(t *testing.T) {
	clock := &manualClock{}
	var events []bool
	s := NewSurface(WithScheduler(clock.schedule), OnChange(func(_ Notice, visible bool) {
		events = append(events, visible)
	}))

	s.Show(Info("hello"))
	clock.fire(0)
	clock.fire(0)

	assert.Equal(t, []bool{true, false}, events)
}

func TestOnChange_StaleClearCannotOvertakeNewerShow(t *testing.T) {
	clock := &manualClock{}
	var mu sync.Mutex
	var seen []string
	entered := make(chan struct{})
	release := make(chan struct{})
	s := NewSurface(WithScheduler(clock.schedule), OnChange(func(n Notice, visible bool) {
		if !visible {
			close(entered)
			<-release
		}
		mu.Lock()
		seen = append(seen, n.Message)
		mu.Unlock()
	}))
	s.Show(Info("first"))

	cleared := make(chan struct{})
	go func() {
		clock.fire(0)
		close(cleared)
	}()
	<-entered

	shown := make(chan struct{})
	go func() {
		s.Show(Info("second"))
		close(shown)
	}()
	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, []string{"first"}, seen, "newer show delivered while the clear was in flight")
	mu.Unlock()

	close(release)
	<-cleared
	<-shown
	assert.Equal(t, []string{"first", "", "second"}, seen)
	n, visible := s.Current()
	assert.True(t, visible)
	assert.Equal(t, "second", n.Message)
}

func TestShow_RealTimer(t *testing.T) {
	s := NewSurface(WithTTL(10 * time.Millisecond))
	s.Show(Info("soon gone"))

	assert.Eventually(t, func() bool {
		_, visible := s.Current()
		return !visible
	}, time.Second, 5*time.Millisecond)
}

func TestClose_CancelsPendingClear(t *testing.T) {
	clock := &manualClock{}
	s := NewSurface(WithScheduler(clock.schedule))
	s.Show(Info("kept"))
	s.Close()

	clock.fire(0)
	n, visible := s.Current()
	assert.True(t, visible)
	assert.Equal(t, "kept", n.Message)
}
