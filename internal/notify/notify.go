package notify

import (
	"sync"
	"time"
)

// Severity classifies a notice for styling.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// DefaultTTL is how long a notice stays visible.
const DefaultTTL = 5 * time.Second

// Notice is a transient status message.
type Notice struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

func Info(msg string) Notice    { return Notice{Message: msg, Severity: SeverityInfo} }
func Success(msg string) Notice { return Notice{Message: msg, Severity: SeveritySuccess} }
func Error(msg string) Notice   { return Notice{Message: msg, Severity: SeverityError} }

// ScheduleFunc runs f after d and returns a function that cancels it.
type ScheduleFunc func(d time.Duration, f func()) (cancel func())

func afterFunc(d time.Duration, f func()) func() {
	t := time.AfterFunc(d, f)
	return func() { t.Stop() }
}

// Surface is a single shared notice slot. Each Show replaces what is visible
// and supersedes any pending clear, so a newer notice is never hidden by an
// older notice's timer.
type Surface struct {
	mu       sync.Mutex
	emitMu   sync.Mutex // orders onChange calls; taken before mu is released
	current  Notice
	visible  bool
	gen      uint64
	cancel   func()
	ttl      time.Duration
	schedule ScheduleFunc
	onChange func(n Notice, visible bool)
}

type Option func(*Surface)

// WithTTL overrides DefaultTTL.
func WithTTL(d time.Duration) Option {
	return func(s *Surface) { s.ttl = d }
}

// WithScheduler replaces time.AfterFunc, mostly for tests.
func WithScheduler(fn ScheduleFunc) Option {
	return func(s *Surface) { s.schedule = fn }
}

// OnChange registers a callback fired after every show and clear, in the
// order the state changed. It must not block for long or call back into the
// surface.
func OnChange(fn func(n Notice, visible bool)) Option {
	return func(s *Surface) { s.onChange = fn }
}

func NewSurface(opts ...Option) *Surface {
	s := &Surface{ttl: DefaultTTL, schedule: afterFunc}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Show makes n visible and schedules it to clear after the TTL.
func (s *Surface) Show(n Notice) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen
	s.current = n
	s.visible = true
	s.cancel = s.schedule(s.ttl, func() { s.clear(gen) })
	s.emit(n, true)
}

func (s *Surface) clear(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || !s.visible {
		s.mu.Unlock()
		return
	}
	s.current = Notice{}
	s.visible = false
	s.cancel = nil
	s.emit(Notice{}, false)
}

// emit hands the state lock over to emitMu, so callbacks run outside mu but
// never overtake one another. Called with mu held.
func (s *Surface) emit(n Notice, visible bool) {
	cb := s.onChange
	s.emitMu.Lock()
	s.mu.Unlock()
	defer s.emitMu.Unlock()
	if cb != nil {
		cb(n, visible)
	}
}

// Current returns the visible notice, if any.
func (s *Surface) Current() (Notice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.visible
}

// Close cancels a pending clear without firing callbacks.
func (s *Surface) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
}
