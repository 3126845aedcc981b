// Package timer implements the inactivity monitor and a small debouncer.
// Both are restartable one-shot timers: every trigger pushes the deadline
// forward, and the callback runs once the deadline passes quietly.
package timer

import (
	"sync"
	"time"

	"github.com/hammamikhairi/akira/internal/domain"
	"github.com/hammamikhairi/akira/internal/logger"
)

// DefaultIdleTimeout is how long the user may stay quiet before the
// inactivity callback runs.
const DefaultIdleTimeout = 30 * time.Minute

// Option configures the monitor.
type Option func(*Monitor)

// WithTimeout sets the idle period.
func WithTimeout(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// WithKinds overrides which activity kinds reset the countdown.
func WithKinds(kinds ...domain.ActivityKind) Option {
	return func(m *Monitor) {
		m.kinds = kinds
	}
}

// Monitor watches an activity source and calls back once the user has
// been idle for the configured timeout. Any qualifying event before the
// deadline cancels the countdown and starts it again from zero.
type Monitor struct {
	source   domain.ActivitySource
	callback func()
	log      *logger.Logger
	timeout  time.Duration
	kinds    []domain.ActivityKind

	mu       sync.Mutex
	timer    *time.Timer
	gen      uint64 // bumped on every reset; stale timers compare and bail
	deadline time.Time
	active   bool
	disposed bool
	removers []func()
}

// Start creates a monitor, attaches it to source and starts the first
// countdown. Callers must call Dispose to detach the listeners.
func Start(source domain.ActivitySource, callback func(), log *logger.Logger, opts ...Option) *Monitor {
	m := &Monitor{
		source:   source,
		callback: callback,
		log:      log,
		timeout:  DefaultIdleTimeout,
		kinds:    domain.QualifyingActivity,
	}
	for _, opt := range opts {
		opt(m)
	}

	for _, kind := range m.kinds {
		m.removers = append(m.removers, source.Listen(kind, m.Reset))
	}
	m.Reset()

	m.log.Debug("idle monitor started (timeout=%s, kinds=%v)", m.timeout, m.kinds)
	return m
}

// Watch is Start for callers that only need the disposer.
func Watch(source domain.ActivitySource, callback func(), log *logger.Logger, opts ...Option) (dispose func()) {
	return Start(source, callback, log, opts...).Dispose
}

// Reset restarts the countdown. Activity listeners call it; it is also
// safe to call directly. No-op after Dispose.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disposed {
		return
	}
	if m.timer != nil {
		m.timer.Stop()
	}
	m.gen++
	gen := m.gen
	m.deadline = time.Now().Add(m.timeout)
	m.active = true
	m.timer = time.AfterFunc(m.timeout, func() { m.fire(gen) })
}

func (m *Monitor) fire(gen uint64) {
	m.mu.Lock()
	if m.disposed || gen != m.gen {
		m.mu.Unlock()
		return
	}
	m.active = false
	m.timer = nil
	m.mu.Unlock()

	m.log.Info("user idle for %s", m.timeout)
	m.callback()
}

// Dispose stops the pending countdown and detaches every listener. Once
// it returns no new callback is started; a callback that was already due
// may still be finishing. Safe to call more than once.
func (m *Monitor) Dispose() {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return
	}
	m.disposed = true
	m.active = false
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	removers := m.removers
	m.removers = nil
	m.mu.Unlock()

	for _, remove := range removers {
		remove()
	}
	m.log.Debug("idle monitor disposed")
}

// Deadline returns when the callback is due and whether a countdown is
// running.
func (m *Monitor) Deadline() (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deadline, m.active
}
