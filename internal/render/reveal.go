// Package render drives the character-by-character reveal of bot replies
// and the scroll bookkeeping of the message view.
package render

import (
	"context"
	"sync"
	"time"
)

// DefaultSpeed is the delay between revealed characters.
const DefaultSpeed = 15 * time.Millisecond

// Target receives revealed text. Append is called from the reveal
// goroutine, one character at a time, in order.
type Target interface {
	Append(s string)
}

// TargetFunc adapts a function to Target.
type TargetFunc func(s string)

// Append calls f(s).
func (f TargetFunc) Append(s string) { f(s) }

// Option configures a reveal.
type Option func(*Reveal)

// WithSpeed sets the per-character interval. Non-positive values keep the
// default.
func WithSpeed(d time.Duration) Option {
	return func(r *Reveal) {
		if d > 0 {
			r.speed = d
		}
	}
}

// WithScroll sets a hook that runs after each revealed character,
// typically a scroll-to-bottom on the view.
func WithScroll(fn func()) Option {
	return func(r *Reveal) {
		r.scroll = fn
	}
}

// Reveal is the handle of a running reveal animation.
type Reveal struct {
	speed  time.Duration
	scroll func()

	mu       sync.Mutex // held while appending so Cancel can fence
	stopped  bool
	revealed int

	cancel     chan struct{}
	cancelOnce sync.Once
	done       chan struct{}
}

// TypeOut starts revealing text into target one character (rune) at a
// time and returns immediately. The animation stops on its own once every
// character is shown, or earlier when Cancel is called.
//
// Cancel must not be called from the goroutine that services Append, or
// the two will wait on each other.
func TypeOut(target Target, text string, opts ...Option) *Reveal {
	r := &Reveal{
		speed:  DefaultSpeed,
		cancel: make(chan struct{}),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}

	go r.run(target, []rune(text))
	return r
}

func (r *Reveal) run(target Target, runes []rune) {
	defer close(r.done)
	if len(runes) == 0 {
		return
	}

	ticker := time.NewTicker(r.speed)
	defer ticker.Stop()

	for i := 0; i < len(runes); i++ {
		select {
		case <-r.cancel:
			return
		case <-ticker.C:
		}

		r.mu.Lock()
		if r.stopped {
			r.mu.Unlock()
			return
		}
		target.Append(string(runes[i]))
		r.revealed++
		if r.scroll != nil {
			r.scroll()
		}
		r.mu.Unlock()
	}
}

// Cancel stops the animation. No character is appended after Cancel
// returns. Safe to call more than once and after completion.
func (r *Reveal) Cancel() {
	r.cancelOnce.Do(func() { close(r.cancel) })
	r.mu.Lock()
	r.stopped = true
	r.mu.Unlock()
}

// Done is closed when the animation finishes or is cancelled.
func (r *Reveal) Done() <-chan struct{} { return r.done }

// Wait blocks until the animation ends or ctx is done.
func (r *Reveal) Wait(ctx context.Context) error {
	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Revealed returns how many characters have been appended so far.
func (r *Reveal) Revealed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.revealed
}
