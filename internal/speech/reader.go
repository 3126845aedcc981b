package speech

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"github.com/hammamikhairi/akira/internal/format"
	"github.com/hammamikhairi/akira/internal/logger"
)

// Reader reads bot replies aloud when enabled. The toggle is runtime
// state; persisting it is up to the caller.
type Reader struct {
	speaker *Speaker
	opts    Options
	log     *logger.Logger

	mu      sync.Mutex
	enabled bool
	last    *Handle
}

// NewReader creates a reader that speaks through speaker with opts.
func NewReader(speaker *Speaker, opts Options, enabled bool, log *logger.Logger) *Reader {
	return &Reader{speaker: speaker, opts: opts, enabled: enabled, log: log}
}

// SetEnabled turns reading on or off. Turning it off stops current speech.
func (r *Reader) SetEnabled(on bool) {
	r.mu.Lock()
	r.enabled = on
	h := r.last
	r.mu.Unlock()

	if !on && h != nil {
		h.Cancel()
	}
	r.log.Debug("reader enabled=%v", on)
}

// Enabled reports the toggle.
func (r *Reader) Enabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enabled
}

// Available reports whether anything can be spoken at all.
func (r *Reader) Available() bool { return r.speaker.Available() }

// Read speaks text if reading is enabled. Returns whether it was queued.
func (r *Reader) Read(ctx context.Context, text string) bool {
	if !r.Enabled() {
		return false
	}
	h, ok := r.speaker.Speak(ctx, cleanForSpeech(text), r.opts)
	if !ok {
		return false
	}
	r.mu.Lock()
	r.last = h
	r.mu.Unlock()
	return true
}

// Handle returns the handle of the most recent utterance, or nil.
func (r *Reader) Handle() *Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

var markdownNoise = regexp.MustCompile("[*_`#>]+")
var whitespaceRun = regexp.MustCompile(`\s+`)

// cleanForSpeech strips formatting artifacts that shouldn't be spoken.
func cleanForSpeech(msg string) string {
	cleaned := format.SanitizeTerminal(msg)
	cleaned = markdownNoise.ReplaceAllString(cleaned, "")
	cleaned = whitespaceRun.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}
