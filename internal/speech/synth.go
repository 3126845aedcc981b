package speech

import (
	"context"
	"strings"
	"sync"
	"unicode"

	"github.com/hammamikhairi/akira/internal/domain"
	"github.com/hammamikhairi/akira/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.SpeechEngine = (*Synth)(nil)
	_ Synthesizer         = (*AzureClient)(nil)
	_ AudioOut            = (*Player)(nil)
)

// Synthesizer turns an utterance into WAV audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, u domain.Utterance) ([]byte, error)
	Voice() string
}

// AudioOut plays WAV audio. Play blocks until the clip ends or Stop.
type AudioOut interface {
	Play(wav []byte) error
	Stop()
	Pause()
	Resume()
}

// SynthOption configures the Synth.
type SynthOption func(*Synth)

// WithChunkSize sets the approximate max character count per TTS chunk.
// Text longer than this is split at sentence boundaries and synthesized
// in parallel so playback doesn't stall between sentences.
func WithChunkSize(n int) SynthOption {
	return func(s *Synth) {
		s.chunkSize = n
	}
}

// WithCacheDir sets the filesystem directory used for persistent audio
// caching. If empty, the disk layer is disabled (pure in-memory).
func WithCacheDir(dir string) SynthOption {
	return func(s *Synth) {
		s.cacheDir = dir
	}
}

// WithDiskWrite controls whether new cache entries are written to disk.
// Even when false, existing on-disk entries are still read.
func WithDiskWrite(enabled bool) SynthOption {
	return func(s *Synth) {
		s.diskWrite = enabled
	}
}

// Synth is the speech engine. Utterances are queued and spoken one at a
// time: chunk -> synthesize (parallel) -> play (sequential). Pause, Resume
// and Cancel act on the engine as a whole.
type Synth struct {
	tts   Synthesizer
	out   AudioOut
	log   *logger.Logger
	cache *AudioCache

	mu          sync.Mutex
	queue       []domain.Utterance
	notify      chan struct{}
	speaking    bool
	paused      bool
	interrupted bool // set by Cancel, checked between chunks
	running     bool
	chunkSize   int
	cacheDir    string
	diskWrite   bool
}

// NewSynth creates a speech engine over tts and out. Call Start before
// speaking.
func NewSynth(tts Synthesizer, out AudioOut, log *logger.Logger, opts ...SynthOption) *Synth {
	s := &Synth{
		tts:       tts,
		out:       out,
		log:       log,
		notify:    make(chan struct{}, 1),
		chunkSize: 200,
		diskWrite: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cache = NewAudioCache(tts.Voice(), s.cacheDir, s.diskWrite, log)
	return s
}

// Start begins the processing goroutine. It stops when ctx is done.
func (s *Synth) Start(ctx context.Context) {
	s.mu.Lock()
	s.running = true
	s.mu.Unlock()

	go s.processLoop(ctx)
	s.log.Info("speech engine started")
}

// Speak queues u. Non-blocking. Fails with ErrSpeechUnavailable when the
// engine is not running.
func (s *Synth) Speak(ctx context.Context, u domain.Utterance) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return domain.ErrSpeechUnavailable
	}
	s.queue = append(s.queue, u)
	qLen := len(s.queue)
	s.mu.Unlock()

	s.log.Debug("synth: queued (queue_len=%d): %s", qLen, truncate(u.Text, 60))

	select {
	case s.notify <- struct{}{}:
	default: // already signaled
	}
	return nil
}

// Cancel stops the current audio, clears the queue, and aborts any
// in-progress multi-chunk playback. Also clears a pause.
func (s *Synth) Cancel() {
	s.mu.Lock()
	s.queue = s.queue[:0]
	s.interrupted = true
	s.paused = false
	s.mu.Unlock()

	s.out.Stop()
	s.log.Debug("synth: cancelled, queue cleared")
}

// Pause pauses playback. Queued utterances wait.
func (s *Synth) Pause() {
	s.mu.Lock()
	s.paused = true
	s.mu.Unlock()
	s.out.Pause()
}

// Resume continues after Pause.
func (s *Synth) Resume() {
	s.mu.Lock()
	s.paused = false
	s.mu.Unlock()
	s.out.Resume()
}

// Paused reports whether the engine is paused.
func (s *Synth) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// Speaking reports whether an utterance is being synthesized or played.
func (s *Synth) Speaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speaking
}

// QueueLen returns the number of pending utterances.
func (s *Synth) QueueLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Cache returns the audio cache. Useful for stats/logging.
func (s *Synth) Cache() *AudioCache { return s.cache }

func (s *Synth) processLoop(ctx context.Context) {
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()
	for {
		select {
		case <-ctx.Done():
			s.log.Info("speech engine stopped")
			return
		case <-s.notify:
			s.drain(ctx)
		}
	}
}

// drain speaks queued utterances in order until the queue is empty.
func (s *Synth) drain(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		s.mu.Lock()
		s.interrupted = false
		if len(s.queue) == 0 {
			s.mu.Unlock()
			return
		}
		u := s.queue[0]
		s.queue = s.queue[1:]
		s.speaking = true
		s.mu.Unlock()

		s.process(ctx, u)

		s.mu.Lock()
		s.speaking = false
		s.mu.Unlock()
	}
}

// process synthesizes and plays one utterance, using chunked parallel
// synthesis for long text.
func (s *Synth) process(ctx context.Context, u domain.Utterance) {
	s.log.Debug("synth: speaking: %s", truncate(u.Text, 60))

	chunks := s.splitChunks(u.Text)
	if len(chunks) <= 1 {
		s.synthAndPlay(ctx, u)
		return
	}

	s.log.Debug("synth: split into %d chunks for parallel synthesis", len(chunks))

	type result struct {
		idx   int
		audio []byte
		err   error
	}
	results := make(chan result, len(chunks))

	for i, chunk := range chunks {
		part := u
		part.Text = chunk
		go func(idx int, part domain.Utterance) {
			audio, err := s.synthesizeWithCache(ctx, part)
			results <- result{idx: idx, audio: audio, err: err}
		}(i, part)
	}

	audioSlots := make([][]byte, len(chunks))
	for range chunks {
		r := <-results
		if r.err != nil {
			s.log.Error("synth: chunk %d synthesis failed: %v", r.idx, r.err)
		} else {
			audioSlots[r.idx] = r.audio
		}
	}

	for i, audio := range audioSlots {
		if audio == nil {
			continue
		}
		if ctx.Err() != nil || s.isInterrupted() {
			s.log.Debug("synth: aborting chunk playback")
			return
		}
		if err := s.out.Play(audio); err != nil {
			s.log.Error("synth: chunk %d playback failed: %v", i, err)
		}
	}
}

func (s *Synth) synthAndPlay(ctx context.Context, u domain.Utterance) {
	audio, err := s.synthesizeWithCache(ctx, u)
	if err != nil {
		s.log.Error("synth: synthesis failed: %v", err)
		return
	}
	if s.isInterrupted() {
		return
	}
	if err := s.out.Play(audio); err != nil {
		s.log.Error("synth: playback failed: %v", err)
	}
}

func (s *Synth) isInterrupted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interrupted
}

// synthesizeWithCache checks the cache first, otherwise synthesizes and
// stores the result.
func (s *Synth) synthesizeWithCache(ctx context.Context, u domain.Utterance) ([]byte, error) {
	if audio, ok := s.cache.Get(u); ok {
		return audio, nil
	}
	audio, err := s.tts.Synthesize(ctx, u)
	if err != nil {
		return nil, err
	}
	s.cache.Put(u, audio)
	return audio, nil
}

// splitChunks breaks text into sentence-boundary chunks of approximately
// s.chunkSize characters.
func (s *Synth) splitChunks(text string) []string {
	if s.chunkSize <= 0 || len(text) <= s.chunkSize {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder

	for _, sentence := range splitSentences(text) {
		if current.Len() > 0 && current.Len()+len(sentence) > s.chunkSize {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}
		current.WriteString(sentence)
	}
	if current.Len() > 0 {
		chunks = append(chunks, strings.TrimSpace(current.String()))
	}

	out := chunks[:0]
	for _, c := range chunks {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

// splitSentences splits text at sentence boundaries (. ! ?) keeping the
// punctuation attached to the preceding sentence.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		current.WriteRune(runes[i])
		if isSentenceEnd(runes[i]) {
			for i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
				i++
				current.WriteRune(runes[i])
			}
			sentences = append(sentences, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		sentences = append(sentences, current.String())
	}
	return sentences
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// truncate shortens s to at most maxLen runes for logging.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:max(maxLen-3, 0)]) + "..."
}
