package speech

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/hammamikhairi/akira/internal/domain"
	"github.com/hammamikhairi/akira/internal/logger"
)

type fakeTTS struct {
	mu    sync.Mutex
	calls []string
	fail  string
}

func (f *fakeTTS) Voice() string { return "test-voice" }

func (f *fakeTTS) Synthesize(_ context.Context, u domain.Utterance) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, u.Text)
	if f.fail != "" && strings.Contains(u.Text, f.fail) {
		return nil, errors.New("synthesis failed")
	}
	return []byte(u.Text), nil
}

func (f *fakeTTS) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakeOut plays instantly unless hold is set, in which case Play blocks
// until Stop or release.
type fakeOut struct {
	mu      sync.Mutex
	played  []string
	hold    bool
	release chan struct{}
	stops   int
	paused  bool
}

func newFakeOut(hold bool) *fakeOut {
	return &fakeOut{hold: hold, release: make(chan struct{}, 16)}
}

func (o *fakeOut) Play(wav []byte) error {
	o.mu.Lock()
	o.played = append(o.played, string(wav))
	hold := o.hold
	o.mu.Unlock()
	if hold {
		<-o.release
	}
	return nil
}

func (o *fakeOut) Stop() {
	o.mu.Lock()
	o.stops++
	o.paused = false
	hold := o.hold
	o.mu.Unlock()
	if hold {
		o.release <- struct{}{}
	}
}

func (o *fakeOut) Pause()  { o.mu.Lock(); o.paused = true; o.mu.Unlock() }
func (o *fakeOut) Resume() { o.mu.Lock(); o.paused = false; o.mu.Unlock() }

func (o *fakeOut) playedSnapshot() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.played...)
}

func waitUntil(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func startSynth(t *testing.T, tts Synthesizer, out AudioOut, opts ...SynthOption) *Synth {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	s := NewSynth(tts, out, logger.New(logger.LevelOff, nil), opts...)
	s.Start(ctx)
	return s
}

func TestSynthSpeaksInOrder(t *testing.T) {
	tts := &fakeTTS{}
	out := newFakeOut(false)
	s := startSynth(t, tts, out)

	for _, text := range []string{"one", "two", "three"} {
		if err := s.Speak(context.Background(), domain.Utterance{Text: text}); err != nil {
			t.Fatalf("speak %s: %v", text, err)
		}
	}
	waitUntil(t, "all played", func() bool { return len(out.playedSnapshot()) == 3 })

	if got := strings.Join(out.playedSnapshot(), ","); got != "one,two,three" {
		t.Fatalf("play order = %s", got)
	}
	waitUntil(t, "idle", func() bool { return !s.Speaking() })
}

func TestSynthCachesAudio(t *testing.T) {
	tts := &fakeTTS{}
	out := newFakeOut(false)
	s := startSynth(t, tts, out)

	u := domain.Utterance{Text: "hello", Lang: "en-US", Rate: 1, Pitch: 1, Volume: 1}
	s.Speak(context.Background(), u)
	s.Speak(context.Background(), u)
	waitUntil(t, "both played", func() bool { return len(out.playedSnapshot()) == 2 })

	if n := tts.callCount(); n != 1 {
		t.Fatalf("expected 1 synthesis for repeated text, got %d", n)
	}

	// A different rate is different audio.
	u.Rate = 2
	s.Speak(context.Background(), u)
	waitUntil(t, "third played", func() bool { return len(out.playedSnapshot()) == 3 })
	if n := tts.callCount(); n != 2 {
		t.Fatalf("expected re-synthesis for new prosody, got %d calls", n)
	}
}

func TestSynthCancelClearsQueue(t *testing.T) {
	tts := &fakeTTS{}
	out := newFakeOut(true)
	s := startSynth(t, tts, out)

	s.Speak(context.Background(), domain.Utterance{Text: "first"})
	waitUntil(t, "first playing", func() bool { return len(out.playedSnapshot()) == 1 })

	s.Speak(context.Background(), domain.Utterance{Text: "second"})
	s.Speak(context.Background(), domain.Utterance{Text: "third"})
	if !s.Speaking() {
		t.Fatal("expected speaking while first clip plays")
	}

	s.Cancel()
	waitUntil(t, "idle after cancel", func() bool { return !s.Speaking() })
	if s.QueueLen() != 0 {
		t.Fatalf("queue not cleared: %d", s.QueueLen())
	}
	if got := out.playedSnapshot(); len(got) != 1 {
		t.Fatalf("queued utterances played after cancel: %v", got)
	}
}

func TestSynthPauseResume(t *testing.T) {
	out := newFakeOut(false)
	s := startSynth(t, &fakeTTS{}, out)

	s.Pause()
	if !s.Paused() || !out.paused {
		t.Fatal("pause did not reach engine and output")
	}
	s.Resume()
	if s.Paused() || out.paused {
		t.Fatal("resume did not reach engine and output")
	}

	s.Pause()
	s.Cancel()
	if s.Paused() {
		t.Fatal("cancel should clear pause")
	}
}

func TestSynthChunksLongText(t *testing.T) {
	tts := &fakeTTS{fail: "Broken"}
	out := newFakeOut(false)
	s := startSynth(t, tts, out, WithChunkSize(20))

	text := "First sentence here. Broken sentence now. Last one is fine."
	s.Speak(context.Background(), domain.Utterance{Text: text})
	waitUntil(t, "chunks played", func() bool { return len(out.playedSnapshot()) == 2 })

	got := out.playedSnapshot()
	if got[0] != "First sentence here." || got[1] != "Last one is fine." {
		t.Fatalf("unexpected chunks: %q", got)
	}
}

func TestSynthNotStartedIsUnavailable(t *testing.T) {
	s := NewSynth(&fakeTTS{}, newFakeOut(false), logger.New(logger.LevelOff, nil))
	if err := s.Speak(context.Background(), domain.Utterance{Text: "x"}); !errors.Is(err, domain.ErrSpeechUnavailable) {
		t.Fatalf("expected ErrSpeechUnavailable, got %v", err)
	}
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("Hi there! How are you? Fine.")
	want := []string{"Hi there! ", "How are you? ", "Fine."}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("splitSentences = %q, want %q", got, want)
	}
}

func TestTruncateKeepsRunes(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 60, "short"},
		{"Guten Tag, schön dich zu sehen", 10, "Guten T..."},
		{"こんにちは、元気ですか", 6, "こんに..."},
	}
	for _, tt := range tests {
		got := truncate(tt.in, tt.n)
		if got != tt.want || !utf8.ValidString(got) {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
