package render

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// recorder collects appended text.
type recorder struct {
	mu  sync.Mutex
	buf strings.Builder
	n   int
}

func (r *recorder) Append(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf.WriteString(s)
	r.n++
}

func (r *recorder) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.String()
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n
}

func TestTypeOutRevealsEveryCharacter(t *testing.T) {
	rec := &recorder{}
	scrolls := 0
	text := "héllo\nwörld"

	rev := TypeOut(rec, text, WithSpeed(time.Millisecond), WithScroll(func() { scrolls++ }))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rev.Wait(ctx); err != nil {
		t.Fatalf("reveal did not finish: %v", err)
	}

	if got := rec.String(); got != text {
		t.Fatalf("expected %q, got %q", text, got)
	}
	runes := len([]rune(text))
	if rec.count() != runes {
		t.Fatalf("expected %d appends (one per rune), got %d", runes, rec.count())
	}
	if scrolls != runes {
		t.Fatalf("expected a scroll after each character, got %d", scrolls)
	}
	if rev.Revealed() != runes {
		t.Fatalf("Revealed() = %d, want %d", rev.Revealed(), runes)
	}
}

func TestTypeOutEmptyTextFinishesImmediately(t *testing.T) {
	rev := TypeOut(&recorder{}, "")
	select {
	case <-rev.Done():
	case <-time.After(time.Second):
		t.Fatal("empty reveal never finished")
	}
}

func TestCancelStopsAppends(t *testing.T) {
	rec := &recorder{}
	rev := TypeOut(rec, strings.Repeat("x", 1000), WithSpeed(2*time.Millisecond))

	time.Sleep(20 * time.Millisecond)
	rev.Cancel()
	after := rec.count()

	<-rev.Done()
	time.Sleep(20 * time.Millisecond)

	if rec.count() != after {
		t.Fatalf("appends continued after Cancel: %d -> %d", after, rec.count())
	}
	if after >= 1000 {
		t.Fatal("reveal finished before cancel; test is not exercising cancellation")
	}

	// Second cancel is a no-op.
	rev.Cancel()
}

func TestWaitHonoursContext(t *testing.T) {
	rev := TypeOut(&recorder{}, strings.Repeat("y", 500), WithSpeed(50*time.Millisecond))
	defer rev.Cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := rev.Wait(ctx); err != context.DeadlineExceeded {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
}
