package conversation

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hammamikhairi/akira/internal/chatapi"
	"github.com/hammamikhairi/akira/internal/domain"
	"github.com/hammamikhairi/akira/internal/logger"
	"github.com/hammamikhairi/akira/internal/render"
)

// ── Fakes ────────────────────────────────────────────────────────

type fakeView struct {
	mu       sync.Mutex
	events   []string
	messages []domain.Message
	bubbles  map[string]*strings.Builder
}

func newFakeView() *fakeView {
	return &fakeView{bubbles: make(map[string]*strings.Builder)}
}

func (v *fakeView) event(e string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.events = append(v.events, e)
}

func (v *fakeView) AppendUser(m domain.Message) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.events = append(v.events, "user:"+m.Text)
	v.messages = append(v.messages, m)
}

func (v *fakeView) AppendBot(m domain.Message) render.Target {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.events = append(v.events, "bot")
	v.messages = append(v.messages, m)
	b := &strings.Builder{}
	v.bubbles[m.ID] = b
	return render.TargetFunc(func(s string) {
		v.mu.Lock()
		defer v.mu.Unlock()
		b.WriteString(s)
	})
}

func (v *fakeView) FinishBot(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.events = append(v.events, "finish")
	for _, m := range v.messages {
		if m.ID == id {
			v.bubbles[id].Reset()
			v.bubbles[id].WriteString(m.Text)
		}
	}
}

func (v *fakeView) AppendError(m domain.Message) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.events = append(v.events, "error:"+m.Text)
	v.messages = append(v.messages, m)
}

func (v *fakeView) ClearMessages() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.events = append(v.events, "clear")
	v.messages = nil
}

func (v *fakeView) ClearInput()     { v.event("clearInput") }
func (v *fakeView) ShowTyping()     { v.event("showTyping") }
func (v *fakeView) HideTyping()     { v.event("hideTyping") }
func (v *fakeView) FocusInput()     { v.event("focus") }
func (v *fakeView) ScrollToBottom() {}

func (v *fakeView) snapshot() ([]string, []domain.Message) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.events...), append([]domain.Message(nil), v.messages...)
}

func (v *fakeView) bubble(id string) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if b, ok := v.bubbles[id]; ok {
		return b.String()
	}
	return ""
}

type fakeBackend struct {
	calls atomic.Int32
	fn    func(ctx context.Context, msg string) (domain.ChatReply, error)
}

func (b *fakeBackend) Send(ctx context.Context, msg string) (domain.ChatReply, error) {
	b.calls.Add(1)
	return b.fn(ctx, msg)
}

func replyWith(r domain.ChatReply, err error) *fakeBackend {
	return &fakeBackend{fn: func(context.Context, string) (domain.ChatReply, error) { return r, err }}
}

func newTestController(api domain.ChatBackend, view View, opts ...Option) *Controller {
	opts = append([]Option{WithSpeed(time.Millisecond), WithGreetDelay(time.Millisecond)}, opts...)
	return NewController(api, view, logger.New(logger.LevelOff, nil), opts...)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func contains(events []string, e string) bool {
	for _, x := range events {
		if x == e {
			return true
		}
	}
	return false
}

// ── Tests ────────────────────────────────────────────────────────

func TestSendRejectsBlankInput(t *testing.T) {
	view := newFakeView()
	api := replyWith(domain.ChatReply{Response: "x"}, nil)
	c := newTestController(api, view)
	defer c.Close()

	for _, in := range []string{"", "   ", "\n\t "} {
		if err := c.Send(context.Background(), in); !errors.Is(err, domain.ErrEmptyMessage) {
			t.Fatalf("Send(%q) = %v, want ErrEmptyMessage", in, err)
		}
	}
	if api.calls.Load() != 0 {
		t.Fatalf("expected no network calls, got %d", api.calls.Load())
	}
	if events, _ := view.snapshot(); len(events) != 0 {
		t.Fatalf("expected view untouched, got %v", events)
	}
}

func TestSendRevealsReply(t *testing.T) {
	view := newFakeView()
	var gotMsg string
	api := &fakeBackend{fn: func(_ context.Context, msg string) (domain.ChatReply, error) {
		gotMsg = msg
		return domain.ChatReply{Response: "hi there"}, nil
	}}
	fixed := time.Date(2026, 1, 2, 9, 5, 0, 0, time.UTC)
	c := newTestController(api, view, WithClock(func() time.Time { return fixed }))
	defer c.Close()

	if err := c.Send(context.Background(), "  hello "); err != nil {
		t.Fatalf("send: %v", err)
	}
	if gotMsg != "hello" {
		t.Fatalf("backend got %q, want trimmed %q", gotMsg, "hello")
	}
	if c.InFlight() {
		t.Fatal("in-flight flag still set after send returned")
	}

	events, msgs := view.snapshot()
	want := []string{"user:hello", "clearInput", "showTyping", "hideTyping", "bot", "focus"}
	if strings.Join(events, ",") != strings.Join(want, ",") {
		t.Fatalf("events = %v, want %v", events, want)
	}
	if len(msgs) != 2 || msgs[1].Role != domain.RoleBot || msgs[1].Text != "hi there" {
		t.Fatalf("unexpected messages: %+v", msgs)
	}
	if !msgs[0].Timestamp.Equal(fixed) || msgs[0].ID == "" || msgs[0].ID == msgs[1].ID {
		t.Fatalf("bad message metadata: %+v", msgs)
	}

	botID := msgs[1].ID
	waitFor(t, "reveal", func() bool { return view.bubble(botID) == "hi there" })
}

func TestSendNormalisesReply(t *testing.T) {
	tests := []struct {
		name, reply, want string
	}{
		// Blank-line runs collapse to one paragraph break.
		{"paragraph break", "One. Two\n\n\n\nThree", "One.\nTwo\n\nThree"},
		// Whitespace after sentence punctuation, newlines included, becomes one break.
		{"break after punctuation", "One. Two!\n\n\n\nThree", "One.\nTwo!\nThree"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := newFakeView()
			c := newTestController(replyWith(domain.ChatReply{Response: tt.reply}, nil), view)
			defer c.Close()

			if err := c.Send(context.Background(), "go"); err != nil {
				t.Fatalf("send: %v", err)
			}
			_, msgs := view.snapshot()
			if got := msgs[1].Text; got != tt.want {
				t.Fatalf("bot text = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSendWhileInFlightIsIgnored(t *testing.T) {
	view := newFakeView()
	entered := make(chan struct{})
	release := make(chan struct{})
	api := &fakeBackend{fn: func(context.Context, string) (domain.ChatReply, error) {
		close(entered)
		<-release
		return domain.ChatReply{Response: "done"}, nil
	}}
	c := newTestController(api, view)
	defer c.Close()

	errc := make(chan error, 1)
	go func() { errc <- c.Send(context.Background(), "first") }()
	<-entered

	if !c.InFlight() {
		t.Fatal("expected in-flight during request")
	}
	if err := c.Send(context.Background(), "second"); !errors.Is(err, domain.ErrBusy) {
		t.Fatalf("second send = %v, want ErrBusy", err)
	}
	close(release)
	if err := <-errc; err != nil {
		t.Fatalf("first send: %v", err)
	}

	if n := api.calls.Load(); n != 1 {
		t.Fatalf("expected exactly one POST, got %d", n)
	}
	events, _ := view.snapshot()
	if contains(events, "user:second") {
		t.Fatalf("rejected send reached the view: %v", events)
	}
}

func TestSendServerErrorShowsGenericMessage(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/chat", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	view := newFakeView()
	api := chatapi.NewClient(srv.URL+"/chat", logger.New(logger.LevelOff, nil))
	c := newTestController(api, view)
	defer c.Close()

	if err := c.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("send: %v", err)
	}
	events, msgs := view.snapshot()
	if !contains(events, "error:"+GenericError) {
		t.Fatalf("expected generic error, got %v", events)
	}
	if contains(events, "bot") {
		t.Fatalf("no bot message expected on failure: %v", events)
	}
	if msgs[len(msgs)-1].Role != domain.RoleError {
		t.Fatalf("last message role = %s, want error", msgs[len(msgs)-1].Role)
	}
	if c.InFlight() {
		t.Fatal("in-flight flag not reset after failure")
	}
	if events[len(events)-1] != "focus" {
		t.Fatalf("input not refocused: %v", events)
	}

	// The guard is released, so the next send goes out.
	if err := c.Send(context.Background(), "again"); err != nil {
		t.Fatalf("retry send: %v", err)
	}
}

func TestSendShowsServerErrorField(t *testing.T) {
	view := newFakeView()
	c := newTestController(replyWith(domain.ChatReply{Error: "model overloaded"}, nil), view)
	defer c.Close()

	if err := c.Send(context.Background(), "hi"); err != nil {
		t.Fatalf("send: %v", err)
	}
	events, _ := view.snapshot()
	if !contains(events, "error:model overloaded") {
		t.Fatalf("expected server error text, got %v", events)
	}
}

func TestSendEmptyReplyAppendsNothing(t *testing.T) {
	view := newFakeView()
	c := newTestController(replyWith(domain.ChatReply{}, nil), view)
	defer c.Close()

	if err := c.Send(context.Background(), "hi"); err != nil {
		t.Fatalf("send: %v", err)
	}
	_, msgs := view.snapshot()
	if len(msgs) != 1 {
		t.Fatalf("expected only the user message, got %+v", msgs)
	}
	if len(c.Messages()) != 1 {
		t.Fatalf("history = %d messages, want 1", len(c.Messages()))
	}
}

func TestNewRevealFinishesPrevious(t *testing.T) {
	view := newFakeView()
	c := newTestController(replyWith(domain.ChatReply{Response: "ok"}, nil), view,
		WithSpeed(time.Hour))
	defer c.Close()

	greeting := strings.Repeat("slow ", 20)
	if err := c.Greet(context.Background(), greeting); err != nil {
		t.Fatalf("greet: %v", err)
	}
	_, msgs := view.snapshot()
	greetID := msgs[0].ID
	if view.bubble(greetID) != "" {
		t.Fatalf("greeting revealed too early: %q", view.bubble(greetID))
	}

	if err := c.Send(context.Background(), "hi"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got := view.bubble(greetID); got != greeting {
		t.Fatalf("interrupted greeting = %q, want full text", got)
	}
	events, _ := view.snapshot()
	if !contains(events, "finish") {
		t.Fatalf("expected FinishBot, got %v", events)
	}
}

func TestGreetDefaultsAndHonoursContext(t *testing.T) {
	view := newFakeView()
	var hooked []string
	c := newTestController(replyWith(domain.ChatReply{}, nil), view,
		WithReplyHook(func(m domain.Message) { hooked = append(hooked, m.Text) }))
	defer c.Close()

	if err := c.Greet(context.Background(), ""); err != nil {
		t.Fatalf("greet: %v", err)
	}
	_, msgs := view.snapshot()
	if len(msgs) != 1 || msgs[0].Text != DefaultGreeting {
		t.Fatalf("unexpected greeting: %+v", msgs)
	}
	if len(hooked) != 1 || hooked[0] != DefaultGreeting {
		t.Fatalf("reply hook calls = %v", hooked)
	}

	slow := newTestController(replyWith(domain.ChatReply{}, nil), newFakeView(), WithGreetDelay(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := slow.Greet(ctx, "hi"); !errors.Is(err, context.Canceled) {
		t.Fatalf("Greet with cancelled ctx = %v, want context.Canceled", err)
	}
}

func TestClearResetsHistory(t *testing.T) {
	view := newFakeView()
	c := newTestController(replyWith(domain.ChatReply{Response: "pong"}, nil), view)
	defer c.Close()

	if err := c.Send(context.Background(), "ping"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(c.Messages()) != 2 {
		t.Fatalf("history = %d, want 2", len(c.Messages()))
	}
	c.Clear()
	if len(c.Messages()) != 0 {
		t.Fatalf("history not cleared: %+v", c.Messages())
	}
	if _, msgs := view.snapshot(); len(msgs) != 0 {
		t.Fatalf("view not cleared: %+v", msgs)
	}
}
