// Package display provides the terminal chat view using Bubble Tea.
//
// The [UI] type owns a full-screen program: a scrollable message list, a
// typing indicator, and an auto-resizing input box. Every mutation from
// other goroutines is delivered as a message through Program.Send, so the
// model is only ever touched by the Bubble Tea event loop.
package display

import (
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hammamikhairi/akira/internal/conversation"
	"github.com/hammamikhairi/akira/internal/domain"
	"github.com/hammamikhairi/akira/internal/render"
)

// Compile-time interface check.
var _ conversation.View = (*UI)(nil)

// Publisher receives user activity seen by the view.
type Publisher interface {
	Publish(kind domain.ActivityKind)
}

type nopPublisher struct{}

func (nopPublisher) Publish(domain.ActivityKind) {}

// Option configures the UI.
type Option func(*UI)

// WithActivity forwards key, mouse and scroll events to p.
func WithActivity(p Publisher) Option {
	return func(u *UI) {
		if p != nil {
			u.activity = p
		}
	}
}

// WithTitle sets the header title.
func WithTitle(title string) Option {
	return func(u *UI) { u.title = title }
}

// WithAltScreen controls whether the UI takes over the whole terminal.
func WithAltScreen(on bool) Option {
	return func(u *UI) { u.altScreen = on }
}

// WithProgramOptions passes extra options to the Bubble Tea program, such
// as tea.WithInput and tea.WithOutput.
func WithProgramOptions(opts ...tea.ProgramOption) Option {
	return func(u *UI) { u.programOpts = append(u.programOpts, opts...) }
}

// UI manages the terminal through Bubble Tea.
//
// Call [NewUI] then [UI.Run] (blocking). Other goroutines may call the
// view methods and read from [UI.InputChan] at any time after
// [UI.WaitReady] returns.
type UI struct {
	program   *tea.Program
	inputCh   chan string
	readyCh   chan struct{}
	quitCh    chan struct{}
	activity  Publisher
	title     string
	altScreen bool

	programOpts []tea.ProgramOption
	running     atomic.Bool // set while Run's event loop is live
}

// NewUI creates the display. Call Run() to start.
func NewUI(opts ...Option) *UI {
	u := &UI{
		inputCh:   make(chan string, 16),
		readyCh:   make(chan struct{}),
		quitCh:    make(chan struct{}),
		activity:  nopPublisher{},
		title:     "Akira",
		altScreen: true,
	}
	for _, opt := range opts {
		opt(u)
	}

	popts := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if u.altScreen {
		popts = append(popts, tea.WithAltScreen())
	}
	popts = append(popts, u.programOpts...)

	// Built here so the field is never written once other goroutines can
	// see the UI.
	u.program = tea.NewProgram(newModel(u.title, u.inputCh, u.readyCh, u.activity), popts...)
	return u
}

// InputChan returns submitted input lines.
func (u *UI) InputChan() <-chan string { return u.inputCh }

// WaitReady blocks until the Bubble Tea event loop is running.
func (u *UI) WaitReady() { <-u.readyCh }

// QuitChan is closed when Run returns.
func (u *UI) QuitChan() <-chan struct{} { return u.quitCh }

// Quit tells Bubble Tea to exit. A no-op unless Run is active.
func (u *UI) Quit() {
	if u.running.Load() {
		u.program.Quit()
	}
}

// Run starts the Bubble Tea event loop. Blocks until quit. Call it once.
func (u *UI) Run() error {
	u.running.Store(true)
	_, err := u.program.Run()
	u.running.Store(false)
	close(u.quitCh)
	return err
}

// send delivers msg to the event loop. Dropped before Run and after it
// returns.
func (u *UI) send(msg tea.Msg) {
	if u.running.Load() {
		u.program.Send(msg)
	}
}

// ── conversation.View ────────────────────────────────────────────

// AppendUser adds a user message.
func (u *UI) AppendUser(m domain.Message) { u.send(appendMsg{msg: m}) }

// AppendBot adds an empty bot bubble and returns the target its text is
// revealed into.
func (u *UI) AppendBot(m domain.Message) render.Target {
	u.send(appendMsg{msg: m, reveal: true})
	id := m.ID
	return render.TargetFunc(func(s string) {
		u.send(revealMsg{id: id, text: s})
	})
}

// FinishBot shows the whole text of a bot bubble.
func (u *UI) FinishBot(id string) { u.send(finishMsg{id: id}) }

// AppendError adds an error message.
func (u *UI) AppendError(m domain.Message) { u.send(appendMsg{msg: m}) }

// ClearMessages empties the message list.
func (u *UI) ClearMessages() { u.send(clearMsg{}) }

// ClearInput empties the input box.
func (u *UI) ClearInput() { u.send(clearInputMsg{}) }

// ShowTyping shows the typing indicator.
func (u *UI) ShowTyping() { u.send(typingMsg(true)) }

// HideTyping hides the typing indicator.
func (u *UI) HideTyping() { u.send(typingMsg(false)) }

// FocusInput gives the input box focus.
func (u *UI) FocusInput() { u.send(focusMsg{}) }

// ScrollToBottom scrolls the message list to the end.
func (u *UI) ScrollToBottom() { u.send(scrollBottomMsg{}) }

// ── Extras ───────────────────────────────────────────────────────

// Notice adds a dimmed status line that isn't part of the conversation.
func (u *UI) Notice(text string) { u.send(noticeMsg(text)) }

// SetStatus replaces the right-hand side of the header.
func (u *UI) SetStatus(text string) { u.send(statusMsg(text)) }
