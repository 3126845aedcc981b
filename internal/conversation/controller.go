// Package conversation owns the send pipeline of the chat client: input
// validation, the single in-flight request, and handing replies to the
// reveal animation. It also parses slash commands.
package conversation

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/hammamikhairi/akira/internal/domain"
	"github.com/hammamikhairi/akira/internal/format"
	"github.com/hammamikhairi/akira/internal/logger"
	"github.com/hammamikhairi/akira/internal/render"
)

// GenericError is shown for any transport failure.
const GenericError = "Sorry, I encountered an error processing your request. Please try again."

// DefaultGreeting is the welcome line revealed by Greet.
const DefaultGreeting = "Hello, I am Akira! How can I help you today?"

// DefaultGreetDelay is how long Greet waits before revealing.
const DefaultGreetDelay = 500 * time.Millisecond

// View is what the controller drives. Implementations must tolerate calls
// from any goroutine.
type View interface {
	AppendUser(m domain.Message)
	// AppendBot adds an empty bot bubble for m and returns the target the
	// reveal animation writes m.Text into.
	AppendBot(m domain.Message) render.Target
	// FinishBot shows the full text of a bot bubble whose reveal was cut short.
	FinishBot(id string)
	AppendError(m domain.Message)
	ClearMessages()
	ClearInput()
	ShowTyping()
	HideTyping()
	FocusInput()
	ScrollToBottom()
}

// Option configures a Controller.
type Option func(*Controller)

// WithSpeed sets the reveal speed.
func WithSpeed(d time.Duration) Option {
	return func(c *Controller) { c.speed = d }
}

// WithClock overrides time.Now for message timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithGreetDelay sets the pause before the greeting is revealed.
func WithGreetDelay(d time.Duration) Option {
	return func(c *Controller) { c.greetDelay = d }
}

// WithReplyHook registers fn to run for every bot message, right after
// its reveal starts. Used to read replies aloud.
func WithReplyHook(fn func(domain.Message)) Option {
	return func(c *Controller) { c.onReply = fn }
}

// Controller runs the conversation. Safe for concurrent use; Send is
// blocking and callers typically run it on its own goroutine.
type Controller struct {
	api  domain.ChatBackend
	view View
	log  *logger.Logger

	speed      time.Duration
	now        func() time.Time
	greetDelay time.Duration
	onReply    func(domain.Message)

	inFlight atomic.Bool

	mu       sync.Mutex
	history  []domain.Message
	reveal   *render.Reveal
	revealID string
}

// NewController creates a controller.
func NewController(api domain.ChatBackend, view View, log *logger.Logger, opts ...Option) *Controller {
	c := &Controller{
		api:        api,
		view:       view,
		log:        log,
		speed:      render.DefaultSpeed,
		now:        time.Now,
		greetDelay: DefaultGreetDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send posts text to the backend and renders the outcome. Blank input
// returns ErrEmptyMessage and a send while another is in flight returns
// ErrBusy; neither touches the view or the network, and both are meant to
// be ignored. Every accepted send returns nil: failures end up in the view.
func (c *Controller) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ErrEmptyMessage
	}
	if !c.inFlight.CompareAndSwap(false, true) {
		c.log.Debug("send ignored: request in flight")
		return domain.ErrBusy
	}
	defer func() {
		c.inFlight.Store(false)
		c.view.FocusInput()
	}()

	user := c.newMessage(domain.RoleUser, text)
	c.record(user)
	c.view.AppendUser(user)
	c.view.ClearInput()
	c.view.ShowTyping()
	c.view.ScrollToBottom()

	reply, err := c.api.Send(ctx, text)
	c.view.HideTyping()

	switch {
	case err != nil:
		c.log.Error("chat request failed: %v", err)
		c.appendError(GenericError)
	case reply.Response != "":
		c.revealBot(format.NormalizeParagraphs(reply.Response))
	case reply.Error != "":
		c.log.Warn("backend returned error: %s", reply.Error)
		c.appendError(reply.Error)
	default:
		c.log.Warn("backend reply had neither response nor error")
	}
	return nil
}

// Greet reveals text as a bot message after the greet delay. Returns
// ctx.Err() if ctx ends first.
func (c *Controller) Greet(ctx context.Context, text string) error {
	if text == "" {
		text = DefaultGreeting
	}
	t := time.NewTimer(c.greetDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
	}
	c.revealBot(text)
	return nil
}

// InFlight reports whether a request is outstanding.
func (c *Controller) InFlight() bool { return c.inFlight.Load() }

// Messages returns a copy of every message shown so far.
func (c *Controller) Messages() []domain.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Message, len(c.history))
	copy(out, c.history)
	return out
}

// Clear stops any reveal and empties the conversation.
func (c *Controller) Clear() {
	c.mu.Lock()
	c.stopRevealLocked(false)
	c.history = nil
	c.mu.Unlock()
	c.view.ClearMessages()
}

// Close stops any running reveal.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopRevealLocked(false)
}

func (c *Controller) revealBot(text string) {
	bot := c.newMessage(domain.RoleBot, text)

	c.mu.Lock()
	c.stopRevealLocked(true)
	c.history = append(c.history, bot)
	target := c.view.AppendBot(bot)
	c.reveal = render.TypeOut(target, text,
		render.WithSpeed(c.speed),
		render.WithScroll(c.view.ScrollToBottom),
	)
	c.revealID = bot.ID
	c.mu.Unlock()

	c.log.Debug("revealing %d chars", len([]rune(text)))
	if c.onReply != nil {
		c.onReply(bot)
	}
}

// stopRevealLocked cancels the current reveal. With finish set, the
// interrupted bubble is completed so no reply is left half shown.
func (c *Controller) stopRevealLocked(finish bool) {
	if c.reveal == nil {
		return
	}
	c.reveal.Cancel()
	if finish && c.reveal.Revealed() < c.revealLen() {
		c.view.FinishBot(c.revealID)
	}
	c.reveal = nil
	c.revealID = ""
}

func (c *Controller) revealLen() int {
	for i := len(c.history) - 1; i >= 0; i-- {
		if c.history[i].ID == c.revealID {
			return len([]rune(c.history[i].Text))
		}
	}
	return 0
}

func (c *Controller) appendError(text string) {
	m := c.newMessage(domain.RoleError, text)
	c.record(m)
	c.view.AppendError(m)
	c.view.ScrollToBottom()
}

func (c *Controller) record(m domain.Message) {
	c.mu.Lock()
	c.history = append(c.history, m)
	c.mu.Unlock()
}

func (c *Controller) newMessage(role domain.Role, text string) domain.Message {
	return domain.Message{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		Timestamp: c.now(),
	}
}
