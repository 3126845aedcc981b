package gpt

import (
	"context"
	"strings"
	"sync"

	"github.com/hammamikhairi/akira/internal/logger"
)

// DefaultMaxTurns is how many user/assistant exchanges a Session keeps.
const DefaultMaxTurns = 20

// Completer is the part of Client a Session needs.
type Completer interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSystemPrompt replaces PromptAssistant.
func WithSystemPrompt(p string) SessionOption {
	return func(s *Session) { s.system = p }
}

// WithMaxTurns caps the remembered exchanges. Older ones are dropped first.
func WithMaxTurns(n int) SessionOption {
	return func(s *Session) {
		if n > 0 {
			s.maxTurns = n
		}
	}
}

// Session is one ongoing conversation with the model. Every message is
// sent with the history before it. Requests are serialised so the history
// stays in order.
type Session struct {
	client   Completer
	log      *logger.Logger
	system   string
	maxTurns int

	mu      sync.Mutex
	history []Message
}

// NewSession starts an empty conversation over client.
func NewSession(client Completer, log *logger.Logger, opts ...SessionOption) *Session {
	s := &Session{
		client:   client,
		log:      log,
		system:   PromptAssistant,
		maxTurns: DefaultMaxTurns,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Respond sends message and records the exchange. A failed request leaves
// the history untouched.
func (s *Session) Respond(ctx context.Context, message string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := make([]Message, 0, len(s.history)+2)
	if s.system != "" {
		msgs = append(msgs, Message{Role: RoleSystem, Content: s.system})
	}
	msgs = append(msgs, s.history...)
	msgs = append(msgs, Message{Role: RoleUser, Content: message})

	reply, err := s.client.Chat(ctx, msgs)
	if err != nil {
		return "", err
	}
	reply = strings.TrimSpace(reply)

	s.history = append(s.history,
		Message{Role: RoleUser, Content: message},
		Message{Role: RoleAssistant, Content: reply},
	)
	if over := len(s.history) - 2*s.maxTurns; over > 0 {
		s.history = append(s.history[:0:0], s.history[over:]...)
	}
	s.log.Debug("session: %d messages of history", len(s.history))
	return reply, nil
}

// Reset forgets the conversation.
func (s *Session) Reset() {
	s.mu.Lock()
	s.history = nil
	s.mu.Unlock()
}

// Len returns the number of remembered messages.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}
