package domain

import "context"

// ChatReply is the decoded body of a successful chat request. Exactly one
// of the fields is expected to be set; both empty means the backend sent
// nothing displayable.
type ChatReply struct {
	Response string
	Error    string
}

// ChatBackend delivers a user message and returns the backend's reply.
// Implementations must treat non-2xx statuses as transport failures.
type ChatBackend interface {
	Send(ctx context.Context, message string) (ChatReply, error)
}

// ActivitySource lets callers observe user activity. The returned func
// detaches the listener and is safe to call more than once.
type ActivitySource interface {
	Listen(kind ActivityKind, fn func()) (remove func())
}

// KVBackend is a flat string key-value store. Implementations can be
// in-memory, SQLite, or any other backend.
type KVBackend interface {
	SetItem(ctx context.Context, key, value string) error
	// GetItem returns ErrNotFound when the key is missing.
	GetItem(ctx context.Context, key string) (string, error)
	RemoveItem(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// Speech defaults, shared by the engine and the config layer.
const (
	DefaultSpeechVoice = "en-US-AvaNeural"
	DefaultSpeechLang  = "en-US"
)

// Utterance is one request to the speech engine.
type Utterance struct {
	Text   string
	Lang   string
	Volume float64
	Rate   float64
	Pitch  float64
}

// SpeechEngine is the shared text-to-speech engine. Pause/Resume/Cancel
// and the state queries apply to the engine as a whole, not to a single
// utterance.
type SpeechEngine interface {
	Speak(ctx context.Context, u Utterance) error
	Cancel()
	Pause()
	Resume()
	Paused() bool
	Speaking() bool
}
