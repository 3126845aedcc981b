package speech

// Every status line the client shows or speaks on its own (anything that
// isn't a backend reply) lives here. Keep lines short.

import (
	"fmt"
	"math/rand"
)

// ── Session ──────────────────────────────────────────────────────

// LineWelcomeBack is shown at startup when a previous visit is known.
// when is already formatted for display.
func LineWelcomeBack(when string) string {
	return fmt.Sprintf("Welcome back. Last active %s.", when)
}

func LineBye() string {
	return "Bye."
}

func LineCleared() string {
	return "Conversation cleared."
}

func LineUnknownCommand(input string) string {
	return fmt.Sprintf("Unknown command %s. Type /help for the list.", input)
}

// ── Clipboard ────────────────────────────────────────────────────

func LineCopied(n int) string {
	if n == 1 {
		return "Copied 1 message to the clipboard."
	}
	return fmt.Sprintf("Copied %d messages to the clipboard.", n)
}

func LineNothingToCopy() string {
	return "Nothing to copy yet."
}

func LineCopyFailed() string {
	return "Could not reach the clipboard."
}

// ── Speech ───────────────────────────────────────────────────────

func LineSpeechOn() string {
	return "Reading replies aloud."
}

func LineSpeechOff() string {
	return "Speech off."
}

func LineSpeechUnavailable() string {
	return "Speech is not available. Set AZURE_SPEECH_KEY and AZURE_SPEECH_REGION to enable it."
}

func LineNothingSpeaking() string {
	return "Nothing is being spoken."
}

func LinePaused() string {
	return "Speech paused."
}

func LineResumed() string {
	return "Speech resumed."
}

// ── Idle ─────────────────────────────────────────────────────────

var idleLines = []string{
	"Still there? I'm here whenever you need me.",
	"It's been quiet for a while. Ask me anything.",
	"Taking a break? I'll be right here.",
}

// LineIdle returns a random nudge for when the user has been inactive.
func LineIdle() string {
	return idleLines[rand.Intn(len(idleLines))]
}

// IdleLines returns every idle nudge.
func IdleLines() []string {
	out := make([]string, len(idleLines))
	copy(out, idleLines)
	return out
}
