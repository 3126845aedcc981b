// Package speech reads text aloud. Speaker is the small facade the client
// talks to; Synth is the production engine behind it (Azure TTS for
// synthesis, oto for playback).
package speech

import (
	"context"
	"strings"

	"github.com/hammamikhairi/akira/internal/domain"
	"github.com/hammamikhairi/akira/internal/logger"
)

// Options are per-utterance voice settings. Zero values mean default:
// DefaultLang and 1 for volume, rate and pitch.
type Options struct {
	Lang   string
	Volume float64
	Rate   float64
	Pitch  float64
}

func (o Options) utterance(text string) domain.Utterance {
	u := domain.Utterance{Text: text, Lang: o.Lang, Volume: o.Volume, Rate: o.Rate, Pitch: o.Pitch}
	if u.Lang == "" {
		u.Lang = DefaultLang
	}
	if u.Volume == 0 {
		u.Volume = 1
	}
	if u.Rate == 0 {
		u.Rate = 1
	}
	if u.Pitch == 0 {
		u.Pitch = 1
	}
	return u
}

// Speaker hands utterances to an engine. A Speaker without an engine logs
// a warning and reports failure instead of erroring.
type Speaker struct {
	engine domain.SpeechEngine
	log    *logger.Logger
}

// NewSpeaker creates a speaker. engine may be nil when no speech backend
// is available.
func NewSpeaker(engine domain.SpeechEngine, log *logger.Logger) *Speaker {
	return &Speaker{engine: engine, log: log}
}

// Available reports whether an engine is attached.
func (s *Speaker) Available() bool { return s.engine != nil }

// Speak queues text on the engine. It returns false, and no handle, when
// there is no engine, the text is blank, or the engine refused it.
func (s *Speaker) Speak(ctx context.Context, text string, opts Options) (*Handle, bool) {
	if s.engine == nil {
		s.log.Warn("speech synthesis not supported")
		return nil, false
	}
	if strings.TrimSpace(text) == "" {
		return nil, false
	}

	u := opts.utterance(text)
	if err := s.engine.Speak(ctx, u); err != nil {
		s.log.Error("speak failed: %v", err)
		return nil, false
	}
	return &Handle{engine: s.engine}, true
}

// Handle controls speech after Speak. Its methods act on the shared
// engine, so Cancel on any handle stops everything queued.
type Handle struct {
	engine domain.SpeechEngine
}

// Cancel stops playback and drops queued utterances.
func (h *Handle) Cancel() { h.engine.Cancel() }

// Pause pauses playback.
func (h *Handle) Pause() { h.engine.Pause() }

// Resume resumes paused playback.
func (h *Handle) Resume() { h.engine.Resume() }

// IsPaused reports whether the engine is paused.
func (h *Handle) IsPaused() bool { return h.engine.Paused() }

// IsSpeaking reports whether the engine is speaking.
func (h *Handle) IsSpeaking() bool { return h.engine.Speaking() }
