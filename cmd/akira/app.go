package main

import (
	"context"
	"errors"

	"github.com/atotto/clipboard"

	"github.com/hammamikhairi/akira/internal/conversation"
	"github.com/hammamikhairi/akira/internal/display"
	"github.com/hammamikhairi/akira/internal/domain"
	"github.com/hammamikhairi/akira/internal/logger"
	"github.com/hammamikhairi/akira/internal/markup"
	"github.com/hammamikhairi/akira/internal/speech"
	"github.com/hammamikhairi/akira/internal/storage"
)

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

type cliApp struct {
	ctrl     *conversation.Controller
	parser   *conversation.CommandParser
	reader   *speech.Reader
	store    *storage.Local
	ui       *display.UI
	log      *logger.Logger
	endpoint string
}

func (a *cliApp) run(ctx context.Context) {
	uiCh := a.ui.InputChan()
	for {
		select {
		case <-ctx.Done():
			return
		case <-a.ui.QuitChan():
			return
		case input, ok := <-uiCh:
			if !ok {
				return
			}
			if !a.handle(ctx, input) {
				return
			}
		}
	}
}

// handle dispatches one input line. Returns false when the app should exit.
func (a *cliApp) handle(ctx context.Context, input string) bool {
	cmd := a.parser.Parse(input)
	a.log.Debug("command: %s (payload=%q)", cmd.Type, cmd.Payload)

	if cmd.Type != domain.CommandChat {
		a.ui.ClearInput()
	}

	switch cmd.Type {
	case domain.CommandChat:
		// Send blocks for the whole request; keep reading input so a second
		// Enter hits the in-flight guard instead of queueing.
		go func() {
			err := a.ctrl.Send(ctx, cmd.Payload)
			if err != nil && !errors.Is(err, domain.ErrBusy) && !errors.Is(err, domain.ErrEmptyMessage) {
				a.log.Error("send: %v", err)
			}
		}()
	case domain.CommandHelp:
		a.ui.Notice(conversation.HelpText)
	case domain.CommandClear:
		a.ctrl.Clear()
		a.ui.Notice(speech.LineCleared())
	case domain.CommandCopy:
		a.copyTranscript()
	case domain.CommandSpeak:
		a.toggleSpeech(ctx, cmd.Payload)
	case domain.CommandStop:
		a.withHandle(func(h *speech.Handle) string {
			h.Cancel()
			return speech.LineSpeechOff()
		})
	case domain.CommandPause:
		a.withHandle(func(h *speech.Handle) string {
			h.Pause()
			return speech.LinePaused()
		})
	case domain.CommandResume:
		a.withHandle(func(h *speech.Handle) string {
			h.Resume()
			return speech.LineResumed()
		})
	case domain.CommandQuit:
		return false
	case domain.CommandUnknown:
		a.ui.Notice(speech.LineUnknownCommand(cmd.Payload))
	}
	return true
}

func (a *cliApp) copyTranscript() {
	msgs := a.ctrl.Messages()
	if len(msgs) == 0 {
		a.ui.Notice(speech.LineNothingToCopy())
		return
	}
	if err := writeClipboard(markup.Transcript(msgs)); err != nil {
		a.log.Warn("clipboard: %v", err)
		a.ui.Notice(speech.LineCopyFailed())
		return
	}
	a.ui.Notice(speech.LineCopied(len(msgs)))
}

// toggleSpeech handles "/speak [on|off]". No argument flips the setting.
func (a *cliApp) toggleSpeech(ctx context.Context, arg string) {
	if !a.reader.Available() {
		a.ui.Notice(speech.LineSpeechUnavailable())
		return
	}
	on := !a.reader.Enabled()
	switch arg {
	case "on":
		on = true
	case "off":
		on = false
	}
	a.reader.SetEnabled(on)
	a.store.Set(ctx, keySpeak, on)
	a.refreshStatus()
	if on {
		a.ui.Notice(speech.LineSpeechOn())
	} else {
		a.ui.Notice(speech.LineSpeechOff())
	}
}

// withHandle runs fn on the current utterance, if any.
func (a *cliApp) withHandle(fn func(*speech.Handle) string) {
	h := a.reader.Handle()
	if h == nil || !(h.IsSpeaking() || h.IsPaused()) {
		a.ui.Notice(speech.LineNothingSpeaking())
		return
	}
	a.ui.Notice(fn(h))
}

func (a *cliApp) refreshStatus() {
	status := hostOf(a.endpoint)
	if a.reader.Enabled() {
		status += " · speech on"
	}
	a.ui.SetStatus(status)
}
