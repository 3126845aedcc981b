// Akira, a terminal chat client.
//
// Usage:
//
//	akira [-config file] [-endpoint url] [-verbose] [-quiet] [-no-speech]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/hammamikhairi/akira/internal/activity"
	"github.com/hammamikhairi/akira/internal/chatapi"
	"github.com/hammamikhairi/akira/internal/config"
	"github.com/hammamikhairi/akira/internal/conversation"
	"github.com/hammamikhairi/akira/internal/display"
	"github.com/hammamikhairi/akira/internal/domain"
	"github.com/hammamikhairi/akira/internal/format"
	"github.com/hammamikhairi/akira/internal/logger"
	"github.com/hammamikhairi/akira/internal/speech"
	"github.com/hammamikhairi/akira/internal/storage"
	"github.com/hammamikhairi/akira/internal/timer"
)

// Storage keys.
const (
	keyLastActive = "akira.lastActive"
	keySpeak      = "akira.speak"
)

// How long activity must settle before the last-active stamp is written.
const lastActiveDebounce = 2 * time.Second

func main() {
	configPath := flag.String("config", config.DefaultPath(), "YAML config file")
	endpoint := flag.String("endpoint", "", "chat endpoint URL (overrides config)")
	verbose := flag.Bool("verbose", false, "enable verbose/debug logging")
	quiet := flag.Bool("quiet", false, "disable all logging")
	logFile := flag.String("log-file", "", "file to write logs to (use \"stderr\" to log to console)")
	storePath := flag.String("store", "", "SQLite file for saved settings (use \"memory\" to keep nothing)")
	noSpeech := flag.Bool("no-speech", false, "disable text-to-speech even if Azure keys are set")
	speed := flag.Duration("speed", 0, "delay between revealed characters")
	idle := flag.Duration("idle", 0, "inactivity timeout before a nudge")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	applyFlags(cfg, *endpoint, *logFile, *storePath, *speed, *idle, *verbose, *quiet, *noSpeech)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	level, _ := logger.ParseLevel(cfg.LogLevel)

	// Direct logs to a file by default so the TUI stays clean.
	var logOut io.Writer = os.Stderr
	if cfg.LogFile != "" && cfg.LogFile != "stderr" {
		f, err := openLogFile(cfg.LogFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v (falling back to stderr)\n", err)
		} else {
			logOut = f
			defer f.Close()
		}
	}
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(level, logOut)

	// Cancelled when the UI quits.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Storage ──────────────────────────────────────────────────
	var backend domain.KVBackend
	if cfg.StorePath == "memory" {
		backend = storage.NewMemoryBackend(log.With("storage"))
	} else {
		db, err := storage.OpenSQLite(ctx, cfg.StorePath, log.With("storage"))
		if err != nil {
			log.Warn("settings store unavailable, using memory: %v", err)
			backend = storage.NewMemoryBackend(log.With("storage"))
		} else {
			backend = db
			defer db.Close()
		}
	}
	store := storage.NewLocal(backend, log.With("storage"))

	// ── Speech ───────────────────────────────────────────────────
	var engine domain.SpeechEngine
	if cfg.Speech.Configured() && cfg.Speech.Enabled {
		tts := speech.NewAzureClient(cfg.Speech.Key, cfg.Speech.Region, log.With("speech"),
			speech.WithVoice(cfg.Speech.Voice),
		)
		player, err := speech.NewPlayer(log.With("speech"))
		if err != nil {
			log.Error("audio player init failed, speech disabled: %v", err)
		} else {
			synth := speech.NewSynth(tts, player, log.With("speech"),
				speech.WithCacheDir(cfg.Speech.CacheDir),
				speech.WithDiskWrite(cfg.Speech.DiskCache),
			)
			synth.Start(ctx)
			engine = synth
			log.Info("TTS enabled (voice=%s, region=%s)", tts.Voice(), cfg.Speech.Region)
		}
	} else if cfg.Speech.Enabled {
		log.Info("TTS disabled: set %s and %s env vars to enable", speech.EnvAzureSpeechKey, speech.EnvAzureSpeechRegion)
	}
	speaker := speech.NewSpeaker(engine, log.With("speech"))
	speakOn := storage.Get(ctx, store, keySpeak, cfg.Speech.Enabled).Value
	reader := speech.NewReader(speaker, speechOptions(cfg.Speech), speakOn && speaker.Available(), log.With("speech"))

	// ── View & activity ──────────────────────────────────────────
	hub := activity.NewHub()
	ui := display.NewUI(
		display.WithActivity(hub),
		display.WithTitle("Akira"),
	)

	client := chatapi.NewClient(cfg.Endpoint, log.With("chatapi"),
		chatapi.WithHTTPTimeout(cfg.RequestTimeout),
	)
	ctrl := conversation.NewController(client, ui, log.With("conversation"),
		conversation.WithSpeed(cfg.RevealSpeed),
		conversation.WithReplyHook(func(m domain.Message) {
			reader.Read(ctx, m.Text)
		}),
	)
	defer ctrl.Close()

	lastSeen := storage.Get(ctx, store, keyLastActive, time.Time{})

	// The final flush runs after ctx is cancelled.
	stamp := timer.Debounce(func() {
		store.Set(context.Background(), keyLastActive, time.Now())
	}, lastActiveDebounce)
	defer stamp.Flush()
	for _, kind := range domain.QualifyingActivity {
		defer hub.Listen(kind, stamp.Call)()
	}

	disposeIdle := timer.Watch(hub, func() {
		line := speech.LineIdle()
		ui.Notice(line)
		reader.Read(ctx, line)
	}, log.With("idle"), timer.WithTimeout(cfg.IdleTimeout))
	defer disposeIdle()

	app := &cliApp{
		ctrl:     ctrl,
		parser:   conversation.NewCommandParser(log.With("commands")),
		reader:   reader,
		store:    store,
		ui:       ui,
		log:      log,
		endpoint: cfg.Endpoint,
	}

	go func() {
		ui.WaitReady()
		app.refreshStatus()
		if lastSeen.Found && !lastSeen.Value.IsZero() {
			ui.Notice(speech.LineWelcomeBack(format.DateTime(lastSeen.Value, time.Now())))
		}
		go func() {
			if err := ctrl.Greet(ctx, cfg.Greeting); err != nil && !errors.Is(err, context.Canceled) {
				log.Warn("greeting: %v", err)
			}
		}()
		app.run(ctx)
		ui.Quit()
	}()

	// Bubble Tea owns the terminal. Blocks until quit.
	if err := ui.Run(); err != nil {
		log.Error("display: %v", err)
	}
	cancel()
	fmt.Println(speech.LineBye())
}

func applyFlags(cfg *config.Config, endpoint, logFile, store string, speed, idle time.Duration, verbose, quiet, noSpeech bool) {
	if endpoint != "" {
		cfg.Endpoint = endpoint
	}
	if logFile != "" {
		cfg.LogFile = logFile
	}
	if store != "" {
		cfg.StorePath = store
	}
	if speed > 0 {
		cfg.RevealSpeed = speed
	}
	if idle > 0 {
		cfg.IdleTimeout = idle
	}
	if verbose {
		cfg.LogLevel = logger.LevelVerbose.String()
	}
	if quiet {
		cfg.LogLevel = logger.LevelOff.String()
	}
	if noSpeech {
		cfg.Speech.Enabled = false
	}
}

// openLogFile opens path for appending, creating its directory first.
func openLogFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir %s: %w", dir, err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return f, nil
}

// speechOptions converts the voice settings for the speaker.
func speechOptions(s config.SpeechConfig) speech.Options {
	return speech.Options{Lang: s.Lang, Rate: s.Rate, Pitch: s.Pitch, Volume: s.Volume}
}

func hostOf(endpoint string) string {
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		return u.Host
	}
	return endpoint
}
