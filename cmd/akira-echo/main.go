// akira-echo serves the chat endpoint locally. With GPT_CHAT_KEY and
// GPT_CHAT_ENDPOINT set it answers through the model; otherwise it echoes.
//
// Usage:
//
//	akira-echo [-addr :5000] [-delay 300ms] [-no-ai] [-verbose]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hammamikhairi/akira/internal/backend"
	"github.com/hammamikhairi/akira/internal/display"
	"github.com/hammamikhairi/akira/internal/gpt"
	"github.com/hammamikhairi/akira/internal/logger"
)

// Compile-time interface check.
var _ backend.Responder = (*gpt.Session)(nil)

func main() {
	_ = godotenv.Load()

	addr := flag.String("addr", ":5000", "listen address")
	delay := flag.Duration("delay", 300*time.Millisecond, "artificial reply latency")
	noAI := flag.Bool("no-ai", false, "echo even if GPT keys are set")
	verbose := flag.Bool("verbose", false, "enable verbose/debug logging")
	flag.Parse()

	level := logger.LevelNormal
	if *verbose {
		level = logger.LevelVerbose
	}
	log := logger.New(level, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	responder, mode := backend.Echo(*delay), "echo"
	key, endpoint := os.Getenv(gpt.EnvChatKey), os.Getenv(gpt.EnvChatEndpoint)
	if key != "" && endpoint != "" && !*noAI {
		client := gpt.NewClient(endpoint, key, log.With("gpt"), gpt.WithModel(os.Getenv("GPT_CHAT_MODEL")))
		responder, mode = gpt.NewSession(client, log.With("gpt")), "model"
	} else if !*noAI {
		log.Info("model disabled: set %s and %s env vars to enable", gpt.EnvChatKey, gpt.EnvChatEndpoint)
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           backend.NewRouter(backend.New(responder, log), log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	fmt.Print(display.RenderBanner(0))
	fmt.Println(display.BannerStyle.Render("  " + mode + " backend on " + *addr + "/chat, ctrl+c to stop"))
	fmt.Println()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("listen: %v", err)
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown: %v", err)
	}
	log.Info("stopped")
}
