// Package backend is a local implementation of the chat endpoint, for
// running the client without the real model service behind it.
package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hammamikhairi/akira/internal/logger"
)

// Responder produces the reply to a chat message.
type Responder interface {
	Respond(ctx context.Context, message string) (string, error)
}

// ResponderFunc adapts a function to Responder.
type ResponderFunc func(ctx context.Context, message string) (string, error)

// Respond calls f.
func (f ResponderFunc) Respond(ctx context.Context, message string) (string, error) {
	return f(ctx, message)
}

// Echo answers every message by repeating it back after delay.
func Echo(delay time.Duration) Responder {
	return ResponderFunc(func(ctx context.Context, message string) (string, error) {
		if delay > 0 {
			t := time.NewTimer(delay)
			defer t.Stop()
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-t.C:
			}
		}
		return "You said: " + message + ". I am only an echo, but I am listening!", nil
	})
}

// Handler serves POST /chat.
type Handler struct {
	responder Responder
	log       *logger.Logger
}

// New creates the chat handler.
func New(responder Responder, log *logger.Logger) *Handler {
	return &Handler{responder: responder, log: log}
}

// RegisterRoutes registers the chat routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Get("/healthz", h.handleHealth)
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Message string `json:"message"`
	}

	// A body that doesn't decode carries no message either.
	_ = json.NewDecoder(r.Body).Decode(&payload)
	// Only an absent or empty message is rejected; whitespace is passed on.
	if payload.Message == "" {
		respondError(w, http.StatusBadRequest, "No message provided")
		return
	}

	reply, err := h.responder.Respond(r.Context(), payload.Message)
	if err != nil {
		h.log.Error("responder failed: %v", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"response": reply})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
