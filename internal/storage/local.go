package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hammamikhairi/akira/internal/domain"
	"github.com/hammamikhairi/akira/internal/logger"
)

// Result reports the outcome of a write. Failures are logged by Local and
// carried here instead of being returned as an error.
type Result struct {
	OK  bool
	Err error
}

// Lookup is the outcome of a read. Value holds the caller's default when
// the key is missing or unreadable.
type Lookup[T any] struct {
	Value T
	Found bool
	Err   error
}

// Local is a JSON key-value helper over a backend. Every operation
// swallows backend failures (quota, corruption, closed database), logs
// them, and reports them through its return value.
type Local struct {
	backend domain.KVBackend
	log     *logger.Logger
}

// NewLocal wraps backend.
func NewLocal(backend domain.KVBackend, log *logger.Logger) *Local {
	return &Local{backend: backend, log: log}
}

// Set stores value as JSON under key.
func (l *Local) Set(ctx context.Context, key string, value any) Result {
	data, err := json.Marshal(value)
	if err != nil {
		l.log.Error("error setting storage item %s: %v", key, err)
		return Result{Err: fmt.Errorf("encode %s: %w", key, err)}
	}
	if err := l.backend.SetItem(ctx, key, string(data)); err != nil {
		l.log.Error("error setting storage item %s: %v", key, err)
		return Result{Err: err}
	}
	return Result{OK: true}
}

// Get decodes the JSON stored under key into a T, or returns def.
func Get[T any](ctx context.Context, l *Local, key string, def T) Lookup[T] {
	raw, err := l.backend.GetItem(ctx, key)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && raw == "") {
		return Lookup[T]{Value: def}
	}
	if err != nil {
		l.log.Error("error getting storage item %s: %v", key, err)
		return Lookup[T]{Value: def, Err: err}
	}

	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		l.log.Error("error getting storage item %s: %v", key, err)
		return Lookup[T]{Value: def, Err: fmt.Errorf("decode %s: %w", key, err)}
	}
	return Lookup[T]{Value: v, Found: true}
}

// Remove deletes key.
func (l *Local) Remove(ctx context.Context, key string) Result {
	if err := l.backend.RemoveItem(ctx, key); err != nil {
		l.log.Error("error removing storage item %s: %v", key, err)
		return Result{Err: err}
	}
	return Result{OK: true}
}

// Clear deletes every key.
func (l *Local) Clear(ctx context.Context) Result {
	if err := l.backend.Clear(ctx); err != nil {
		l.log.Error("error clearing storage: %v", err)
		return Result{Err: err}
	}
	return Result{OK: true}
}
