// Package storage provides the key-value persistence behind the client's
// preferences, and a JSON helper that never lets a storage failure escape
// as an error path.
package storage

import (
	"context"
	"sync"

	"github.com/hammamikhairi/akira/internal/domain"
	"github.com/hammamikhairi/akira/internal/logger"
)

// Compile-time interface check.
var _ domain.KVBackend = (*MemoryBackend)(nil)

// MemoryOption configures a MemoryBackend.
type MemoryOption func(*MemoryBackend)

// WithQuota caps the total bytes (keys + values) the backend will hold.
// Writes that would exceed it fail with ErrQuotaExceeded. Zero means no
// limit.
func WithQuota(bytes int) MemoryOption {
	return func(b *MemoryBackend) {
		b.quota = bytes
	}
}

// MemoryBackend is an in-memory key-value store. Safe for concurrent access.
type MemoryBackend struct {
	mu    sync.RWMutex
	items map[string]string
	used  int
	quota int
	log   *logger.Logger
}

// NewMemoryBackend creates an empty in-memory store.
func NewMemoryBackend(log *logger.Logger, opts ...MemoryOption) *MemoryBackend {
	b := &MemoryBackend{
		items: make(map[string]string),
		log:   log,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SetItem stores value under key, overwriting any previous value.
func (b *MemoryBackend) SetItem(ctx context.Context, key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	used := b.used + len(key) + len(value)
	if old, ok := b.items[key]; ok {
		used -= len(key) + len(old)
	}
	if b.quota > 0 && used > b.quota {
		b.log.Debug("memory store: quota exceeded setting %s (%d > %d bytes)", key, used, b.quota)
		return domain.ErrQuotaExceeded
	}

	b.items[key] = value
	b.used = used
	b.log.Debug("memory store: set %s (%d bytes)", key, len(value))
	return nil
}

// GetItem returns the value for key.
func (b *MemoryBackend) GetItem(ctx context.Context, key string) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	v, ok := b.items[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return v, nil
}

// RemoveItem deletes key. Removing a missing key is not an error.
func (b *MemoryBackend) RemoveItem(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if old, ok := b.items[key]; ok {
		b.used -= len(key) + len(old)
		delete(b.items, key)
		b.log.Debug("memory store: removed %s", key)
	}
	return nil
}

// Clear removes every key.
func (b *MemoryBackend) Clear(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.items = make(map[string]string)
	b.used = 0
	b.log.Debug("memory store: cleared")
	return nil
}

// Len returns the number of stored keys.
func (b *MemoryBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.items)
}
