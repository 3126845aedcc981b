package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/akira/internal/domain"
	"github.com/hammamikhairi/akira/internal/logger"
)

type prefs struct {
	Speak bool   `json:"speak"`
	Voice string `json:"voice"`
}

func newLocal(opts ...MemoryOption) (*Local, *MemoryBackend) {
	log := logger.New(logger.LevelOff, nil)
	b := NewMemoryBackend(log, opts...)
	return NewLocal(b, log), b
}

func TestLocalRoundTrip(t *testing.T) {
	ctx := context.Background()
	l, _ := newLocal()

	res := l.Set(ctx, "prefs", prefs{Speak: true, Voice: "en-US-AvaNeural"})
	require.True(t, res.OK)
	require.NoError(t, res.Err)

	got := Get(ctx, l, "prefs", prefs{})
	require.True(t, got.Found)
	require.Equal(t, prefs{Speak: true, Voice: "en-US-AvaNeural"}, got.Value)

	ts := time.Date(2026, 3, 1, 9, 5, 0, 0, time.UTC)
	require.True(t, l.Set(ctx, "akira.lastActive", ts).OK)
	when := Get(ctx, l, "akira.lastActive", time.Time{})
	require.True(t, when.Value.Equal(ts))
}

func TestLocalGetMissingReturnsDefault(t *testing.T) {
	l, _ := newLocal()
	got := Get(context.Background(), l, "absent", 42)
	require.False(t, got.Found)
	require.NoError(t, got.Err)
	require.Equal(t, 42, got.Value)
}

func TestLocalGetCorruptedReturnsDefault(t *testing.T) {
	ctx := context.Background()
	l, b := newLocal()
	require.NoError(t, b.SetItem(ctx, "broken", "{not json"))

	got := Get(ctx, l, "broken", prefs{Voice: "fallback"})
	require.False(t, got.Found)
	require.Error(t, got.Err)
	require.Equal(t, "fallback", got.Value.Voice)
}

func TestLocalSetFailureIsReported(t *testing.T) {
	ctx := context.Background()
	l, _ := newLocal(WithQuota(4))

	res := l.Set(ctx, "long-key", "a value that does not fit")
	require.False(t, res.OK)
	require.True(t, errors.Is(res.Err, domain.ErrQuotaExceeded))

	// Unencodable values fail without reaching the backend.
	res = l.Set(ctx, "k", make(chan int))
	require.False(t, res.OK)
	require.Error(t, res.Err)
}

func TestLocalRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	l, b := newLocal()

	require.True(t, l.Set(ctx, "a", 1).OK)
	require.True(t, l.Set(ctx, "b", 2).OK)

	require.True(t, l.Remove(ctx, "a").OK)
	require.False(t, Get(ctx, l, "a", 0).Found)

	require.True(t, l.Clear(ctx).OK)
	require.Equal(t, 0, b.Len())
}
