package speech

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/hammamikhairi/akira/internal/domain"
	"github.com/hammamikhairi/akira/internal/logger"
)

// AudioCache keeps synthesized replies so a repeated line (greetings,
// idle nudges, re-read answers) is played without another Azure round
// trip. Entries live in memory and, when dir is set, as <key>.wav files.
//
// The disk is always read. It is only written when persist is true, so a
// read-only cache directory still gives a warm start.
type AudioCache struct {
	voice   string
	dir     string
	persist bool
	log     *logger.Logger

	mu  sync.RWMutex
	mem map[string][]byte

	hits, misses atomic.Int64
}

// NewAudioCache creates a cache for one voice. dir may be empty for a
// memory-only cache.
func NewAudioCache(voice, dir string, persist bool, log *logger.Logger) *AudioCache {
	if dir != "" && persist {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Error("tts cache: create %s: %v", dir, err)
		}
	}
	return &AudioCache{
		voice:   voice,
		dir:     dir,
		persist: persist,
		log:     log,
		mem:     make(map[string][]byte),
	}
}

// Get returns the audio for u, looking in memory and then on disk. Disk
// hits are kept in memory afterwards.
func (c *AudioCache) Get(u domain.Utterance) ([]byte, bool) {
	key := c.key(u)

	c.mu.RLock()
	wav, ok := c.mem[key]
	c.mu.RUnlock()

	src := "mem"
	if !ok && c.dir != "" {
		if data, err := os.ReadFile(c.path(key)); err == nil {
			wav, ok, src = data, true, "disk"
			c.mu.Lock()
			c.mem[key] = data
			c.mu.Unlock()
		}
	}

	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	c.log.Debug("tts cache hit (%s): %q, %d bytes", src, truncate(u.Text, 40), len(wav))
	return wav, true
}

// Put stores audio for u.
func (c *AudioCache) Put(u domain.Utterance, wav []byte) {
	key := c.key(u)

	c.mu.Lock()
	c.mem[key] = wav
	c.mu.Unlock()

	if c.dir == "" || !c.persist {
		return
	}
	if err := os.WriteFile(c.path(key), wav, 0o644); err != nil {
		c.log.Error("tts cache: write %s: %v", key[:12], err)
	}
}

// Has reports whether u is cached, without counting a hit or miss.
func (c *AudioCache) Has(u domain.Utterance) bool {
	key := c.key(u)

	c.mu.RLock()
	_, ok := c.mem[key]
	c.mu.RUnlock()
	if ok || c.dir == "" {
		return ok
	}
	_, err := os.Stat(c.path(key))
	return err == nil
}

// Len is the number of entries held in memory.
func (c *AudioCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.mem)
}

// Stats returns hit and miss counts since creation or the last Clear.
func (c *AudioCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Clear drops the memory layer and the counters. Files stay on disk.
func (c *AudioCache) Clear() {
	c.mu.Lock()
	c.mem = make(map[string][]byte)
	c.mu.Unlock()
	c.hits.Store(0)
	c.misses.Store(0)
}

// key covers the voice and every prosody setting, so a change to any of
// them misses instead of replaying audio spoken differently.
func (c *AudioCache) key(u domain.Utterance) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s:%s:%g:%g:%g:%s", c.voice, u.Lang, u.Rate, u.Pitch, u.Volume, u.Text))
	return hex.EncodeToString(sum[:])
}

func (c *AudioCache) path(key string) string {
	return filepath.Join(c.dir, key+".wav")
}
