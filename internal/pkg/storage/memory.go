package storage

import (
	"context"
	"sync"
	"time"

	"github.com/mkorolev/sportmonitor/internal/pkg/models"
)

type memoryEntry struct {
	matches   []models.ResolvedMatch
	expiresAt time.Time
}

// MemoryCache is a process-local ResultCache: a single lock over a map of
// immutable entries. Contention is low (one writer per sport per cycle), so
// nothing fancier is needed.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]models.ResolvedMatch, bool) {
	if key == "" {
		return nil, false
	}

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !e.expiresAt.After(c.now()) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}

	return e.matches, true
}

func (c *MemoryCache) Set(_ context.Context, key string, matches []models.ResolvedMatch) {
	if key == "" || c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	c.entries[key] = memoryEntry{
		matches:   matches,
		expiresAt: c.now().Add(c.ttl),
	}
	c.mu.Unlock()
}
