// Package viewcache caches rendered views by scope and drops them when the
// data behind a scope changes.
//
// Scopes are slash-separated paths. Invalidating a scope also invalidates every
// scope nested beneath it, so invalidating "/tasks" drops "/tasks/abc" too.
package viewcache

import (
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// RenderFunc produces the content for a scope on a cache miss.
type RenderFunc func() ([]byte, error)

// Stats counts cache activity since the Cache was created.
type Stats struct {
	Hits          int `json:"hits"`
	Misses        int `json:"misses"`
	Invalidations int `json:"invalidations"`
	Entries       int `json:"entries"`
}

// Cache stores rendered content per scope. The zero value is not usable; call New.
type Cache struct {
	mu      sync.Mutex
	entries map[string][]byte
	epoch   uint64
	stats   Stats

	group  singleflight.Group
	logger *zap.Logger
}

// New creates an empty cache. A nil logger discards logs.
func New(logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		entries: make(map[string][]byte),
		logger:  logger,
	}
}

// Get returns the cached content for scope, calling render on a miss.
// Concurrent misses for the same scope share one render call. Content rendered
// while any invalidation ran is returned but not stored.
func (c *Cache) Get(scope string, render RenderFunc) ([]byte, error) {
	c.mu.Lock()
	epoch := c.epoch
	if cached, ok := c.entries[scope]; ok {
		c.stats.Hits++
		c.mu.Unlock()
		return cached, nil
	}
	c.stats.Misses++
	c.mu.Unlock()

	key := scope + "#" + strconv.FormatUint(epoch, 10)
	value, err, shared := c.group.Do(key, func() (any, error) {
		content, err := render()
		if err != nil {
			return nil, err
		}
		c.store(scope, epoch, content)
		return content, nil
	})
	if err != nil {
		c.logger.Debug("view render failed", zap.String("scope", scope), zap.Error(err))
		return nil, err
	}
	if shared {
		c.logger.Debug("view render shared", zap.String("scope", scope))
	}
	return value.([]byte), nil
}

func (c *Cache) store(scope string, epoch uint64, content []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		c.logger.Debug("discarding stale view", zap.String("scope", scope))
		return
	}
	c.entries[scope] = content
}

// Invalidate drops cached content for scope and every scope nested under it.
// It implements task.Invalidator and never fails.
func (c *Cache) Invalidate(scope string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.Invalidations++
	c.epoch++
	dropped := 0
	for key := range c.entries {
		if !covers(scope, key) {
			continue
		}
		delete(c.entries, key)
		dropped++
	}
	c.logger.Debug("views invalidated", zap.String("scope", scope), zap.Int("dropped", dropped))
	return nil
}

// Stats returns a snapshot of cache counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	stats := c.stats
	stats.Entries = len(c.entries)
	return stats
}

func covers(scope, key string) bool {
	if key == scope {
		return true
	}
	prefix := strings.TrimSuffix(scope, "/") + "/"
	return strings.HasPrefix(key, prefix)
}
