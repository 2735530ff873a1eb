package bot

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/soyeahso/telcoassist/internal/domain"
)

const (
	cacheTTL     = 5 * time.Minute
	cacheMaxSize = 1000
)

// responseCache memoizes rendered replies for deterministic actions so
// repeated slot prompts and confirmations skip the render path.
type responseCache struct {
	mu      sync.Mutex
	entries map[uint64]cacheEntry
	order   []uint64
	ttl     time.Duration
	max     int
}

type cacheEntry struct {
	text     string
	deadline time.Time
}

func newResponseCache() *responseCache {
	return &responseCache{
		entries: make(map[uint64]cacheEntry),
		ttl:     cacheTTL,
		max:     cacheMaxSize,
	}
}

// cacheable excludes anything whose text depends on live data or the
// generative path.
func cacheable(action domain.Action) bool {
	if action.UseLLM {
		return false
	}
	switch action.Type {
	case domain.ActionRequest, domain.ActionConfirm, domain.ActionApologize, domain.ActionClose:
		return true
	}
	return false
}

func (c *responseCache) get(action domain.Action) (string, bool) {
	if !cacheable(action) {
		return "", false
	}
	key := cacheKey(action)

	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if time.Now().After(entry.deadline) {
		delete(c.entries, key)
		return "", false
	}
	return entry.text, true
}

func (c *responseCache) put(action domain.Action, text string) {
	if !cacheable(action) || text == "" {
		return
	}
	key := cacheKey(action)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists {
		c.order = append(c.order, key)
	}
	c.entries[key] = cacheEntry{text: text, deadline: time.Now().Add(c.ttl)}

	// Oldest-insertion eviction keeps the map bounded.
	for len(c.entries) > c.max && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

// cacheKey hashes the action type, intent, and parameters in sorted key
// order so equal actions collide regardless of map iteration order.
func cacheKey(action domain.Action) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(string(action.Type))
	_, _ = h.WriteString("|")
	_, _ = h.WriteString(action.Intent)

	keys := make([]string, 0, len(action.Parameters))
	for k := range action.Parameters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		_, _ = h.WriteString("|")
		_, _ = h.WriteString(k)
		_, _ = h.WriteString("=")
		_, _ = h.WriteString(fmt.Sprintf("%v", action.Parameters[k]))
	}
	return h.Sum64()
}
