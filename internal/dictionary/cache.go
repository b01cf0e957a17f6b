package dictionary

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// CacheStats reports the state of a memo cache.
type CacheStats struct {
	Entries    int   `json:"entries" yaml:"entries"`
	Hits       int64 `json:"hits" yaml:"hits"`
	Misses     int64 `json:"misses" yaml:"misses"`
	Duplicates int64 `json:"duplicates" yaml:"duplicates"` // repeated writes with an equal value
	Conflicts  int64 `json:"conflicts" yaml:"conflicts"`   // repeated writes with a differing value
}

// memo is a write-once map. Entries are never evicted or overwritten.
type memo[K comparable, V comparable] struct {
	name   string
	mu     sync.RWMutex
	items  map[K]V
	logger *slog.Logger

	hits       atomic.Int64
	misses     atomic.Int64
	duplicates atomic.Int64
	conflicts  atomic.Int64
}

func newMemo[K comparable, V comparable](name string, logger *slog.Logger) *memo[K, V] {
	if logger == nil {
		logger = slog.Default()
	}
	return &memo[K, V]{
		name:   name,
		items:  make(map[K]V),
		logger: logger,
	}
}

func (m *memo[K, V]) get(key K) (V, bool) {
	m.mu.RLock()
	v, ok := m.items[key]
	m.mu.RUnlock()
	if ok {
		m.hits.Add(1)
	} else {
		m.misses.Add(1)
	}
	return v, ok
}

// put stores value under key unless the key already exists, and returns
// whatever value is stored afterwards. The first writer wins.
func (m *memo[K, V]) put(key K, value V) V {
	m.mu.Lock()
	existing, ok := m.items[key]
	if !ok {
		m.items[key] = value
		m.mu.Unlock()
		return value
	}
	m.mu.Unlock()

	if existing == value {
		m.duplicates.Add(1)
		return existing
	}

	// CacheConsistencyWarning: both values are valid resolutions, keep the first.
	m.conflicts.Add(1)
	m.logger.Warn("cache consistency warning: duplicate write with differing value",
		"cache", m.name,
		"key", key,
		"kept", existing,
		"discarded", value)
	return existing
}

func (m *memo[K, V]) len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

func (m *memo[K, V]) stats() CacheStats {
	return CacheStats{
		Entries:    m.len(),
		Hits:       m.hits.Load(),
		Misses:     m.misses.Load(),
		Duplicates: m.duplicates.Load(),
		Conflicts:  m.conflicts.Load(),
	}
}

// TermCache memoizes canonical term -> definition.
type TermCache struct {
	m *memo[Term, Definition]
}

// NewTermCache creates an empty term cache.
func NewTermCache(logger *slog.Logger) *TermCache {
	return &TermCache{m: newMemo[Term, Definition]("term", logger)}
}

// Get returns the cached definition for term.
func (c *TermCache) Get(term Term) (Definition, bool) {
	return c.m.get(term)
}

// Put stores a definition and returns the definition now cached for term.
func (c *TermCache) Put(term Term, definition Definition) Definition {
	return c.m.put(term, definition)
}

// Len returns the number of cached terms.
func (c *TermCache) Len() int { return c.m.len() }

// Stats returns hit/miss/write counters.
func (c *TermCache) Stats() CacheStats { return c.m.stats() }

// ClickEntry is the resolution of a clicked span.
type ClickEntry struct {
	Term       Term       `json:"term" yaml:"term"`
	Definition Definition `json:"definition" yaml:"definition"`
}

// ClickCache memoizes clicked-span key -> (term, contextual definition).
type ClickCache struct {
	m *memo[ClickedSpanKey, ClickEntry]
}

// NewClickCache creates an empty click cache.
func NewClickCache(logger *slog.Logger) *ClickCache {
	return &ClickCache{m: newMemo[ClickedSpanKey, ClickEntry]("click", logger)}
}

// Get returns the cached resolution for key.
func (c *ClickCache) Get(key ClickedSpanKey) (ClickEntry, bool) {
	return c.m.get(key)
}

// Put stores a resolution and returns the entry now cached for key.
func (c *ClickCache) Put(key ClickedSpanKey, entry ClickEntry) ClickEntry {
	return c.m.put(key, entry)
}

// Len returns the number of cached clicks.
func (c *ClickCache) Len() int { return c.m.len() }

// Stats returns hit/miss/write counters.
func (c *ClickCache) Stats() CacheStats { return c.m.stats() }
