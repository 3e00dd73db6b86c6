// Package catalog holds the static comparison table in memory and
// answers lookups and keyword searches over it.
package catalog

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shelfsync/shelfsync/internal/domain"
)

// Catalog is the in-memory copy of the cheatsheet. It is replaced
// wholesale on reload and read concurrently by handlers.
type Catalog struct {
	mu         sync.RWMutex
	entries    []*domain.Entry
	byID       map[string]*domain.Entry
	lastReload time.Time
}

func New() *Catalog {
	return &Catalog{
		byID: make(map[string]*domain.Entry),
	}
}

// Replace swaps in a new set of entries, keeping the given order.
func (c *Catalog) Replace(entries []*domain.Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make([]*domain.Entry, len(entries))
	copy(c.entries, entries)
	c.byID = make(map[string]*domain.Entry, len(entries))
	for _, e := range entries {
		c.byID[e.ID] = e
	}
	c.lastReload = time.Now()
}

// Get retrieves an entry by ID.
func (c *Catalog) Get(id string) (*domain.Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.byID[id]
	return e, ok
}

// All returns the entries in table order.
func (c *Catalog) All() []*domain.Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*domain.Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Count returns the number of entries.
func (c *Catalog) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// LastReload returns the time of the last Replace.
func (c *Catalog) LastReload() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastReload
}

// Search returns entries matching the query in name, category, summary or
// tags. Name-prefix matches rank first, then name substrings, then the
// rest; ties keep table order.
func (c *Catalog) Search(query string) []*domain.Entry {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return c.All()
	}

	type scored struct {
		entry *domain.Entry
		rank  int
		pos   int
	}

	c.mu.RLock()
	matches := make([]scored, 0, len(c.entries))
	for i, e := range c.entries {
		rank, ok := matchRank(e, query)
		if !ok {
			continue
		}
		matches = append(matches, scored{entry: e, rank: rank, pos: i})
	}
	c.mu.RUnlock()

	sort.SliceStable(matches, func(a, b int) bool {
		if matches[a].rank != matches[b].rank {
			return matches[a].rank < matches[b].rank
		}
		return matches[a].pos < matches[b].pos
	})

	out := make([]*domain.Entry, len(matches))
	for i, m := range matches {
		out[i] = m.entry
	}
	return out
}

func matchRank(e *domain.Entry, query string) (int, bool) {
	name := strings.ToLower(e.Name)
	switch {
	case strings.HasPrefix(name, query):
		return 0, true
	case strings.Contains(name, query):
		return 1, true
	}

	if strings.Contains(strings.ToLower(e.Category), query) ||
		strings.Contains(strings.ToLower(e.Summary), query) {
		return 2, true
	}
	for _, tag := range e.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return 2, true
		}
	}
	return 0, false
}
