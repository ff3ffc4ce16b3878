// Package search implements the query side of the engine: the demand-loaded
// posting cache, TF-IDF and BM25 scoring over it, the window-based
// proximity boost and per-query evaluation metrics.
package search

import (
	"container/list"
	"fmt"
)

// Approximate per-element overheads used for cache footprint accounting.
const (
	cacheTermOverheadBytes = 80
	cacheDocOverheadBytes  = 48
	cachePositionBytes     = 8
)

// Entry holds one term's postings loaded from a shard. Docs preserves the
// on-disk posting order so score accumulation stays deterministic. The
// Positions substructure is cleared between queries; Weights persist for
// the lifetime of the entry.
type Entry struct {
	Term      string
	Docs      []string
	Weights   map[string]float64
	Positions map[string][]int

	size int64
}

func (e *Entry) computeSize() int64 {
	size := int64(len(e.Term)) + cacheTermOverheadBytes
	for _, doc := range e.Docs {
		size += int64(len(doc)) + cacheDocOverheadBytes
	}
	for _, positions := range e.Positions {
		size += int64(len(positions)) * cachePositionBytes
	}
	return size
}

// PostingCache is a bounded-memory cache of term postings keyed by term.
// Lookups and inserts move the term to the most-recently-used end; once the
// tracked footprint exceeds the threshold, least-recently-used terms are
// evicted until it fits. The cache is owned by a single searcher session
// and assumes no concurrent access.
type PostingCache struct {
	threshold int64
	size      int64
	items     map[string]*list.Element
	evictList *list.List

	hits      int64
	misses    int64
	evictions int64
}

// NewPostingCache creates a cache bounded by threshold bytes.
func NewPostingCache(threshold int64) *PostingCache {
	return &PostingCache{
		threshold: threshold,
		items:     make(map[string]*list.Element),
		evictList: list.New(),
	}
}

// Get retrieves a term's entry, marking it most-recently-used.
func (c *PostingCache) Get(term string) (*Entry, bool) {
	element, exists := c.items[term]
	if !exists {
		c.misses++
		return nil, false
	}
	c.evictList.MoveToFront(element)
	c.hits++
	return element.Value.(*Entry), true
}

// Put inserts a freshly loaded entry at the most-recently-used end and
// evicts from the least-recently-used end until the cache fits its
// threshold again.
func (c *PostingCache) Put(entry *Entry) *Entry {
	if element, exists := c.items[entry.Term]; exists {
		old := element.Value.(*Entry)
		c.size -= old.size
		entry.size = entry.computeSize()
		element.Value = entry
		c.size += entry.size
		c.evictList.MoveToFront(element)
	} else {
		entry.size = entry.computeSize()
		element = c.evictList.PushFront(entry)
		c.items[entry.Term] = element
		c.size += entry.size
	}

	for c.size > c.threshold && c.evictList.Len() > 0 {
		c.evictOldest()
	}
	return entry
}

// ClearPositions drops every entry's position lists, shrinking the tracked
// footprint. Called between queries; document weights are kept.
func (c *PostingCache) ClearPositions() {
	for element := c.evictList.Front(); element != nil; element = element.Next() {
		entry := element.Value.(*Entry)
		if entry.Positions == nil {
			continue
		}
		c.size -= entry.size
		entry.Positions = nil
		entry.size = entry.computeSize()
		c.size += entry.size
	}
}

// Len returns the number of cached terms.
func (c *PostingCache) Len() int {
	return len(c.items)
}

// Size returns the tracked footprint in bytes.
func (c *PostingCache) Size() int64 {
	return c.size
}

// Contains reports whether a term is currently cached, without touching
// its recency.
func (c *PostingCache) Contains(term string) bool {
	_, ok := c.items[term]
	return ok
}

func (c *PostingCache) evictOldest() {
	element := c.evictList.Back()
	if element == nil {
		return
	}
	entry := element.Value.(*Entry)
	c.evictList.Remove(element)
	delete(c.items, entry.Term)
	c.size -= entry.size
	c.evictions++
}

// Stats holds cache performance counters.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int64
	Terms     int
}

// Stats returns a snapshot of the cache counters.
func (c *PostingCache) Stats() Stats {
	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Size:      c.size,
		Terms:     len(c.items),
	}
}

// String returns a string representation of cache stats
func (s Stats) String() string {
	return fmt.Sprintf("Cache Stats: Hits=%d, Misses=%d, Evictions=%d, Terms=%d, Size=%dB",
		s.Hits, s.Misses, s.Evictions, s.Terms, s.Size)
}
