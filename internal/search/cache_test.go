package search

import (
	"fmt"
	"testing"
)

func makeEntry(term string, docs ...string) *Entry {
	e := &Entry{
		Term:      term,
		Weights:   make(map[string]float64),
		Positions: make(map[string][]int),
	}
	for i, doc := range docs {
		e.Docs = append(e.Docs, doc)
		e.Weights[doc] = 1
		e.Positions[doc] = []int{i}
	}
	return e
}

func TestCacheGetPut(t *testing.T) {
	c := NewPostingCache(1 << 20)

	if _, ok := c.Get("alpha"); ok {
		t.Fatal("empty cache should miss")
	}

	c.Put(makeEntry("alpha", "1", "2"))
	entry, ok := c.Get("alpha")
	if !ok {
		t.Fatal("expected hit after Put")
	}
	if len(entry.Docs) != 2 || entry.Weights["1"] != 1 {
		t.Errorf("unexpected entry %+v", entry)
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("stats = %+v, want 1 hit 1 miss", stats)
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	one := makeEntry("t0", "1")
	one.size = one.computeSize()
	// room for two entries of this shape, not three
	c := NewPostingCache(one.computeSize()*2 + 10)

	c.Put(makeEntry("t0", "1"))
	c.Put(makeEntry("t1", "1"))
	c.Get("t0") // refresh t0 so t1 is now oldest
	c.Put(makeEntry("t2", "1"))

	if c.Contains("t1") {
		t.Error("t1 should have been evicted")
	}
	if !c.Contains("t0") || !c.Contains("t2") {
		t.Error("t0 and t2 should survive")
	}
	if c.Stats().Evictions != 1 {
		t.Errorf("evictions = %d, want 1", c.Stats().Evictions)
	}
}

func TestCacheSizeNeverExceedsThresholdAfterEviction(t *testing.T) {
	one := makeEntry("t000", "1")
	threshold := one.computeSize() + 10
	c := NewPostingCache(threshold)

	for i := 0; i < 20; i++ {
		c.Put(makeEntry(fmt.Sprintf("t%03d", i), "1"))
		if c.Size() > threshold {
			t.Fatalf("cache size %d exceeds threshold %d after Put", c.Size(), threshold)
		}
	}
	if c.Len() != 1 {
		t.Errorf("cache holds %d terms, want 1", c.Len())
	}
	if !c.Contains("t019") {
		t.Error("most recently inserted term should survive")
	}
}

func TestCacheClearPositions(t *testing.T) {
	c := NewPostingCache(1 << 20)
	c.Put(makeEntry("alpha", "1", "2", "3"))

	before := c.Size()
	c.ClearPositions()
	after := c.Size()

	if after >= before {
		t.Errorf("size should shrink after ClearPositions: %d -> %d", before, after)
	}

	entry, ok := c.Get("alpha")
	if !ok {
		t.Fatal("entry should survive ClearPositions")
	}
	if entry.Positions != nil {
		t.Error("positions should be dropped")
	}
	if len(entry.Weights) != 3 {
		t.Error("weights should persist across queries")
	}
}

func TestCachePutReplacesExisting(t *testing.T) {
	c := NewPostingCache(1 << 20)
	c.Put(makeEntry("alpha", "1"))
	c.Put(makeEntry("alpha", "1", "2", "3"))

	if c.Len() != 1 {
		t.Fatalf("cache holds %d terms, want 1", c.Len())
	}
	entry, _ := c.Get("alpha")
	if len(entry.Docs) != 3 {
		t.Errorf("replacement entry should win, got %d docs", len(entry.Docs))
	}
}
