package index

import (
	"bufio"
	"io"
	"sort"
	"strings"
)

// Approximate per-element map and slice overheads used for resident-size
// accounting. The builder tracks its own footprint instead of probing the
// OS so the spill contract behaves the same on every host.
const (
	termOverheadBytes    = 80
	postingOverheadBytes = 96
	positionBytes        = 8
)

type builderEntry struct {
	weight    float64
	positions []int
}

// Builder accumulates one spill interval's partial inverted index in
// memory: per-term postings with document weights and in-document token
// positions, plus a running estimate of the resident bytes they occupy.
type Builder struct {
	postings map[string]map[string]*builderEntry
	size     int64
}

// NewBuilder creates an empty in-memory index builder.
func NewBuilder() *Builder {
	return &Builder{
		postings: make(map[string]map[string]*builderEntry),
	}
}

// AddPosition appends one token offset for the (term, doc) pair. Offsets
// arrive in document order, so position lists stay strictly increasing.
func (b *Builder) AddPosition(term, docID string, pos int) {
	docs, ok := b.postings[term]
	if !ok {
		docs = make(map[string]*builderEntry)
		b.postings[term] = docs
		b.size += int64(len(term)) + termOverheadBytes
	}

	entry, ok := docs[docID]
	if !ok {
		entry = &builderEntry{}
		docs[docID] = entry
		b.size += int64(len(docID)) + postingOverheadBytes
	}

	entry.positions = append(entry.positions, pos)
	b.size += positionBytes
}

// SetWeight freezes the document-side weight for the (term, doc) pair. The
// pair must already exist from position recording; each document inserts a
// given term at most once per batch.
func (b *Builder) SetWeight(term, docID string, weight float64) {
	if docs, ok := b.postings[term]; ok {
		if entry, ok := docs[docID]; ok {
			entry.weight = weight
		}
	}
}

// Len returns the number of distinct terms currently held.
func (b *Builder) Len() int {
	return len(b.postings)
}

// Size returns the tracked resident footprint in bytes.
func (b *Builder) Size() int64 {
	return b.size
}

// Reset clears the builder for the next spill interval.
func (b *Builder) Reset() {
	b.postings = make(map[string]map[string]*builderEntry)
	b.size = 0
}

// Terms returns the held terms in ascending order.
func (b *Builder) Terms() []string {
	terms := make([]string, 0, len(b.postings))
	for term := range b.postings {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}

// PostingsFor returns the accumulated postings of one term.
func (b *Builder) PostingsFor(term string) []Posting {
	docs, ok := b.postings[term]
	if !ok {
		return nil
	}
	postings := make([]Posting, 0, len(docs))
	for docID, entry := range docs {
		postings = append(postings, Posting{
			DocID:     docID,
			Weight:    entry.weight,
			Positions: entry.positions,
		})
	}
	return postings
}

// WriteTo writes the builder's contents as a sorted block to w.
func (b *Builder) WriteTo(w io.Writer) error {
	bw := bufio.NewWriter(w)
	var sb strings.Builder
	for _, term := range b.Terms() {
		sb.Reset()
		EncodeLine(&sb, term, b.PostingsFor(term))
		if _, err := bw.WriteString(sb.String()); err != nil {
			return err
		}
	}
	return bw.Flush()
}
