package index

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/vbatista/medfind/internal/constants"
	"github.com/vbatista/medfind/internal/errors"
	"github.com/vbatista/medfind/internal/reader"
)

// Tokenizer converts text into an ordered sequence of index terms.
type Tokenizer interface {
	Tokenize(text string) []string
}

// DocumentSource streams the collection. Next returns io.EOF when the
// stream is exhausted.
type DocumentSource interface {
	Next() (reader.Document, error)
}

// Options configures an indexing run.
type Options struct {
	// RSV selects the ranking model ("tfidf" or "bm25").
	RSV string

	// SmartNotation is the TF-IDF SMART notation (tfidf only).
	SmartNotation string

	// MemoryBudget is the absolute budget in bytes; the builder spills
	// once its tracked footprint exceeds 60% of it.
	MemoryBudget int64

	// MergeThreshold is the merge accumulator size in bytes that triggers
	// a shard flush.
	MergeThreshold int64
}

// Stats summarizes a finished indexing run.
type Stats struct {
	Documents    int
	Blocks       int
	Vocabulary   int
	IndexBytes   int64
	IndexingTime time.Duration
	MergingTime  time.Duration
}

// Indexer builds a persistent inverted index with the SPIMI algorithm:
// accumulate a partial index in memory, spill sorted blocks once the memory
// threshold is crossed, and merge the blocks into term-range shards.
type Indexer struct {
	opts         Options
	outputFolder string

	builder    *Builder
	docLengths map[string]int
	totalDocs  int
	blockCount int
}

// NewIndexer creates an indexer writing to outputFolder. Zero option values
// fall back to the defaults.
func NewIndexer(opts Options, outputFolder string) *Indexer {
	if opts.MemoryBudget <= 0 {
		opts.MemoryBudget = constants.DefaultMemoryBudget
	}
	if opts.MergeThreshold <= 0 {
		opts.MergeThreshold = constants.DefaultMergeThreshold
	}
	return &Indexer{
		opts:         opts,
		outputFolder: outputFolder,
		builder:      NewBuilder(),
		docLengths:   make(map[string]int),
	}
}

// Build streams the collection into block files and merges them into the
// final index. Any I/O error is fatal for the run.
func (ix *Indexer) Build(docs DocumentSource, tok Tokenizer) (Stats, error) {
	if err := os.MkdirAll(ix.outputFolder, 0o755); err != nil {
		return Stats{}, errors.NewIndexError("create", ix.outputFolder, err)
	}

	spillThreshold := int64(float64(ix.opts.MemoryBudget) * constants.SpillFraction)

	indexStart := time.Now()
	for {
		doc, err := docs.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Stats{}, errors.NewIndexError("read", ix.outputFolder, err)
		}

		ix.totalDocs++
		tokens := tok.Tokenize(doc.Text())

		if ix.opts.RSV == constants.RSVBM25 {
			ix.docLengths[doc.ID] = len(tokens)
		}
		if len(tokens) == 0 {
			continue
		}

		for i, term := range tokens {
			ix.builder.AddPosition(term, doc.ID, i)
		}

		var weights map[string]float64
		if ix.opts.RSV == constants.RSVBM25 {
			weights, _ = BM25Weights(tokens)
		} else {
			weights = DocumentWeights(tokens, ix.opts.SmartNotation)
		}
		for term, weight := range weights {
			ix.builder.SetWeight(term, doc.ID, weight)
		}

		if ix.builder.Size() > spillThreshold {
			if err := ix.spillBlock(); err != nil {
				return Stats{}, err
			}
		}
	}

	if ix.builder.Len() > 0 {
		if err := ix.spillBlock(); err != nil {
			return Stats{}, err
		}
	}

	stats := Stats{
		Documents:    ix.totalDocs,
		Blocks:       ix.blockCount,
		IndexingTime: time.Since(indexStart),
	}

	mergeStart := time.Now()
	vocabulary, err := ix.mergeBlocks()
	if err != nil {
		return Stats{}, err
	}
	stats.Vocabulary = vocabulary
	stats.MergingTime = time.Since(mergeStart)

	if ix.opts.RSV == constants.RSVBM25 {
		if err := ix.writeDocsData(); err != nil {
			return Stats{}, err
		}
	}

	stats.IndexBytes = dirSize(MergedDir(ix.outputFolder))
	return stats, nil
}

// spillBlock writes the builder's contents as the next sorted block file
// and resets the builder. The block is written to a temporary file first so
// a failed spill leaves nothing behind.
func (ix *Indexer) spillBlock() error {
	path := filepath.Join(ix.outputFolder, BlockFilename(ix.blockCount))

	tmp, err := os.CreateTemp(ix.outputFolder, "block-*.tmp")
	if err != nil {
		return errors.NewIndexError("spill", path, err)
	}

	if err := ix.builder.WriteTo(tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.NewIndexError("spill", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.NewIndexError("spill", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return errors.NewIndexError("spill", path, err)
	}

	ix.blockCount++
	ix.builder.Reset()
	return nil
}

// writeDocsData persists the doc_id -> dl/avdl table consumed by the bm25
// searcher.
func (ix *Indexer) writeDocsData() error {
	path := DocsDataPath(ix.outputFolder)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.NewIndexError("write", path, err)
	}

	var total int64
	for _, dl := range ix.docLengths {
		total += int64(dl)
	}
	if ix.totalDocs == 0 || total == 0 {
		return os.WriteFile(path, nil, 0o644)
	}
	avdl := float64(total) / float64(ix.totalDocs)

	docIDs := make([]string, 0, len(ix.docLengths))
	for docID := range ix.docLengths {
		docIDs = append(docIDs, docID)
	}
	sort.Strings(docIDs)

	f, err := os.Create(path)
	if err != nil {
		return errors.NewIndexError("write", path, err)
	}
	for _, docID := range docIDs {
		line := fmt.Sprintf("%s,%.2f\n", docID, float64(ix.docLengths[docID])/avdl)
		if _, err := f.WriteString(line); err != nil {
			f.Close()
			os.Remove(path)
			return errors.NewIndexError("write", path, err)
		}
	}
	return f.Close()
}

func dirSize(dir string) int64 {
	var size int64
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	for _, entry := range entries {
		if info, err := entry.Info(); err == nil && !info.IsDir() {
			size += info.Size()
		}
	}
	return size
}
