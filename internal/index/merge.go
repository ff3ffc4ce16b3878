package index

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vbatista/medfind/internal/errors"
)

// blockReader keeps a one-line read-ahead over a sorted block file.
type blockReader struct {
	f        *os.File
	sc       *bufio.Scanner
	term     string
	postings []Posting
	done     bool
}

func openBlockReader(path string) (*blockReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	r := &blockReader{f: f, sc: sc}
	if err := r.advance(); err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

// advance parses the next line into the read-ahead head, marking the reader
// done at EOF.
func (r *blockReader) advance() error {
	if r.sc.Scan() {
		term, postings, err := ParseLine(r.sc.Text())
		if err != nil {
			return err
		}
		r.term = term
		r.postings = postings
		return nil
	}
	if err := r.sc.Err(); err != nil {
		return err
	}
	r.done = true
	r.term = ""
	r.postings = nil
	return nil
}

func (r *blockReader) close() { r.f.Close() }

// mergeAccumulator collects coalesced postings for a contiguous term range.
// Terms arrive in ascending order because the merger always absorbs the
// globally smallest head.
type mergeAccumulator struct {
	entries map[string]map[string]Posting
	order   []string
	size    int64
}

func newMergeAccumulator() *mergeAccumulator {
	return &mergeAccumulator{entries: make(map[string]map[string]Posting)}
}

func (a *mergeAccumulator) absorb(term string, postings []Posting) {
	docs, ok := a.entries[term]
	if !ok {
		docs = make(map[string]Posting)
		a.entries[term] = docs
		a.order = append(a.order, term)
		a.size += int64(len(term)) + termOverheadBytes
	}
	for _, p := range postings {
		docs[p.DocID] = p
		a.size += int64(len(p.DocID)) + postingOverheadBytes + int64(len(p.Positions))*positionBytes
	}
}

func (a *mergeAccumulator) reset() {
	a.entries = make(map[string]map[string]Posting)
	a.order = a.order[:0]
	a.size = 0
}

func (a *mergeAccumulator) lastTerm() string { return a.order[len(a.order)-1] }

// mergeBlocks runs the k-way merge over all block files: it repeatedly
// absorbs the lexicographically smallest head term, flushes a term-complete
// shard whenever the accumulator outgrows the merge threshold, writes the
// term dictionary, and deletes the blocks. Returns the vocabulary size.
func (ix *Indexer) mergeBlocks() (int, error) {
	mergedDir := MergedDir(ix.outputFolder)
	if err := os.MkdirAll(mergedDir, 0o755); err != nil {
		return 0, errors.NewIndexError("merge", mergedDir, err)
	}

	dictPath := TermsDataPath(ix.outputFolder)
	if err := os.MkdirAll(filepath.Dir(dictPath), 0o755); err != nil {
		return 0, errors.NewIndexError("merge", dictPath, err)
	}

	// The dictionary is assembled under a temporary name and renamed once
	// merging succeeds; its presence marks a complete index.
	dictTmp, err := os.CreateTemp(filepath.Dir(dictPath), "terms-*.tmp")
	if err != nil {
		return 0, errors.NewIndexError("merge", dictPath, err)
	}
	dict := bufio.NewWriter(dictTmp)

	blockPaths := make([]string, ix.blockCount)
	for i := range blockPaths {
		blockPaths[i] = filepath.Join(ix.outputFolder, BlockFilename(i))
	}

	readers := make([]*blockReader, 0, len(blockPaths))
	closeAll := func() {
		for _, r := range readers {
			r.close()
		}
	}
	fail := func(op, path string, cause error) (int, error) {
		closeAll()
		dictTmp.Close()
		os.Remove(dictTmp.Name())
		return 0, errors.NewIndexError(op, path, cause)
	}

	for _, path := range blockPaths {
		r, err := openBlockReader(path)
		if err != nil {
			return fail("merge", path, err)
		}
		readers = append(readers, r)
	}

	acc := newMergeAccumulator()
	vocabulary := 0
	shardIndex := 0

	flush := func() error {
		if err := ix.writeShard(mergedDir, shardIndex, acc, dict); err != nil {
			return err
		}
		vocabulary += len(acc.order)
		shardIndex++
		acc.reset()
		return nil
	}

	for {
		smallest := -1
		for i, r := range readers {
			if r.done {
				continue
			}
			if smallest < 0 || r.term < readers[smallest].term {
				smallest = i
			}
		}
		if smallest < 0 {
			break
		}

		r := readers[smallest]
		acc.absorb(r.term, r.postings)
		if err := r.advance(); err != nil {
			return fail("merge", r.f.Name(), err)
		}

		if acc.size > ix.opts.MergeThreshold {
			// Term-complete flush: drain every head equal to the last
			// accumulated term so no term is split across shards.
			last := acc.lastTerm()
			for _, other := range readers {
				for !other.done && other.term == last {
					acc.absorb(other.term, other.postings)
					if err := other.advance(); err != nil {
						return fail("merge", other.f.Name(), err)
					}
				}
			}
			if err := flush(); err != nil {
				closeAll()
				dictTmp.Close()
				os.Remove(dictTmp.Name())
				return 0, err
			}
		}
	}

	if len(acc.order) > 0 {
		if err := flush(); err != nil {
			closeAll()
			dictTmp.Close()
			os.Remove(dictTmp.Name())
			return 0, err
		}
	}
	closeAll()

	if err := dict.Flush(); err != nil {
		dictTmp.Close()
		os.Remove(dictTmp.Name())
		return 0, errors.NewIndexError("merge", dictPath, err)
	}
	if err := dictTmp.Close(); err != nil {
		os.Remove(dictTmp.Name())
		return 0, errors.NewIndexError("merge", dictPath, err)
	}
	if err := os.Rename(dictTmp.Name(), dictPath); err != nil {
		os.Remove(dictTmp.Name())
		return 0, errors.NewIndexError("merge", dictPath, err)
	}

	for _, path := range blockPaths {
		if err := os.Remove(path); err != nil {
			return 0, errors.NewIndexError("cleanup", path, err)
		}
	}
	return vocabulary, nil
}

// writeShard writes one shard covering the accumulator's term range and
// appends the range's dictionary entries.
func (ix *Indexer) writeShard(mergedDir string, shardIndex int, acc *mergeAccumulator, dict *bufio.Writer) error {
	first, last := acc.order[0], acc.lastTerm()
	path := filepath.Join(mergedDir, ShardFilename(shardIndex, first, last))

	tmp, err := os.CreateTemp(mergedDir, "shard-*.tmp")
	if err != nil {
		return errors.NewIndexError("merge", path, err)
	}
	w := bufio.NewWriter(tmp)

	var sb strings.Builder
	for _, term := range acc.order {
		docs := acc.entries[term]
		postings := make([]Posting, 0, len(docs))
		for _, p := range docs {
			postings = append(postings, p)
		}

		sb.Reset()
		EncodeLine(&sb, term, postings)
		if _, err := w.WriteString(sb.String()); err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			return errors.NewIndexError("merge", path, err)
		}

		idf := Round2(IDF(ix.totalDocs, len(docs)))
		dictLine := term + "," + strconv.FormatFloat(idf, 'f', 2, 64) + "," + strconv.Itoa(shardIndex) + "\n"
		if _, err := dict.WriteString(dictLine); err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			return errors.NewIndexError("merge", path, err)
		}
	}

	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.NewIndexError("merge", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.NewIndexError("merge", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return errors.NewIndexError("merge", path, err)
	}
	return nil
}
