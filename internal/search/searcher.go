package search

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/vbatista/medfind/internal/constants"
	"github.com/vbatista/medfind/internal/errors"
	"github.com/vbatista/medfind/internal/index"
)

// TermInfo is one term dictionary entry: the precomputed idf and the index
// of the shard holding the term's postings.
type TermInfo struct {
	IDF   float64
	Shard int
}

// Result is one ranked document.
type Result struct {
	DocID string
	Score float64
}

// Options configures a searcher session.
type Options struct {
	// K1 and B are the Okapi BM25 parameters (bm25 indexes only).
	K1 float64
	B  float64

	// Boost is the raw window boost value. The booster activates only
	// when it parses as a positive integer.
	Boost string

	// TopK is the number of documents returned per query.
	TopK int

	// CacheThreshold bounds the posting cache footprint in bytes.
	CacheThreshold int64
}

// Searcher answers queries against a merged on-disk index, loading term
// postings on demand through a bounded posting cache.
type Searcher struct {
	indexFolder string
	meta        index.Metadata
	opts        Options
	boost       int

	dict     map[string]TermInfo
	terms    []string
	shards   []string
	docNorms map[string]float64
	cache    *PostingCache
}

// NewSearcher opens an index for querying. The term dictionary is loaded
// whole; postings stay on disk until a query touches their term. A missing
// dictionary means the index never completed and is a fatal configuration
// error.
func NewSearcher(indexFolder string, meta index.Metadata, opts Options) (*Searcher, error) {
	if opts.TopK <= 0 {
		opts.TopK = constants.DefaultTopK
	}
	if opts.CacheThreshold <= 0 {
		opts.CacheThreshold = constants.DefaultCacheThreshold
	}

	s := &Searcher{
		indexFolder: indexFolder,
		meta:        meta,
		opts:        opts,
		cache:       NewPostingCache(opts.CacheThreshold),
		docNorms:    make(map[string]float64),
	}

	// the booster is a no-op unless B is a parseable positive integer
	if b, err := strconv.Atoi(strings.TrimSpace(opts.Boost)); err == nil && b > 0 {
		s.boost = b
	}

	if err := s.loadDictionary(); err != nil {
		return nil, err
	}
	if err := s.loadShardList(); err != nil {
		return nil, err
	}
	if meta.RSV == constants.RSVBM25 {
		if err := s.loadDocNorms(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Searcher) loadDictionary() error {
	path := index.TermsDataPath(s.indexFolder)
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("could not load terms data file: %w", err)
	}
	defer f.Close()

	s.dict = make(map[string]TermInfo)
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		parts := strings.Split(sc.Text(), ",")
		if len(parts) != 3 {
			continue
		}
		idf, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			continue
		}
		shard, err := strconv.Atoi(parts[2])
		if err != nil {
			continue
		}
		s.dict[parts[0]] = TermInfo{IDF: idf, Shard: shard}
		s.terms = append(s.terms, parts[0])
	}
	return sc.Err()
}

// loadShardList indexes the merged shards by their sorted filename
// position, which by construction equals the shard index in the dictionary.
func (s *Searcher) loadShardList() error {
	entries, err := os.ReadDir(index.MergedDir(s.indexFolder))
	if err != nil {
		return fmt.Errorf("could not list merged shards: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			s.shards = append(s.shards, entry.Name())
		}
	}
	sort.Strings(s.shards)
	return nil
}

func (s *Searcher) loadDocNorms() error {
	path := index.DocsDataPath(s.indexFolder)
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("could not load docs data file: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		parts := strings.Split(sc.Text(), ",")
		if len(parts) != 2 {
			continue
		}
		norm, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			continue
		}
		s.docNorms[parts[0]] = norm
	}
	return sc.Err()
}

// VocabularySize returns the number of dictionary terms.
func (s *Searcher) VocabularySize() int {
	return len(s.dict)
}

// CacheStats returns the posting cache counters for this session.
func (s *Searcher) CacheStats() Stats {
	return s.cache.Stats()
}

// Search scores the collection for one query and returns the top-k
// documents in descending score order. Ties keep the order in which the
// scoring pass first touched the documents.
func (s *Searcher) Search(tok index.Tokenizer, query string) ([]Result, error) {
	tokens := tok.Tokenize(query)
	if len(tokens) == 0 {
		return nil, nil
	}

	// unique query terms in first-occurrence order
	queryTF := make(map[string]int, len(tokens))
	order := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if queryTF[t] == 0 {
			order = append(order, t)
		}
		queryTF[t]++
	}

	var queryWeights map[string]float64
	if s.meta.RSV == constants.RSVTFIDF {
		queryWeights = tfidfQueryWeights(queryTF)
	}

	scores := make(map[string]float64)
	docOrder := make([]string, 0)
	docPositions := make(map[string]map[string][]int)
	minWindowSize := 0

	for _, term := range order {
		info, ok := s.dict[term]
		if !ok {
			continue
		}
		if info.IDF > constants.ContentTermIDF {
			minWindowSize++
		}

		entry, err := s.postings(term, info)
		if err != nil {
			return nil, errors.NewSearchError(query, err)
		}

		switch s.meta.RSV {
		case constants.RSVBM25:
			for _, docID := range entry.Docs {
				tf := entry.Weights[docID]
				norm, ok := s.docNorms[docID]
				if !ok {
					norm = 1
				}
				contribution := info.IDF * ((s.opts.K1 + 1) * tf) /
					(s.opts.K1*((1-s.opts.B)+s.opts.B*norm) + tf)
				if _, seen := scores[docID]; !seen {
					docOrder = append(docOrder, docID)
				}
				scores[docID] += contribution
			}
		default:
			weight := queryWeights[term]
			if s.meta.SmartNotation == constants.SmartLncLtc || s.meta.SmartNotation == constants.SmartLnuLtc {
				weight *= info.IDF
			}
			for _, docID := range entry.Docs {
				contribution := index.Round2(entry.Weights[docID] * weight)
				if _, seen := scores[docID]; !seen {
					docOrder = append(docOrder, docID)
				}
				scores[docID] += contribution
			}
		}

		for docID, positions := range entry.Positions {
			perDoc, ok := docPositions[docID]
			if !ok {
				perDoc = make(map[string][]int)
				docPositions[docID] = perDoc
			}
			perDoc[term] = positions
		}
	}

	if s.boost > 0 {
		applyWindowBoost(scores, docPositions, minWindowSize, s.boost)
	}
	s.cache.ClearPositions()

	if len(scores) == 0 {
		return nil, nil
	}

	results := make([]Result, 0, len(docOrder))
	for _, docID := range docOrder {
		results = append(results, Result{DocID: docID, Score: scores[docID]})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > s.opts.TopK {
		results = results[:s.opts.TopK]
	}
	return results, nil
}

// tfidfQueryWeights computes the query-side SMART weights: 1 + log10(tf),
// cosine-normalized over the query, rounded to two decimals.
func tfidfQueryWeights(tf map[string]int) map[string]float64 {
	weights := make(map[string]float64, len(tf))
	var sum float64
	for term, count := range tf {
		w := 1 + math.Log10(float64(count))
		weights[term] = w
		sum += w * w
	}
	norm := math.Sqrt(sum)
	if norm > 0 {
		for term, w := range weights {
			weights[term] = index.Round2(w / norm)
		}
	}
	return weights
}

// postings returns the cached entry for a term, loading it from its shard
// on a miss.
func (s *Searcher) postings(term string, info TermInfo) (*Entry, error) {
	if entry, ok := s.cache.Get(term); ok {
		return entry, nil
	}

	if info.Shard < 0 || info.Shard >= len(s.shards) {
		return nil, fmt.Errorf("term %q routes to missing shard %d", term, info.Shard)
	}
	entry, err := s.loadFromShard(term, filepath.Join(index.MergedDir(s.indexFolder), s.shards[info.Shard]))
	if err != nil {
		return nil, err
	}
	return s.cache.Put(entry), nil
}

// loadFromShard scans a shard file for the term's line and parses it.
// Shards are small contiguous term ranges, so a linear scan suffices.
func (s *Searcher) loadFromShard(term, path string) (*Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if index.LineTerm(line) != term {
			continue
		}
		_, postings, err := index.ParseLine(line)
		if err != nil {
			return nil, err
		}

		entry := &Entry{
			Term:      term,
			Docs:      make([]string, 0, len(postings)),
			Weights:   make(map[string]float64, len(postings)),
			Positions: make(map[string][]int, len(postings)),
		}
		for _, p := range postings {
			entry.Docs = append(entry.Docs, p.DocID)
			entry.Weights[p.DocID] = p.Weight
			entry.Positions[p.DocID] = p.Positions
		}
		return entry, nil
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return &Entry{Term: term, Weights: map[string]float64{}, Positions: map[string][]int{}}, nil
}
