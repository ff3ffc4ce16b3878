// Package constants defines application-wide constants and configuration values.
//
// This package centralizes all constant values used throughout medfind
// including:
//   - Indexing memory budget and spill threshold
//   - Merge and posting-cache size thresholds
//   - Ranking model defaults
//   - Query and result limits
//
// These values mirror the behaviour of the reference retrieval pipeline and
// are tuned for indexing collections of biomedical abstracts.
package constants

// Indexing settings
const (
	// DefaultMemoryBudget is the absolute memory budget for the in-memory
	// partial index (2 GiB).
	DefaultMemoryBudget = int64(2) << 30

	// SpillFraction of the memory budget that the in-memory builder may
	// occupy before a block is spilled to disk.
	SpillFraction = 0.6

	// DefaultMergeThreshold is the accumulated size at which the merger
	// performs a term-complete flush into a new shard (20 MiB).
	DefaultMergeThreshold = int64(20) << 20
)

// Searcher settings
const (
	// DefaultCacheThreshold bounds the posting cache footprint (20 MiB).
	DefaultCacheThreshold = int64(20) << 20

	// DefaultTopK documents returned per query.
	DefaultTopK = 10

	// DefaultK1 and DefaultB are the Okapi BM25 parameters.
	DefaultK1 = 1.2
	DefaultB  = 0.75

	// ContentTermIDF is the idf above which a query term counts towards the
	// minimum window size. Terms at or below it are too frequent to anchor
	// a proximity window.
	ContentTermIDF = 2.0
)

// Ranking models
const (
	RSVTFIDF = "tfidf"
	RSVBM25  = "bm25"
)

// Supported SMART notations for the tfidf model
const (
	SmartLncLtc = "lnc.ltc"
	SmartLncLnc = "lnc.lnc"
	SmartLnuLtc = "lnu.ltc"
)

// Supported stemmer identifiers
const (
	StemmerPorter   = "potterNLTK"
	StemmerSnowball = "showball"
)

// Limits
const (
	MaxQueryLength = 1000 // Maximum query length in characters
	MaxTopK        = 1000
)

// Suggestion constants
const (
	DefaultMaxSuggestions    = 3
	FuzzySuggestionThreshold = -20
)
