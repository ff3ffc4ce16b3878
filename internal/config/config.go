// Package config provides application configuration management.
//
// This package handles all configuration-related functionality including:
//   - Default configuration values
//   - Configuration validation
//   - Optional YAML configuration files
//
// The Config struct is the main configuration container; its values are
// passed by value into the tokenizer, indexer and searcher constructors.
// There is no global configuration state.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vbatista/medfind/internal/constants"
)

// Tokenizer holds document/query tokenization settings. The searcher
// reconstructs a compatible tokenizer from the values persisted in the
// index metadata, so the same struct is used on both sides.
type Tokenizer struct {
	// MinLength is the minimum token character length. Zero means no
	// minimum is applied.
	MinLength int `yaml:"min_length"`

	// StopwordsPath is a file with one stopword per line. Empty means an
	// empty stopword set.
	StopwordsPath string `yaml:"stopwords_path"`

	// Stemmer identifies the stemming algorithm ("potterNLTK" or
	// "showball"). Empty means no stemming; tokens are lowercased instead.
	Stemmer string `yaml:"stemmer"`
}

// Indexer holds settings for an indexing run.
type Indexer struct {
	// RSV selects the ranking model the index is built for ("tfidf" or
	// "bm25"). Document-side weights are frozen at index time, so the
	// model is an index property, not a query property.
	RSV string `yaml:"rsv"`

	// SmartNotation is the TF-IDF SMART weighting notation. Only
	// meaningful when RSV is "tfidf".
	SmartNotation string `yaml:"smart_notation"`

	// MemoryBudget is the absolute memory budget in bytes for the
	// in-memory partial index. A spill is triggered once the builder's
	// tracked footprint exceeds 60% of it.
	MemoryBudget int64 `yaml:"memory_budget"`

	// MergeThreshold is the accumulated merge size in bytes at which a
	// shard is flushed.
	MergeThreshold int64 `yaml:"merge_threshold"`
}

// Searcher holds settings for a search session.
type Searcher struct {
	// K1 and B are the Okapi BM25 parameters.
	K1 float64 `yaml:"k1"`
	B  float64 `yaml:"b"`

	// Boost is the raw window boost value. The booster activates only if
	// this parses as a positive integer; anything else disables it.
	Boost string `yaml:"boost"`

	// TopK is the number of documents retrieved per query.
	TopK int `yaml:"topk"`

	// CacheThreshold bounds the posting cache footprint in bytes.
	CacheThreshold int64 `yaml:"cache_threshold"`
}

// Config is the top-level configuration container.
type Config struct {
	Tokenizer Tokenizer `yaml:"tokenizer"`
	Indexer   Indexer   `yaml:"indexer"`
	Searcher  Searcher  `yaml:"searcher"`
}

// DefaultConfig returns a new Config instance with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Indexer: Indexer{
			RSV:            constants.RSVTFIDF,
			SmartNotation:  constants.SmartLncLtc,
			MemoryBudget:   constants.DefaultMemoryBudget,
			MergeThreshold: constants.DefaultMergeThreshold,
		},
		Searcher: Searcher{
			K1:             constants.DefaultK1,
			B:              constants.DefaultB,
			TopK:           constants.DefaultTopK,
			CacheThreshold: constants.DefaultCacheThreshold,
		},
	}
}

// LoadFile overlays values from a YAML configuration file on top of c.
// Missing keys keep their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// Validate checks if the configuration contains valid values.
func (c *Config) Validate() error {
	switch c.Indexer.RSV {
	case constants.RSVTFIDF:
		switch c.Indexer.SmartNotation {
		case constants.SmartLncLtc, constants.SmartLncLnc, constants.SmartLnuLtc:
		default:
			return fmt.Errorf("smart notation %q not supported (supported: %q, %q, %q)",
				c.Indexer.SmartNotation, constants.SmartLncLtc, constants.SmartLncLnc, constants.SmartLnuLtc)
		}
	case constants.RSVBM25:
	default:
		return fmt.Errorf("rsv %q not supported (supported: %q, %q)",
			c.Indexer.RSV, constants.RSVTFIDF, constants.RSVBM25)
	}

	if c.Indexer.MemoryBudget <= 0 {
		return fmt.Errorf("memory budget must be positive, got %d", c.Indexer.MemoryBudget)
	}
	if c.Indexer.MergeThreshold <= 0 {
		return fmt.Errorf("merge threshold must be positive, got %d", c.Indexer.MergeThreshold)
	}
	if c.Tokenizer.MinLength < 0 {
		return fmt.Errorf("min token length cannot be negative, got %d", c.Tokenizer.MinLength)
	}
	switch c.Tokenizer.Stemmer {
	case "", constants.StemmerPorter, constants.StemmerSnowball:
	default:
		return fmt.Errorf("stemmer %q not supported (supported: %q, %q)",
			c.Tokenizer.Stemmer, constants.StemmerPorter, constants.StemmerSnowball)
	}

	if c.Searcher.TopK <= 0 {
		return fmt.Errorf("topk must be positive, got %d", c.Searcher.TopK)
	}
	if c.Searcher.K1 < 0 || c.Searcher.B < 0 || c.Searcher.B > 1 {
		return fmt.Errorf("bm25 parameters out of range: k1=%v b=%v", c.Searcher.K1, c.Searcher.B)
	}
	if c.Searcher.CacheThreshold <= 0 {
		return fmt.Errorf("cache threshold must be positive, got %d", c.Searcher.CacheThreshold)
	}
	return nil
}
