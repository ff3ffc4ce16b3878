package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
	if cfg.Indexer.RSV != "tfidf" {
		t.Errorf("expected default rsv tfidf, got %q", cfg.Indexer.RSV)
	}
	if cfg.Searcher.K1 != 1.2 || cfg.Searcher.B != 0.75 {
		t.Errorf("unexpected bm25 defaults: k1=%v b=%v", cfg.Searcher.K1, cfg.Searcher.B)
	}
}

func TestValidateRejectsUnknownRSV(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Indexer.RSV = "pagerank"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown rsv")
	}
}

func TestValidateRejectsUnknownSmartNotation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Indexer.SmartNotation = "bnn.bnn"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown SMART notation")
	}
}

func TestValidateIgnoresSmartNotationForBM25(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Indexer.RSV = "bm25"
	cfg.Indexer.SmartNotation = "whatever"
	if err := cfg.Validate(); err != nil {
		t.Errorf("smart notation should not matter for bm25, got %v", err)
	}
}

func TestValidateRejectsUnknownStemmer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tokenizer.Stemmer = "lancaster"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown stemmer")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "medfind.yml")
	body := `
indexer:
  rsv: bm25
  memory_budget: 1048576
searcher:
  topk: 25
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	if err := cfg.LoadFile(path); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Indexer.RSV != "bm25" {
		t.Errorf("expected rsv bm25, got %q", cfg.Indexer.RSV)
	}
	if cfg.Indexer.MemoryBudget != 1048576 {
		t.Errorf("expected memory budget 1048576, got %d", cfg.Indexer.MemoryBudget)
	}
	if cfg.Searcher.TopK != 25 {
		t.Errorf("expected topk 25, got %d", cfg.Searcher.TopK)
	}
	// untouched keys keep their defaults
	if cfg.Searcher.K1 != 1.2 {
		t.Errorf("expected k1 default preserved, got %v", cfg.Searcher.K1)
	}
}

func TestLoadFileMissing(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.LoadFile(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Error("expected error for missing config file")
	}
}
