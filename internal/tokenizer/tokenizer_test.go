package tokenizer

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/vbatista/medfind/internal/config"
)

func mustNew(t *testing.T, cfg config.Tokenizer) *Tokenizer {
	t.Helper()
	tok, err := New(cfg)
	if err != nil {
		t.Fatalf("New(%+v) failed: %v", cfg, err)
	}
	return tok
}

func TestTokenizeSplitsWhitespaceAndHyphen(t *testing.T) {
	tok := mustNew(t, config.Tokenizer{})

	got := tok.Tokenize("SARS-CoV-2 spike\tprotein\nbinding")
	want := []string{"sars", "cov", "2", "spike", "protein", "binding"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestTokenizeStripsPunctuation(t *testing.T) {
	tok := mustNew(t, config.Tokenizer{})

	got := tok.Tokenize("p53, (tumor) suppressor;")
	want := []string{"p53", "tumor", "suppressor"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestTokenizeDropsEmptyPieces(t *testing.T) {
	tok := mustNew(t, config.Tokenizer{})

	// "--" and "..." reduce to nothing after stripping
	got := tok.Tokenize("alpha -- ... beta")
	want := []string{"alpha", "beta"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestTokenizeMinLength(t *testing.T) {
	tok := mustNew(t, config.Tokenizer{MinLength: 3})

	got := tok.Tokenize("a bc def ghij")
	want := []string{"def", "ghij"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestTokenizeStopwords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stopwords.txt")
	if err := os.WriteFile(path, []byte("the\nof\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tok := mustNew(t, config.Tokenizer{StopwordsPath: path})

	got := tok.Tokenize("The role of THE gene")
	want := []string{"role", "gene"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestTokenizeLowercasesWithoutStemmer(t *testing.T) {
	tok := mustNew(t, config.Tokenizer{})

	got := tok.Tokenize("Hepatitis VIRUS")
	want := []string{"hepatitis", "virus"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestTokenizePorterStemmer(t *testing.T) {
	tok := mustNew(t, config.Tokenizer{Stemmer: "potterNLTK"})

	got := tok.Tokenize("running")
	if len(got) != 1 || got[0] != "run" {
		t.Errorf("expected [run], got %v", got)
	}
}

func TestTokenizeSnowballStemmer(t *testing.T) {
	tok := mustNew(t, config.Tokenizer{Stemmer: "showball"})

	got := tok.Tokenize("infections")
	if len(got) != 1 || got[0] != "infect" {
		t.Errorf("expected [infect], got %v", got)
	}
}

func TestNewRejectsUnknownStemmer(t *testing.T) {
	if _, err := New(config.Tokenizer{Stemmer: "lovins"}); err == nil {
		t.Error("expected error for unknown stemmer")
	}
}

func TestNewMissingStopwordsFile(t *testing.T) {
	if _, err := New(config.Tokenizer{StopwordsPath: "/nonexistent/stopwords.txt"}); err == nil {
		t.Error("expected error for missing stopwords file")
	}
}
