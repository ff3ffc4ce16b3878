// Package tokenizer converts document and query text into index terms.
//
// The pipeline is: split on whitespace and hyphen, strip non-word characters
// from each piece, drop tokens shorter than the configured minimum length,
// drop stopwords, then stem (or lowercase when no stemmer is configured).
// The same tokenizer configuration must be used at index and query time; the
// searcher rebuilds it from the persisted index metadata.
package tokenizer

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/kljensen/snowball"
	"github.com/surgebase/porter2"

	"github.com/vbatista/medfind/internal/config"
	"github.com/vbatista/medfind/internal/constants"
)

var (
	splitPattern = regexp.MustCompile(`[\s-]+`)
	stripPattern = regexp.MustCompile(`[^\w]`)
)

// Tokenizer turns raw text into an ordered sequence of terms.
type Tokenizer struct {
	minLength int
	stopwords map[string]struct{}
	stemmer   string
}

// New creates a tokenizer from the given configuration. The stopword file,
// when configured, holds one stopword per line.
func New(cfg config.Tokenizer) (*Tokenizer, error) {
	switch cfg.Stemmer {
	case "", constants.StemmerPorter, constants.StemmerSnowball:
	default:
		return nil, fmt.Errorf("unknown stemmer %q", cfg.Stemmer)
	}

	stopwords, err := loadStopwords(cfg.StopwordsPath)
	if err != nil {
		return nil, err
	}

	return &Tokenizer{
		minLength: cfg.MinLength,
		stopwords: stopwords,
		stemmer:   cfg.Stemmer,
	}, nil
}

func loadStopwords(path string) (map[string]struct{}, error) {
	stopwords := make(map[string]struct{})
	if path == "" {
		return stopwords, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stopwords file: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		word := strings.TrimSpace(sc.Text())
		if word != "" {
			stopwords[word] = struct{}{}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stopwords file: %w", err)
	}
	return stopwords, nil
}

// Tokenize converts text into an ordered sequence of terms. Token offsets in
// the returned slice are the positions recorded in the index.
func (t *Tokenizer) Tokenize(text string) []string {
	pieces := splitPattern.Split(text, -1)

	tokens := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		word := stripPattern.ReplaceAllString(piece, "")
		if word == "" {
			continue
		}
		if t.minLength > 0 && len(word) < t.minLength {
			continue
		}
		lower := strings.ToLower(word)
		if _, stopped := t.stopwords[lower]; stopped {
			continue
		}
		tokens = append(tokens, t.stem(lower))
	}
	return tokens
}

// stem applies the configured stemming algorithm to an already lowercased
// word. Without a stemmer the lowercased form is the term.
func (t *Tokenizer) stem(word string) string {
	switch t.stemmer {
	case constants.StemmerPorter:
		return porter2.Stem(word)
	case constants.StemmerSnowball:
		stemmed, err := snowball.Stem(word, "english", true)
		if err != nil {
			return word
		}
		return stemmed
	default:
		return word
	}
}
