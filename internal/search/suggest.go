package search

import (
	"github.com/sahilm/fuzzy"

	"github.com/vbatista/medfind/internal/constants"
)

// Suggestions returns dictionary terms close to the given word, for a
// "did you mean" hint when a query term is absent from the collection.
func (s *Searcher) Suggestions(word string, max int) []string {
	if max <= 0 {
		max = constants.DefaultMaxSuggestions
	}

	matches := fuzzy.Find(word, s.terms)

	var suggestions []string
	for i, match := range matches {
		if i >= max {
			break
		}
		if match.Score >= constants.FuzzySuggestionThreshold {
			suggestions = append(suggestions, s.terms[match.Index])
		}
	}
	return suggestions
}
