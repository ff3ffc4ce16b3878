// Package validation provides input validation and sanitization utilities.
package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/vbatista/medfind/internal/constants"
)

// ValidateQuery validates and sanitizes query text read from a question file
// or typed interactively.
func ValidateQuery(query string) (string, error) {
	if len(query) == 0 {
		return "", fmt.Errorf("query cannot be empty")
	}

	if len(query) > constants.MaxQueryLength {
		return "", fmt.Errorf("query too long (max %d characters)", constants.MaxQueryLength)
	}

	// Remove control characters but keep printable chars
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, query)

	// Collapse whitespace runs
	cleaned = strings.Join(strings.Fields(cleaned), " ")

	if len(cleaned) == 0 {
		return "", fmt.Errorf("query contains no valid characters")
	}

	return cleaned, nil
}

// ValidateTopK validates the number of documents retrieved per query.
func ValidateTopK(topk int) (int, error) {
	if topk <= 0 {
		return 0, fmt.Errorf("topk must be positive, got %d", topk)
	}
	if topk > constants.MaxTopK {
		return 0, fmt.Errorf("topk too large, got %d (max: %d)", topk, constants.MaxTopK)
	}
	return topk, nil
}
