package index

import (
	"math"

	"github.com/vbatista/medfind/internal/constants"
)

// Round2 rounds to two decimals, the precision used for every weight and
// idf value persisted to disk.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// TermFrequencies counts raw term frequencies over one token sequence.
func TermFrequencies(tokens []string) map[string]int {
	tf := make(map[string]int, len(tokens))
	for _, t := range tokens {
		tf[t]++
	}
	return tf
}

// DocumentWeights computes the frozen document-side weight of every term in
// one document's token sequence under the given SMART notation:
//
//	lnc.ltc, lnc.lnc: 1 + log10(tf), cosine-normalized over the document
//	lnu.ltc:          1 + log10(tf), divided by the unique-term count
//
// Weights are rounded to two decimals before persistence.
func DocumentWeights(tokens []string, smartNotation string) map[string]float64 {
	tf := TermFrequencies(tokens)
	weights := make(map[string]float64, len(tf))
	for term, count := range tf {
		weights[term] = 1 + math.Log10(float64(count))
	}

	var norm float64
	switch smartNotation {
	case constants.SmartLnuLtc:
		norm = float64(len(weights))
	default:
		var sum float64
		for _, w := range weights {
			sum += w * w
		}
		norm = math.Sqrt(sum)
	}

	if norm > 0 {
		for term, w := range weights {
			weights[term] = Round2(w / norm)
		}
	}
	return weights
}

// BM25Weights returns the raw term frequencies stored for the bm25 model
// together with the document length in tokens.
func BM25Weights(tokens []string) (map[string]float64, int) {
	tf := TermFrequencies(tokens)
	weights := make(map[string]float64, len(tf))
	for term, count := range tf {
		weights[term] = float64(count)
	}
	return weights, len(tokens)
}

// IDF computes log10(N / df), the inverse document frequency stored in the
// term dictionary.
func IDF(totalDocs, docFreq int) float64 {
	return math.Log10(float64(totalDocs) / float64(docFreq))
}
