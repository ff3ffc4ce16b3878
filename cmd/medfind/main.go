// medfind - batch indexer and ranked-retrieval engine for biomedical
// abstracts.
//
// medfind builds a persistent sharded inverted index over a compressed
// collection (SPIMI external indexing) and evaluates ranked queries against
// it:
//   - TF-IDF (SMART lnc.ltc, lnc.lnc, lnu.ltc) and Okapi BM25 ranking
//   - bounded-memory indexing with block spills and a k-way merge
//   - demand-loaded posting cache and window-based proximity boosting
//   - per-query precision/recall/F-measure/AP reporting
//
// Usage:
//
//	medfind index collection.jsonl.gz ./idx
//	medfind search questions.zip ./idx
package main

import (
	"fmt"
	"os"

	"github.com/vbatista/medfind/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
