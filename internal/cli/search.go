package cli

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vbatista/medfind/internal/index"
	"github.com/vbatista/medfind/internal/reader"
	"github.com/vbatista/medfind/internal/search"
	"github.com/vbatista/medfind/internal/tokenizer"
	"github.com/vbatista/medfind/internal/tui"
	"github.com/vbatista/medfind/internal/validation"
)

var searchCmd = &cobra.Command{
	Use:   "search <queries.zip> <index_folder>",
	Short: "Rank documents for a batch of evaluation queries",
	Long: `Answer every query of a zipped JSON-Lines question file against an existing
index, print the top-k documents and the per-query evaluation metrics.

The tokenizer is rebuilt from the index metadata, so queries are processed
exactly like the collection was.

Examples:
  medfind search questions.zip ./idx
  medfind search --topk 100 --boost 10 questions.zip ./idx
  medfind search --k1 1.4 --b 0.6 questions.zip ./idx
  medfind search --csv run.csv --interactive questions.zip ./idx`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		questionsPath, indexFolder := args[0], args[1]
		verbose, _ := cmd.Flags().GetBool("verbose")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("k1") {
			cfg.Searcher.K1, _ = cmd.Flags().GetFloat64("k1")
		}
		if cmd.Flags().Changed("b") {
			cfg.Searcher.B, _ = cmd.Flags().GetFloat64("b")
		}
		if cmd.Flags().Changed("boost") {
			cfg.Searcher.Boost, _ = cmd.Flags().GetString("boost")
		}
		if cmd.Flags().Changed("topk") {
			cfg.Searcher.TopK, _ = cmd.Flags().GetInt("topk")
		}

		topk, err := validation.ValidateTopK(cfg.Searcher.TopK)
		if err != nil {
			return err
		}

		meta, err := index.LoadMetadata(indexFolder)
		if err != nil {
			return err
		}

		tok, err := tokenizer.New(meta.TokenizerConfig())
		if err != nil {
			return err
		}

		searcher, err := search.NewSearcher(indexFolder, meta, search.Options{
			K1:             cfg.Searcher.K1,
			B:              cfg.Searcher.B,
			Boost:          cfg.Searcher.Boost,
			TopK:           topk,
			CacheThreshold: cfg.Searcher.CacheThreshold,
		})
		if err != nil {
			return err
		}

		if verbose {
			fmt.Printf("Loaded index %s: %s model, %d terms\n", indexFolder, meta.RSV, searcher.VocabularySize())
		}

		questions, err := reader.OpenQuestions(questionsPath)
		if err != nil {
			return err
		}
		defer questions.Close()

		var csvWriter *csv.Writer
		if csvPath, _ := cmd.Flags().GetString("csv"); csvPath != "" {
			f, err := os.Create(csvPath)
			if err != nil {
				return err
			}
			defer f.Close()
			csvWriter = csv.NewWriter(f)
			defer csvWriter.Flush()
			if err := csvWriter.Write([]string{
				"precision", "recall", "f_measure", "average_precision",
				"query_time", "avg_query_time", "median_query_time",
			}); err != nil {
				return err
			}
		}

		interactive, _ := cmd.Flags().GetBool("interactive")
		var browsed []tui.QueryResult
		var times search.QueryTimes

		for {
			question, err := questions.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return err
			}

			query, err := validation.ValidateQuery(question.Text)
			if err != nil {
				fmt.Printf("Skipping query: %v\n", err)
				continue
			}

			fmt.Println(query)

			start := time.Now()
			results, err := searcher.Search(tok, query)
			if err != nil {
				// a failed query is skipped; the session continues
				fmt.Printf("Skipping query: %v\n", err)
				continue
			}
			times.Observe(time.Since(start))

			if len(results) == 0 {
				fmt.Println("No matching documents found.")
				printSuggestions(searcher, tok, query)
				if interactive {
					browsed = append(browsed, tui.QueryResult{Query: query})
				}
				continue
			}

			for i, r := range results {
				fmt.Printf("%4d. %12s\t%10.2f\n", i+1, r.DocID, r.Score)
			}

			metrics := search.Evaluate(results, question.Relevant)
			fmt.Printf("Precision: %.4f\n", metrics.Precision)
			fmt.Printf("Recall: %.4f\n", metrics.Recall)
			fmt.Printf("F-measure: %.4f\n", metrics.FMeasure)
			fmt.Printf("Average Precision: %.4f\n", metrics.AveragePrecision)
			fmt.Printf("Query Time: %v\n", times.Last())
			fmt.Printf("Average Query Time: %v\n", times.Mean())
			fmt.Printf("Median Query Time: %v\n\n", times.Median())

			if csvWriter != nil {
				if err := csvWriter.Write([]string{
					format2(metrics.Precision),
					format2(metrics.Recall),
					format2(metrics.FMeasure),
					format2(metrics.AveragePrecision),
					format2(times.Last().Seconds()),
					format2(times.Mean().Seconds()),
					format2(times.Median().Seconds()),
				}); err != nil {
					return err
				}
			}

			if interactive {
				browsed = append(browsed, tui.QueryResult{
					Query:      query,
					Results:    results,
					Metrics:    metrics,
					HasMetrics: true,
				})
			}
		}

		if verbose {
			fmt.Println(searcher.CacheStats())
		}

		if interactive {
			return tui.Run(browsed)
		}
		return nil
	},
}

// printSuggestions offers dictionary terms close to the query tokens when
// nothing matched.
func printSuggestions(searcher *search.Searcher, tok *tokenizer.Tokenizer, query string) {
	seen := make(map[string]bool)
	var suggestions []string
	for _, term := range tok.Tokenize(query) {
		for _, s := range searcher.Suggestions(term, 1) {
			if s != term && !seen[s] {
				seen[s] = true
				suggestions = append(suggestions, s)
			}
		}
	}
	if len(suggestions) > 0 {
		fmt.Printf("Did you mean: %s\n", strings.Join(suggestions, ", "))
	}
}

func format2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func init() {
	searchCmd.Flags().Float64("k1", 1.2, "BM25 k1 parameter")
	searchCmd.Flags().Float64("b", 0.75, "BM25 b parameter")
	searchCmd.Flags().String("boost", "", "Window boost value B; scores are rescaled by B/(1+window)")
	searchCmd.Flags().Int("topk", 10, "Number of documents retrieved per query")
	searchCmd.Flags().String("csv", "", "Write per-query metrics to a CSV file (overwritten if present)")
	searchCmd.Flags().Bool("interactive", false, "Browse the evaluated queries in a TUI after the run")
}
