package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vbatista/medfind/internal/errors"
	"github.com/vbatista/medfind/internal/index"
	"github.com/vbatista/medfind/internal/reader"
	"github.com/vbatista/medfind/internal/tokenizer"
)

var indexCmd = &cobra.Command{
	Use:   "index <collection.gz> <index_folder>",
	Short: "Build a persistent inverted index from a compressed collection",
	Long: `Build a persistent inverted index from a gzip-compressed JSON-Lines
collection of abstracts.

Examples:
  medfind index collection.jsonl.gz ./idx
  medfind index --rsv bm25 collection.jsonl.gz ./idx
  medfind index --rsv tfidf --smart lnu.ltc --min-length 3 \
      --stopwords stopwords.txt --stemmer potterNLTK collection.jsonl.gz ./idx`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		collectionPath, indexFolder := args[0], args[1]
		verbose, _ := cmd.Flags().GetBool("verbose")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("rsv") {
			cfg.Indexer.RSV, _ = cmd.Flags().GetString("rsv")
		}
		if cmd.Flags().Changed("smart") {
			cfg.Indexer.SmartNotation, _ = cmd.Flags().GetString("smart")
		}
		if cmd.Flags().Changed("memory-budget") {
			cfg.Indexer.MemoryBudget, _ = cmd.Flags().GetInt64("memory-budget")
		}
		if cmd.Flags().Changed("merge-threshold") {
			cfg.Indexer.MergeThreshold, _ = cmd.Flags().GetInt64("merge-threshold")
		}
		if cmd.Flags().Changed("min-length") {
			cfg.Tokenizer.MinLength, _ = cmd.Flags().GetInt("min-length")
		}
		if cmd.Flags().Changed("stopwords") {
			cfg.Tokenizer.StopwordsPath, _ = cmd.Flags().GetString("stopwords")
		}
		if cmd.Flags().Changed("stemmer") {
			cfg.Tokenizer.Stemmer, _ = cmd.Flags().GetString("stemmer")
		}

		if err := cfg.Validate(); err != nil {
			return errors.NewConfigError("indexer", err)
		}

		tok, err := tokenizer.New(cfg.Tokenizer)
		if err != nil {
			return errors.NewConfigError("tokenizer", err)
		}

		// A dictionary from an earlier run marks a complete index; it is
		// about to be overwritten.
		if _, err := os.Stat(index.TermsDataPath(indexFolder)); err == nil {
			fmt.Println("Warning: previous index files found in index folder.")
		}

		docs, err := reader.OpenDocuments(collectionPath)
		if err != nil {
			return err
		}
		defer docs.Close()

		fmt.Printf("Indexing %s into %s (%s)...\n", collectionPath, indexFolder, cfg.Indexer.RSV)

		ix := index.NewIndexer(index.Options{
			RSV:            cfg.Indexer.RSV,
			SmartNotation:  cfg.Indexer.SmartNotation,
			MemoryBudget:   cfg.Indexer.MemoryBudget,
			MergeThreshold: cfg.Indexer.MergeThreshold,
		}, indexFolder)

		stats, err := ix.Build(docs, tok)
		if err != nil {
			return err
		}

		if err := index.SaveMetadata(index.Metadata{
			Tokenizer: index.TokenizerMetadata{
				MinLength:     cfg.Tokenizer.MinLength,
				StopwordsPath: cfg.Tokenizer.StopwordsPath,
				Stemmer:       cfg.Tokenizer.Stemmer,
			},
			RSV:               cfg.Indexer.RSV,
			SmartNotation:     cfg.Indexer.SmartNotation,
			IndexOutputFolder: indexFolder,
		}); err != nil {
			return err
		}

		fmt.Printf("Indexed %d documents (%d terms) in %v\n",
			stats.Documents, stats.Vocabulary, stats.IndexingTime+stats.MergingTime)

		if verbose {
			fmt.Println("\n:: Statistics ::")
			fmt.Printf("> Total indexing time: %v\n", stats.IndexingTime)
			fmt.Printf("> Total merging time: %v\n", stats.MergingTime)
			fmt.Printf("> Number of temporary index files: %d\n", stats.Blocks)
			fmt.Printf("> Total index size: %.3f MiB\n", float64(stats.IndexBytes)/(1<<20))
			fmt.Printf("> Vocabulary size (number of terms): %d\n", stats.Vocabulary)
		}
		return nil
	},
}

func init() {
	indexCmd.Flags().String("rsv", "tfidf", "Ranking model the index is built for (tfidf|bm25)")
	indexCmd.Flags().String("smart", "lnc.ltc", "TF-IDF SMART notation (lnc.ltc|lnc.lnc|lnu.ltc)")
	indexCmd.Flags().Int64("memory-budget", 0, "Memory budget in bytes for the in-memory index (default: 2 GiB)")
	indexCmd.Flags().Int64("merge-threshold", 0, "Shard flush threshold in bytes (default: 20 MiB)")
	indexCmd.Flags().Int("min-length", 0, "Minimum token length (0 = unbounded)")
	indexCmd.Flags().String("stopwords", "", "Path to a stopword file, one word per line")
	indexCmd.Flags().String("stemmer", "", "Stemmer to apply (potterNLTK|showball); absent = lowercase only")
}
