// Package cli provides the command-line interface for medfind.
//
// This package implements the two operation modes using the Cobra CLI
// framework:
//   - index: stream a compressed document collection into a persistent
//     inverted index
//   - search: answer a batch of evaluation queries against an existing
//     index and report ranking metrics
//
// The Execute function is the main entry point for the CLI application.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/vbatista/medfind/internal/config"
	"github.com/vbatista/medfind/internal/version"
)

var rootCmd = &cobra.Command{
	Use:     "medfind",
	Short:   "Index and search collections of biomedical abstracts",
	Version: version.Version,
	Long: `medfind builds a persistent inverted index over a gzip-compressed collection
of biomedical abstracts (SPIMI external indexing) and answers ranked queries
against it with TF-IDF or Okapi BM25 scoring, optional proximity boosting
and per-query evaluation metrics.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and handles all CLI interactions.
//
// Returns an error if command execution fails, nil on successful completion.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(searchCmd)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML configuration file")
}

// loadConfig builds the effective configuration: defaults overlaid by the
// optional --config file. Command flags override both afterwards.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
