package index

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vbatista/medfind/internal/config"
	"github.com/vbatista/medfind/internal/constants"
)

// TokenizerMetadata captures the tokenizer parameters used at index time so
// the searcher can rebuild a compatible tokenizer.
type TokenizerMetadata struct {
	MinLength     int    `json:"minL"`
	StopwordsPath string `json:"stopwords_path"`
	Stemmer       string `json:"stemmer"`
}

// Metadata is the record persisted alongside the index.
type Metadata struct {
	Tokenizer         TokenizerMetadata `json:"tokenizer"`
	RSV               string            `json:"rsv"`
	SmartNotation     string            `json:"smart_notation,omitempty"`
	IndexOutputFolder string            `json:"index_output_folder"`
}

type metadataFile struct {
	Metadata Metadata `json:"metadata"`
}

// TokenizerConfig converts the persisted tokenizer parameters back into a
// tokenizer configuration.
func (m Metadata) TokenizerConfig() config.Tokenizer {
	return config.Tokenizer{
		MinLength:     m.Tokenizer.MinLength,
		StopwordsPath: m.Tokenizer.StopwordsPath,
		Stemmer:       m.Tokenizer.Stemmer,
	}
}

// Index directory layout helpers. Blocks live transiently at the root of
// the index folder; everything else persists.

// MergedDir returns the directory holding the merged shard files.
func MergedDir(indexFolder string) string {
	return filepath.Join(indexFolder, "merged")
}

// TermsDataPath returns the term dictionary file. Its presence is the
// completeness marker of an index.
func TermsDataPath(indexFolder string) string {
	return filepath.Join(indexFolder, "data", "terms_data.txt")
}

// DocsDataPath returns the document-length table used by bm25.
func DocsDataPath(indexFolder string) string {
	return filepath.Join(indexFolder, "data", "docs_data.txt")
}

// MetadataPath returns the metadata record location.
func MetadataPath(indexFolder string) string {
	return filepath.Join(indexFolder, "metadata", "metadata.json")
}

// SaveMetadata persists the metadata record for later searcher sessions.
func SaveMetadata(meta Metadata) error {
	path := MetadataPath(meta.IndexOutputFolder)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create metadata folder: %w", err)
	}

	if meta.RSV != constants.RSVTFIDF {
		meta.SmartNotation = ""
	}

	data, err := json.Marshal(metadataFile{Metadata: meta})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadMetadata reads the metadata record of an existing index.
func LoadMetadata(indexFolder string) (Metadata, error) {
	data, err := os.ReadFile(MetadataPath(indexFolder))
	if err != nil {
		return Metadata{}, fmt.Errorf("could not load metadata file: %w", err)
	}

	var file metadataFile
	if err := json.Unmarshal(data, &file); err != nil {
		return Metadata{}, fmt.Errorf("could not parse metadata file: %w", err)
	}
	return file.Metadata, nil
}
