package cli

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vbatista/medfind/internal/index"
)

func writeCollection(t *testing.T, dir string, lines ...string) string {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	for _, line := range lines {
		if _, err := gz.Write([]byte(line + "\n")); err != nil {
			t.Fatal(err)
		}
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "collection.jsonl.gz")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeQuestions(t *testing.T, dir string, lines ...string) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("questions.jsonl")
	if err != nil {
		t.Fatal(err)
	}
	for _, line := range lines {
		if _, err := w.Write([]byte(line + "\n")); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "questions.zip")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(args ...string) error {
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestIndexThenSearch(t *testing.T) {
	dir := t.TempDir()
	collection := writeCollection(t, dir,
		`{"pmid": "1", "title": "coronavirus vaccine", "abstract": "efficacy of the coronavirus vaccine"}`,
		`{"pmid": "2", "title": "tumor suppressor", "abstract": "p53 tumor suppressor gene"}`,
	)
	indexFolder := filepath.Join(dir, "idx")

	if err := run("index", "--rsv", "tfidf", "--smart", "lnc.ltc", collection, indexFolder); err != nil {
		t.Fatalf("index command failed: %v", err)
	}

	if _, err := os.Stat(index.TermsDataPath(indexFolder)); err != nil {
		t.Fatalf("term dictionary missing after indexing: %v", err)
	}
	if _, err := os.Stat(index.MetadataPath(indexFolder)); err != nil {
		t.Fatalf("metadata missing after indexing: %v", err)
	}

	questions := writeQuestions(t, dir,
		`{"query_text": "coronavirus vaccine", "documents_pmid": ["1"]}`,
	)
	csvPath := filepath.Join(dir, "metrics.csv")

	if err := run("search", "--topk", "5", "--csv", csvPath, questions, indexFolder); err != nil {
		t.Fatalf("search command failed: %v", err)
	}

	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatalf("metrics csv missing: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("csv = %q, want header plus one row", string(data))
	}
	// only the relevant doc matches the query, so it is the sole result:
	// precision and recall are both 1.00
	if !strings.HasPrefix(lines[1], "1.00,1.00") {
		t.Errorf("unexpected metrics row %q", lines[1])
	}
}

func TestIndexRejectsUnknownRSV(t *testing.T) {
	dir := t.TempDir()
	collection := writeCollection(t, dir, `{"pmid": "1", "title": "a", "abstract": "b"}`)

	err := run("index", "--rsv", "pagerank", collection, filepath.Join(dir, "idx"))
	if err == nil {
		t.Fatal("expected configuration error for unknown rsv")
	}
}

func TestIndexRejectsUnknownSmartNotation(t *testing.T) {
	dir := t.TempDir()
	collection := writeCollection(t, dir, `{"pmid": "1", "title": "a", "abstract": "b"}`)

	err := run("index", "--rsv", "tfidf", "--smart", "xxx.yyy", collection, filepath.Join(dir, "idx"))
	if err == nil {
		t.Fatal("expected configuration error for unknown SMART notation")
	}
}

func TestSearchRequiresIndex(t *testing.T) {
	dir := t.TempDir()
	questions := writeQuestions(t, dir, `{"query_text": "x", "documents_pmid": ["1"]}`)

	err := run("search", questions, filepath.Join(dir, "missing-idx"))
	if err == nil {
		t.Fatal("expected error when index metadata is absent")
	}
}
