// Package reader provides streaming access to compressed document
// collections and question files.
//
// Documents arrive as a gzip-compressed JSON-Lines archive where each line
// holds a pmid, a title and an abstract. Questions arrive as a zip archive
// of JSON-Lines files where each line holds a query string and the set of
// pmids judged relevant for it. Malformed lines are skipped silently in
// both formats.
package reader

import (
	"archive/zip"
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/pgzip"
)

// docID accepts both JSON string and JSON number encodings of an
// identifier and keeps the textual form.
type docID string

func (d *docID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 1 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = docID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*d = docID(n.String())
	return nil
}

// Document is one collection entry. The ID is opaque to the rest of the
// system; it is numeric-looking in PubMed collections but always treated as
// a string.
type Document struct {
	ID       string
	Title    string
	Abstract string
}

// Text returns the searchable text of the document.
func (d Document) Text() string {
	if d.Title == "" {
		return d.Abstract
	}
	if d.Abstract == "" {
		return d.Title
	}
	return d.Title + " " + d.Abstract
}

// Question is one evaluation query with its ground-truth relevant set.
type Question struct {
	Text     string
	Relevant map[string]bool
}

// DocumentStream reads documents lazily from a gzip JSON-Lines file.
type DocumentStream struct {
	f  *os.File
	gz *pgzip.Reader
	sc *bufio.Scanner
}

// OpenDocuments opens the collection file for streaming.
func OpenDocuments(path string) (*DocumentStream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open collection: %w", err)
	}
	gz, err := pgzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to open collection: %w", err)
	}

	sc := bufio.NewScanner(gz)
	// abstracts plus metadata can exceed the default line limit
	sc.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)

	return &DocumentStream{f: f, gz: gz, sc: sc}, nil
}

// Next returns the next well-formed document, or io.EOF at the end of the
// stream. Malformed lines are skipped.
func (s *DocumentStream) Next() (Document, error) {
	for s.sc.Scan() {
		line := bytes.TrimSpace(s.sc.Bytes())
		if len(line) == 0 {
			continue
		}

		var rec struct {
			PMID     docID  `json:"pmid"`
			Title    string `json:"title"`
			Abstract string `json:"abstract"`
		}
		if err := json.Unmarshal(line, &rec); err != nil || rec.PMID == "" {
			continue
		}

		return Document{
			ID:       string(rec.PMID),
			Title:    rec.Title,
			Abstract: rec.Abstract,
		}, nil
	}
	if err := s.sc.Err(); err != nil {
		return Document{}, err
	}
	return Document{}, io.EOF
}

// Close releases the underlying file handles.
func (s *DocumentStream) Close() error {
	s.gz.Close()
	return s.f.Close()
}

// QuestionStream reads questions lazily from a zip archive of JSON-Lines
// files. Files are visited in archive order.
type QuestionStream struct {
	rc    *zip.ReadCloser
	files []*zip.File
	next  int
	sc    *bufio.Scanner
	cur   io.ReadCloser
}

// OpenQuestions opens the questions archive for streaming.
func OpenQuestions(path string) (*QuestionStream, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open questions file: %w", err)
	}

	files := make([]*zip.File, 0, len(rc.File))
	for _, f := range rc.File {
		if !f.FileInfo().IsDir() {
			files = append(files, f)
		}
	}
	return &QuestionStream{rc: rc, files: files}, nil
}

// Next returns the next well-formed question, or io.EOF when all archive
// entries are exhausted. Malformed lines are skipped.
func (s *QuestionStream) Next() (Question, error) {
	for {
		if s.sc == nil {
			if s.next >= len(s.files) {
				return Question{}, io.EOF
			}
			f, err := s.files[s.next].Open()
			s.next++
			if err != nil {
				continue
			}
			s.cur = f
			s.sc = bufio.NewScanner(f)
			s.sc.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
		}

		for s.sc.Scan() {
			line := bytes.TrimSpace(s.sc.Bytes())
			if len(line) == 0 {
				continue
			}
			if q, ok := parseQuestion(line); ok {
				return q, nil
			}
		}
		s.cur.Close()
		s.sc = nil
		s.cur = nil
	}
}

func parseQuestion(line []byte) (Question, bool) {
	var rec struct {
		QueryText string  `json:"query_text"`
		Documents []docID `json:"documents_pmid"`
	}
	if err := json.Unmarshal(line, &rec); err != nil || rec.QueryText == "" {
		return Question{}, false
	}

	relevant := make(map[string]bool, len(rec.Documents))
	for _, id := range rec.Documents {
		relevant[string(id)] = true
	}
	return Question{Text: rec.QueryText, Relevant: relevant}, true
}

// Close releases the underlying archive handle.
func (s *QuestionStream) Close() error {
	if s.cur != nil {
		s.cur.Close()
	}
	return s.rc.Close()
}
