// Package index implements the on-disk inverted index: the SPIMI driver
// that streams documents into sorted block files under a memory budget, the
// k-way merger that produces term-range shards and the term dictionary, and
// the textual posting format shared by blocks and shards.
package index

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Posting records that a term occurs in one document: the frozen
// document-side weight and the ascending token offsets of the occurrences.
type Posting struct {
	DocID     string
	Weight    float64
	Positions []int
}

// EncodeLine renders one term line in the block/shard format:
//
//	<term>;<doc_id>:<weight>:<pos1,pos2,...>;...
//
// Weights carry two fractional digits. Postings are emitted sorted by
// document id so that repeated indexing runs produce identical bytes.
func EncodeLine(sb *strings.Builder, term string, postings []Posting) {
	sort.Slice(postings, func(i, j int) bool { return postings[i].DocID < postings[j].DocID })

	sb.WriteString(term)
	for _, p := range postings {
		sb.WriteByte(';')
		sb.WriteString(p.DocID)
		sb.WriteByte(':')
		sb.WriteString(strconv.FormatFloat(p.Weight, 'f', 2, 64))
		sb.WriteByte(':')
		for i, pos := range p.Positions {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Itoa(pos))
		}
	}
	sb.WriteByte('\n')
}

// ParseLine parses one block/shard line into its term and postings.
func ParseLine(line string) (string, []Posting, error) {
	line = strings.TrimRight(line, "\n")
	fields := strings.Split(line, ";")
	if len(fields) < 2 || fields[0] == "" {
		return "", nil, fmt.Errorf("malformed posting line %q", line)
	}

	term := fields[0]
	postings := make([]Posting, 0, len(fields)-1)
	for _, field := range fields[1:] {
		parts := strings.SplitN(field, ":", 3)
		if len(parts) != 3 || parts[0] == "" {
			return "", nil, fmt.Errorf("malformed posting %q for term %q", field, term)
		}

		weight, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return "", nil, fmt.Errorf("malformed weight %q for term %q: %w", parts[1], term, err)
		}

		var positions []int
		if parts[2] != "" {
			raw := strings.Split(parts[2], ",")
			positions = make([]int, 0, len(raw))
			for _, r := range raw {
				pos, err := strconv.Atoi(r)
				if err != nil {
					return "", nil, fmt.Errorf("malformed position %q for term %q: %w", r, term, err)
				}
				positions = append(positions, pos)
			}
		}

		postings = append(postings, Posting{DocID: parts[0], Weight: weight, Positions: positions})
	}
	return term, postings, nil
}

// LineTerm returns the leading term field of a block/shard line without
// parsing the postings.
func LineTerm(line string) string {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		return line[:i]
	}
	return strings.TrimRight(line, "\n")
}

// BlockFilename names the transient block file for one spill.
func BlockFilename(index int) string {
	return fmt.Sprintf("%d.txt", index)
}

// ShardFilename names a merged shard. The shard index is zero-padded so
// that lexicographic filename order equals term-range order, and the first
// and last covered terms are carried in the name.
func ShardFilename(index int, firstTerm, lastTerm string) string {
	return fmt.Sprintf("%04d;%s_%s.txt", index, firstTerm, lastTerm)
}
