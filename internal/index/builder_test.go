package index

import (
	"reflect"
	"strings"
	"testing"
)

func TestBuilderAccumulatesPositionsAndWeights(t *testing.T) {
	b := NewBuilder()
	b.AddPosition("alpha", "1", 0)
	b.AddPosition("beta", "1", 1)
	b.AddPosition("alpha", "1", 2)
	b.SetWeight("alpha", "1", 0.79)
	b.SetWeight("beta", "1", 0.61)

	if b.Len() != 2 {
		t.Fatalf("Len = %d, want 2", b.Len())
	}

	postings := b.PostingsFor("alpha")
	if len(postings) != 1 {
		t.Fatalf("expected one posting for alpha, got %d", len(postings))
	}
	if postings[0].Weight != 0.79 {
		t.Errorf("weight = %v, want 0.79", postings[0].Weight)
	}
	if !reflect.DeepEqual(postings[0].Positions, []int{0, 2}) {
		t.Errorf("positions = %v, want [0 2]", postings[0].Positions)
	}
}

func TestBuilderSizeGrowsAndResets(t *testing.T) {
	b := NewBuilder()
	if b.Size() != 0 {
		t.Fatalf("empty builder size = %d", b.Size())
	}

	b.AddPosition("term", "42", 0)
	first := b.Size()
	if first <= 0 {
		t.Fatalf("size should grow after insert, got %d", first)
	}

	b.AddPosition("term", "42", 5)
	if b.Size() <= first {
		t.Errorf("size should grow per position, got %d after %d", b.Size(), first)
	}

	b.Reset()
	if b.Size() != 0 || b.Len() != 0 {
		t.Errorf("reset builder should be empty, size=%d len=%d", b.Size(), b.Len())
	}
}

func TestBuilderWriteToSortedBlock(t *testing.T) {
	b := NewBuilder()
	b.AddPosition("zeta", "1", 0)
	b.AddPosition("alpha", "1", 1)
	b.AddPosition("mu", "2", 0)
	b.SetWeight("zeta", "1", 1)
	b.SetWeight("alpha", "1", 1)
	b.SetWeight("mu", "2", 1)

	var sb strings.Builder
	if err := b.WriteTo(&sb); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	var terms []string
	for _, line := range lines {
		terms = append(terms, LineTerm(line))
	}
	if !reflect.DeepEqual(terms, []string{"alpha", "mu", "zeta"}) {
		t.Errorf("block terms = %v, want sorted", terms)
	}
}
