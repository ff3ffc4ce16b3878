package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestIndexError(t *testing.T) {
	cause := stderrors.New("disk full")
	err := NewIndexError("spill", "/tmp/idx/0.txt", cause)

	if !strings.Contains(err.Error(), "spill") {
		t.Errorf("expected op in message, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "/tmp/idx/0.txt") {
		t.Errorf("expected path in message, got %q", err.Error())
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}

func TestSearchError(t *testing.T) {
	cause := stderrors.New("shard missing")
	err := NewSearchError("covid vaccine", cause)

	if !strings.Contains(err.Error(), "covid vaccine") {
		t.Errorf("expected query in message, got %q", err.Error())
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}

func TestConfigError(t *testing.T) {
	err := NewConfigError("rsv", stderrors.New("unknown value 'pagerank'"))

	if !strings.Contains(err.Error(), "rsv") {
		t.Errorf("expected field in message, got %q", err.Error())
	}
}
