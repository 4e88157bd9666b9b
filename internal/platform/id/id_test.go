package id_test

import (
	"testing"

	"github.com/google/uuid"

	"dodge/internal/platform/id"
)

func TestUUIDGeneratorProducesParseableIDs(t *testing.T) {
	t.Parallel()
	gen := id.UUID{}
	a, b := gen.New(), gen.New()
	if a == b {
		t.Fatalf("expected distinct ids, got %s twice", a)
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Fatalf("expected uuid, got %q: %v", a, err)
	}
}

func TestSequenceGenerator(t *testing.T) {
	t.Parallel()
	seq := &id.Sequence{Prefix: "sess-"}
	if got := seq.New(); got != "sess-1" {
		t.Fatalf("expected sess-1, got %s", got)
	}
	if got := seq.New(); got != "sess-2" {
		t.Fatalf("expected sess-2, got %s", got)
	}
}
