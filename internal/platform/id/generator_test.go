package id

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestUUIDGenerator_Prefix(t *testing.T) {
	gen := NewUUIDGenerator("pl_")

	first, err := gen.NewID()
	if err != nil {
		t.Fatalf("NewID error: %v", err)
	}
	second, err := gen.NewID()
	if err != nil {
		t.Fatalf("NewID error: %v", err)
	}

	if !strings.HasPrefix(first, "pl_") {
		t.Fatalf("id %q missing prefix", first)
	}
	if first == second {
		t.Fatalf("ids must be unique, got %q twice", first)
	}
	if _, err := uuid.Parse(strings.TrimPrefix(first, "pl_")); err != nil {
		t.Fatalf("id %q is not a uuid: %v", first, err)
	}
}

func TestUUIDGenerator_NoPrefix(t *testing.T) {
	value, err := NewUUIDGenerator("").NewID()
	if err != nil {
		t.Fatalf("NewID error: %v", err)
	}
	if _, err := uuid.Parse(value); err != nil {
		t.Fatalf("id %q is not a uuid: %v", value, err)
	}
}
