package uid

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUID_Generate(t *testing.T) {
	gen := NewUUID()

	a := gen.Generate()
	b := gen.Generate()

	if a == b {
		t.Fatalf("Generate() returned duplicate id %q", a)
	}
	parsed, err := uuid.Parse(a)
	if err != nil {
		t.Fatalf("uuid.Parse(%q): %v", a, err)
	}
	if parsed.Version() != 7 {
		t.Fatalf("version = %d, want 7", parsed.Version())
	}
}

func TestStatic_Generate(t *testing.T) {
	var gen StringID = Static("cid-fixed")
	if got := gen.Generate(); got != "cid-fixed" {
		t.Fatalf("Generate() = %q", got)
	}
}
