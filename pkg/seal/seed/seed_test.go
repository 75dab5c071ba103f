package seed

import (
	"testing"

	"github.com/jonguttman/psillyops-seal/pkg/errors"
)

func TestDeriveDeterministic(t *testing.T) {
	s1, err := Derive("abc123", "v1")
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	s2, err := Derive("abc123", "v1")
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if s1 != s2 {
		t.Error("identical (token, version) must produce identical seeds")
	}
}

func TestDeriveDistinguishesInputs(t *testing.T) {
	base, _ := Derive("abc123", "v1")

	others := []struct {
		token, version string
	}{
		{"abc124", "v1"},
		{"abc123", "v2"},
		{"abc12", "3v1"}, // boundary shuffle must not collide
	}
	for _, o := range others {
		s, err := Derive(o.token, o.version)
		if err != nil {
			t.Fatalf("Derive(%q, %q): %v", o.token, o.version, err)
		}
		if s == base {
			t.Errorf("Derive(%q, %q) collides with base seed", o.token, o.version)
		}
	}
}

func TestDeriveRejectsBadInput(t *testing.T) {
	if _, err := Derive("", "v1"); !errors.Is(err, errors.ErrCodeInvalidToken) {
		t.Errorf("empty token: got %v, want INVALID_TOKEN", err)
	}
	if _, err := Derive("abc", ""); !errors.Is(err, errors.ErrCodeInvalidVersion) {
		t.Errorf("empty version: got %v, want INVALID_VERSION", err)
	}
}

func TestStreamSeparation(t *testing.T) {
	s, _ := Derive("abc123", "v1")

	spores := s.Stream("spores")
	noise := s.Stream("noise")

	if spores == noise {
		t.Error("different stream labels must produce different sub-seeds")
	}
	if spores == s {
		t.Error("stream sub-seed must differ from the root seed")
	}
	if spores != s.Stream("spores") {
		t.Error("Stream must be deterministic")
	}
}

func TestUint64Pair(t *testing.T) {
	s, _ := Derive("abc123", "v1")
	hi1, lo1 := s.Uint64Pair()
	hi2, lo2 := s.Uint64Pair()
	if hi1 != hi2 || lo1 != lo2 {
		t.Error("Uint64Pair must be deterministic")
	}
	if hi1 == 0 && lo1 == 0 {
		t.Error("Uint64Pair of a real seed should not be zero")
	}
}

func TestPrefix(t *testing.T) {
	s, _ := Derive("abc123", "v1")

	if got := s.Prefix(8); len(got) != 16 {
		t.Errorf("Prefix(8) length = %d, want 16 hex chars", len(got))
	}
	if got := s.Prefix(Size + 10); got != s.Hex() {
		t.Errorf("oversized prefix should clamp to full hex")
	}
	if len(s.Hex()) != 64 {
		t.Errorf("Hex() length = %d, want 64", len(s.Hex()))
	}
}
