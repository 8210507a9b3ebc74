package id

import (
	"encoding/base32"
	"strings"
	"testing"
)

func TestNewFormat(t *testing.T) {
	got := New()
	if got == "" {
		t.Fatal("expected non-empty id")
	}
	if strings.Contains(got, "=") {
		t.Fatal("expected no padding")
	}
	if len(got) != 26 {
		t.Fatalf("expected 26-character id, got %d", len(got))
	}
	for _, r := range got {
		if (r < 'a' || r > 'z') && (r < '2' || r > '7') {
			t.Fatalf("unexpected character %q in id", r)
		}
	}

	decoded, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(strings.ToUpper(got))
	if err != nil {
		t.Fatalf("decode id: %v", err)
	}
	if len(decoded) != 16 {
		t.Fatalf("expected 16 decoded bytes, got %d", len(decoded))
	}
}

func TestNewIsUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		got := New()
		if _, ok := seen[got]; ok {
			t.Fatalf("duplicate id %q", got)
		}
		seen[got] = struct{}{}
	}
}

func TestNewPrefixed(t *testing.T) {
	got := NewPrefixed("fe")
	if !strings.HasPrefix(got, "fe_") {
		t.Fatalf("expected fe_ prefix, got %q", got)
	}
	if len(got) != len("fe_")+26 {
		t.Fatalf("unexpected length %d", len(got))
	}
	if NewPrefixed("  ") == "" {
		t.Fatal("blank prefix should still produce an id")
	}
}
