package shorturl

import (
	"errors"
	"math"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	codec := New(DefaultSeed)

	for id := uint64(0); id < 20000; id++ {
		alias := codec.Encode(id)
		got, err := codec.Decode(alias)
		if err != nil {
			t.Fatalf("Decode(%q) failed: %v", alias, err)
		}
		if got != id {
			t.Fatalf("Decode(Encode(%d)) = %d", id, got)
		}
	}

	for _, id := range []uint64{1 << 20, 1 << 32, 1<<62 + 12345, math.MaxUint64 - DefaultSeed} {
		got, err := codec.Decode(codec.Encode(id))
		if err != nil || got != id {
			t.Errorf("Round trip of %d gave %d, %v", id, got, err)
		}
	}
}

func TestEncodeDistinct(t *testing.T) {
	codec := New(DefaultSeed)
	seen := make(map[string]uint64)

	for id := uint64(1); id <= 5000; id++ {
		alias := codec.Encode(id)
		if alias == "" {
			t.Fatalf("Empty alias for %d", id)
		}
		if prev, ok := seen[alias]; ok {
			t.Fatalf("Alias %q shared by %d and %d", alias, prev, id)
		}
		seen[alias] = id
	}
}

func TestKnownValues(t *testing.T) {
	tests := []struct {
		seed  uint64
		id    uint64
		alias string
	}{
		{0, 1, "1"},
		{0, 63, "_"},
		{0, 64, "10"},
		{0, 124, "1Y"},
		{DefaultSeed, 1, "fF"},
		{DefaultSeed, 24, "g0"},
	}

	for _, tt := range tests {
		got := New(tt.seed).Encode(tt.id)
		if got != tt.alias {
			t.Errorf("Encode(%d) with seed %d = %q, want %q", tt.id, tt.seed, got, tt.alias)
		}
	}
}

func TestEncodeZero(t *testing.T) {
	codec := New(0)

	alias := codec.Encode(0)
	if alias != "0" {
		t.Errorf("Expected \"0\", got %q", alias)
	}

	id, err := codec.Decode(alias)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if id != 0 {
		t.Errorf("Expected 0, got %d", id)
	}
}

func TestSeedChangesOutput(t *testing.T) {
	a := New(1000)
	b := New(4242)

	differs := false
	for id := uint64(1); id < 100; id++ {
		if a.Encode(id) != b.Encode(id) {
			differs = true
			break
		}
	}
	if !differs {
		t.Error("Expected different seeds to produce different aliases")
	}
}

func TestDecodeInvalid(t *testing.T) {
	codec := New(DefaultSeed)

	for _, alias := range []string{"", "ab c", "abc!", "ñ", "abc/", "ASVasdfe.", "___________"} {
		if _, err := codec.Decode(alias); !errors.Is(err, ErrInvalidAlias) {
			t.Errorf("Decode(%q): expected ErrInvalidAlias, got %v", alias, err)
		}
	}
}

func TestDecodeBelowSeed(t *testing.T) {
	codec := New(DefaultSeed)

	// "1" is 1, which is smaller than the seed and cannot come from Encode.
	if _, err := codec.Decode("1"); !errors.Is(err, ErrInvalidAlias) {
		t.Errorf("Expected ErrInvalidAlias, got %v", err)
	}
}
