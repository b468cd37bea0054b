package postgres

import (
	"errors"
	"testing"
	"time"
)

func TestCursorRoundTrip(t *testing.T) {
	in := Cursor{CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), ID: 42}

	s, err := EncodeCursor(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	out, err := DecodeCursor(s)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out == nil || out.ID != in.ID || !out.CreatedAt.Equal(in.CreatedAt) {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestDecodeCursor_Empty(t *testing.T) {
	c, err := DecodeCursor("")
	if err != nil {
		t.Fatalf("empty cursor must not error: %v", err)
	}
	if c != nil {
		t.Fatalf("empty cursor must decode to nil, got %+v", c)
	}
}

func TestDecodeCursor_Garbage(t *testing.T) {
	for _, s := range []string{"%%%", "bm90LWpzb24"} {
		if _, err := DecodeCursor(s); !errors.Is(err, ErrInvalidCursor) {
			t.Fatalf("input %q: expected ErrInvalidCursor, got %v", s, err)
		}
	}
}
