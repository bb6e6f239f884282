package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestBoundsNormalize(t *testing.T) {
	cases := []struct {
		bounds Bounds
		in     int
		want   int
	}{
		{FeedBounds, 0, 10},
		{FeedBounds, -3, 10},
		{FeedBounds, 7, 7},
		{FeedBounds, 500, 100},
		{Bounds{Default: 5, Max: 20}, 0, 5},
		{Bounds{Default: 50, Max: 20}, 0, 20},
		{Bounds{}, 0, DefaultLimit},
	}
	for _, tc := range cases {
		if got := tc.bounds.Normalize(tc.in); got != tc.want {
			t.Fatalf("%+v.Normalize(%d) = %d, want %d", tc.bounds, tc.in, got, tc.want)
		}
	}
}

func TestTrim(t *testing.T) {
	rows := make([]int, 26)
	page, more := Trim(rows, 0)
	if len(page) != DefaultLimit || !more {
		t.Fatalf("expected %d rows with more, got %d more=%v", DefaultLimit, len(page), more)
	}
	page, more = Trim(rows[:3], 5)
	if len(page) != 3 || more {
		t.Fatalf("expected short page without more, got %d more=%v", len(page), more)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	in := Cursor{CreatedAt: time.Date(2026, 3, 1, 12, 30, 0, 123, time.UTC), ID: uuid.New()}
	out, err := ParseCursor(EncodeCursor(in))
	if err != nil {
		t.Fatalf("ParseCursor: %v", err)
	}
	if !out.CreatedAt.Equal(in.CreatedAt) || out.ID != in.ID {
		t.Fatalf("cursor mismatch: %+v vs %+v", out, in)
	}

	if c, err := ParseCursor("  "); err != nil || c != nil {
		t.Fatalf("blank cursor should be nil, got %v %v", c, err)
	}
	if _, err := ParseCursor("!!not-base64!!"); err == nil {
		t.Fatalf("expected decode error")
	}
}
