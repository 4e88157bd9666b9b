package slug_test

import (
	"strings"
	"testing"

	"dodge/internal/platform/slug"
)

func TestMake(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"Gaze Session":  "gaze-session",
		"  ~~~  ":       "session",
		"Catch / 3 ❤":   "catch-3",
		"already-fine-": "already-fine",
	}
	for in, want := range cases {
		if got := slug.Make(in); got != want {
			t.Fatalf("slug(%q) = %q, want %q", in, got, want)
		}
	}
	long := slug.Make(strings.Repeat("focus ", 20))
	if len(long) > 48 || strings.HasSuffix(long, "-") {
		t.Fatalf("expected truncated slug without trailing dash, got %q", long)
	}
}
