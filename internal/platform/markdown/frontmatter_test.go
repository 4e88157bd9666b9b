package markdown_test

import (
	"strings"
	"testing"

	"dodge/internal/platform/markdown"
)

type noteMeta struct {
	ID      string `yaml:"id"`
	Minutes int    `yaml:"minutes"`
}

func TestFrontmatterRoundTripKeepsBody(t *testing.T) {
	t.Parallel()
	rendered, err := markdown.RenderFrontmatter(noteMeta{ID: "abc", Minutes: 3}, "# Mindful\n")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(rendered, "---\nid: abc\nminutes: 3\n---\n") {
		t.Fatalf("unexpected header: %q", rendered)
	}
	var meta noteMeta
	body, err := markdown.SplitFrontmatter(rendered, &meta)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if meta.ID != "abc" || meta.Minutes != 3 {
		t.Fatalf("unexpected meta: %+v", meta)
	}
	if strings.TrimSpace(body) != "# Mindful" {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestSplitFrontmatterErrors(t *testing.T) {
	t.Parallel()
	var meta noteMeta
	if _, err := markdown.SplitFrontmatter("---\nid: x\n", &meta); err == nil {
		t.Fatalf("expected error for unterminated header")
	}
	body, err := markdown.SplitFrontmatter("plain body", &meta)
	if err != nil || body != "plain body" {
		t.Fatalf("expected passthrough, got %q %v", body, err)
	}
}
