package markdown_test

import (
	"strings"
	"testing"

	"mindshelf/internal/platform/markdown"
)

func TestFrontmatterRoundTrip(t *testing.T) {
	t.Parallel()
	rendered, err := markdown.RenderFrontmatter(map[string]any{"id": "x1", "tags": []string{"go"}}, "# Body\n")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	meta, body, err := markdown.SplitFrontmatter(rendered)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if meta["id"] != "x1" {
		t.Fatalf("unexpected id %v", meta["id"])
	}
	if !strings.Contains(body, "# Body") {
		t.Fatalf("body lost: %q", body)
	}
}

func TestManagedBlockReplaceAndExtract(t *testing.T) {
	t.Parallel()
	const start, end = "<!-- s -->", "<!-- e -->"
	body := markdown.ReplaceManagedBlock("# Title\nText", start, end, "generated v1")
	if !strings.Contains(body, "generated v1") {
		t.Fatalf("block not inserted: %q", body)
	}
	body = markdown.ReplaceManagedBlock(body, start, end, "generated v2")
	if strings.Contains(body, "v1") || strings.Count(body, start) != 1 {
		t.Fatalf("block not replaced in place: %q", body)
	}

	generated, rest, ok := markdown.ExtractManagedBlock(body, start, end)
	if !ok {
		t.Fatalf("expected block to be found")
	}
	if generated != "generated v2" {
		t.Fatalf("unexpected generated text %q", generated)
	}
	if rest != "# Title\nText\n" {
		t.Fatalf("unexpected remaining body %q", rest)
	}

	if _, same, ok := markdown.ExtractManagedBlock("plain", start, end); ok || same != "plain" {
		t.Fatalf("expected no block in plain body")
	}
}
