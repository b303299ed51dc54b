package domain_test

import (
	"testing"

	"mindshelf/internal/modules/library/domain"
)

func TestNormalizeContentInsertsBreaks(t *testing.T) {
	t.Parallel()
	in := "Intro text\n## Header\nBody\n- a\n- b\nAfter\n```go\nfmt.Println(\"x\")\n```\n\n\n\nTail\n"
	want := "Intro text\n\n## Header\nBody\n\n- a\n- b\n\nAfter\n\n```go\nfmt.Println(\"x\")\n```\n\nTail"
	if got := domain.NormalizeContent(in); got != want {
		t.Fatalf("unexpected normalization:\n%q\nwant\n%q", got, want)
	}
}

func TestNormalizeContentReflowsJapaneseOutsideFences(t *testing.T) {
	t.Parallel()
	in := "これはペンです。あれは本です！本当？\n```\nコード。そのまま。\n```"
	want := "これはペンです。\nあれは本です！\n本当？\n\n```\nコード。そのまま。\n```"
	if got := domain.NormalizeContent(in); got != want {
		t.Fatalf("unexpected normalization:\n%q\nwant\n%q", got, want)
	}
}

func TestSplitSentencesKeepsClosingBrackets(t *testing.T) {
	t.Parallel()
	got := domain.SplitSentences("彼は「はい。」と言った。次へ。")
	want := []string{"彼は「はい。」", "と言った。", "次へ。"}
	if len(got) != len(want) {
		t.Fatalf("got %q", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("part %d: got %q want %q", i, got[i], want[i])
		}
	}
}

func TestPrefixCountsRunes(t *testing.T) {
	t.Parallel()
	if got := domain.Prefix("日本語テキスト", 3); got != "日本語" {
		t.Fatalf("got %q", got)
	}
	if got := domain.Prefix("short", 30000); got != "short" {
		t.Fatalf("got %q", got)
	}
}

func TestClassifyURL(t *testing.T) {
	t.Parallel()
	cases := map[string]domain.SourceKind{
		"https://www.youtube.com/watch?v=abc": domain.SourceKindVideo,
		"https://youtu.be/abc":                domain.SourceKindVideo,
		"https://x.com/user/status/1":         domain.SourceKindSocial,
		"https://mobile.twitter.com/u/1":      domain.SourceKindSocial,
		"https://go.dev/blog/pipelines":       domain.SourceKindArticle,
		"::not a url::":                       domain.SourceKindArticle,
	}
	for in, want := range cases {
		if got := domain.ClassifyURL(in); got != want {
			t.Fatalf("ClassifyURL(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestDetectLanguage(t *testing.T) {
	t.Parallel()
	if got := domain.DetectLanguage("Goの並行処理について学ぶ"); got != "ja" {
		t.Fatalf("expected ja, got %s", got)
	}
	if got := domain.DetectLanguage("Concurrency in Go"); got != "en" {
		t.Fatalf("expected en, got %s", got)
	}
	if got := domain.DetectLanguage(""); got != "en" {
		t.Fatalf("expected en default, got %s", got)
	}
}
