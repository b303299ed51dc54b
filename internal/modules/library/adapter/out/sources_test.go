package out

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mindshelf/internal/modules/library/domain"
	apperrors "mindshelf/internal/platform/errors"
	"mindshelf/internal/platform/logger"
)

func TestScrapeContentSourceFetch(t *testing.T) {
	t.Parallel()
	var gotAuth, gotURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/scrape" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		gotAuth = r.Header.Get("Authorization")
		var req scrapeRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotURL = req.URL
		if strings.Contains(req.URL, "empty") {
			_, _ = w.Write([]byte(`{"success":true,"data":{"markdown":""}}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"data":{"markdown":"# Hello\nworld","metadata":{"title":"Hello"}}}`))
	}))
	defer srv.Close()

	source := NewScrapeContentSource(srv.URL+"/", "fc-key", 5*time.Second)
	fetched, err := source.Fetch(context.Background(), "https://example.com/post")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if fetched.Title != "Hello" || !strings.Contains(fetched.Content, "world") {
		t.Fatalf("unexpected fetch result: %+v", fetched)
	}
	if gotAuth != "Bearer fc-key" || gotURL != "https://example.com/post" {
		t.Fatalf("unexpected request: auth=%q url=%q", gotAuth, gotURL)
	}

	if _, err := source.Fetch(context.Background(), "https://example.com/empty"); !errors.Is(err, apperrors.ErrSourceFetch) {
		t.Fatalf("expected fetch error for empty content, got %v", err)
	}
	if _, err := NewScrapeContentSource(srv.URL, "", time.Second).Fetch(context.Background(), "https://example.com"); !errors.Is(err, apperrors.ErrSourceFetch) {
		t.Fatalf("expected error without api key, got %v", err)
	}
}

func TestScrapeContentSourceHTTPError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	}))
	defer srv.Close()
	_, err := NewScrapeContentSource(srv.URL, "k", time.Second).Fetch(context.Background(), "https://example.com")
	if !errors.Is(err, apperrors.ErrSourceFetch) {
		t.Fatalf("expected source fetch error, got %v", err)
	}
}

type fakeCompleter struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeCompleter) Complete(_ context.Context, _, user string, _ bool) (string, error) {
	f.prompts = append(f.prompts, user)
	return f.reply, f.err
}

func TestSearchContentSourcePromptsByURLKind(t *testing.T) {
	t.Parallel()
	llm := &fakeCompleter{reply: "# Talk title\n\nThe speaker covers pipelines."}
	source := NewSearchContentSource(llm)

	fetched, err := source.Fetch(context.Background(), "https://www.youtube.com/watch?v=1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if fetched.Title != "Talk title" || fetched.Content != "The speaker covers pipelines." {
		t.Fatalf("unexpected result: %+v", fetched)
	}
	if !strings.Contains(llm.prompts[0], "video") {
		t.Fatalf("expected video prompt, got %q", llm.prompts[0])
	}

	if _, err := source.Fetch(context.Background(), "https://x.com/u/status/1"); err != nil {
		t.Fatalf("fetch social: %v", err)
	}
	if !strings.Contains(llm.prompts[1], "social media post") {
		t.Fatalf("expected social prompt, got %q", llm.prompts[1])
	}

	llm.reply = "   "
	if _, err := source.Fetch(context.Background(), "https://example.com"); !errors.Is(err, apperrors.ErrSourceFetch) {
		t.Fatalf("expected fetch error for empty reply, got %v", err)
	}
}

type stubSource struct {
	fetched domain.FetchedContent
	err     error
	calls   int
}

func (s *stubSource) Fetch(context.Context, string) (domain.FetchedContent, error) {
	s.calls++
	return s.fetched, s.err
}

func TestFallbackContentSource(t *testing.T) {
	t.Parallel()
	scraper := &stubSource{err: errors.New("scraper down")}
	search := &stubSource{fetched: domain.FetchedContent{Title: "t", Content: "body"}}
	chain := NewFallbackContentSource(logger.Nop(), scraper, search)

	fetched, err := chain.Fetch(context.Background(), "https://example.com")
	if err != nil || fetched.Content != "body" {
		t.Fatalf("expected fallback result, got %+v (%v)", fetched, err)
	}

	scraper.err = nil
	scraper.fetched = domain.FetchedContent{Content: "primary"}
	fetched, _ = chain.Fetch(context.Background(), "https://example.com")
	if fetched.Content != "primary" || search.calls != 1 {
		t.Fatalf("primary tier should win without calling fallback: %+v calls=%d", fetched, search.calls)
	}

	scraper.fetched = domain.FetchedContent{}
	search.err = errors.New("search down")
	if _, err := chain.Fetch(context.Background(), "https://example.com"); err == nil {
		t.Fatalf("expected joined error when every tier fails")
	}
}

type fakeJSONCompleter struct {
	payload string
	err     error
	user    string
}

func (f *fakeJSONCompleter) CompleteJSON(_ context.Context, _, user string, out any) error {
	f.user = user
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.payload), out)
}

func TestOpenAIAnalyzerMapsPayload(t *testing.T) {
	t.Parallel()
	llm := &fakeJSONCompleter{payload: `{
		"title": "Pipelines",
		"summary": "- stages\n- channels",
		"tags": ["go", "concurrency"],
		"keywordGlossary": [{"word": "channel", "count": 4, "definition": "typed conduit"}, {"word": "", "count": 1}],
		"improvementPatterns": [{"icon": "🧪", "title": "Try it", "summary": "Build one", "action": "Write a pipeline"}]
	}`}
	analysis, err := NewOpenAIAnalyzer(llm).Analyze(context.Background(), "content", "ja")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if analysis.Title != "Pipelines" || len(analysis.Tags) != 2 || len(analysis.Keywords) != 1 || len(analysis.Patterns) != 1 {
		t.Fatalf("unexpected analysis: %+v", analysis)
	}
	if !strings.Contains(llm.user, "Japanese") {
		t.Fatalf("expected japanese instruction in prompt: %q", llm.user)
	}
}

func TestOpenAIAnalyzerRejectsEmptySummary(t *testing.T) {
	t.Parallel()
	_, err := NewOpenAIAnalyzer(&fakeJSONCompleter{payload: `{"title":"x"}`}).Analyze(context.Background(), "c", "en")
	if !errors.Is(err, apperrors.ErrAnalysis) {
		t.Fatalf("expected analysis error, got %v", err)
	}
	_, err = NewOpenAIAnalyzer(&fakeJSONCompleter{err: errors.New("decode completion json")}).Analyze(context.Background(), "c", "en")
	if !errors.Is(err, apperrors.ErrAnalysis) {
		t.Fatalf("expected analysis error, got %v", err)
	}
}

func TestLocalDocumentReader(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	mdPath := filepath.Join(dir, "notes.md")
	if err := os.WriteFile(mdPath, []byte("intro\n# Real Title\nbody"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	reader := NewLocalDocumentReader()
	fetched, err := reader.Read(context.Background(), mdPath)
	if err != nil {
		t.Fatalf("read markdown: %v", err)
	}
	if fetched.Title != "Real Title" || !strings.Contains(fetched.Content, "body") {
		t.Fatalf("unexpected markdown result: %+v", fetched)
	}

	pdfPath := filepath.Join(dir, "broken.pdf")
	if err := os.WriteFile(pdfPath, []byte("not a pdf"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := reader.Read(context.Background(), pdfPath); !errors.Is(err, apperrors.ErrSourceFetch) {
		t.Fatalf("expected source fetch error for broken pdf, got %v", err)
	}
	if _, err := reader.Read(context.Background(), filepath.Join(dir, "slides.pptx")); !errors.Is(err, apperrors.ErrSourceFetch) {
		t.Fatalf("expected unsupported type error, got %v", err)
	}
	if _, err := reader.Read(context.Background(), filepath.Join(dir, "missing.md")); !errors.Is(err, apperrors.ErrSourceFetch) {
		t.Fatalf("expected missing file error, got %v", err)
	}
}
