package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"mindshelf/internal/modules/library/domain"
	apperrors "mindshelf/internal/platform/errors"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type seqID struct{ n int }

func (s *seqID) New() string {
	s.n++
	return fmt.Sprintf("item-%d", s.n)
}

type memStore struct {
	mu    sync.Mutex
	items map[string]domain.Item
}

func newMemStore() *memStore { return &memStore{items: map[string]domain.Item{}} }

func (m *memStore) Save(_ context.Context, item domain.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ID] = item
	return nil
}

func (m *memStore) FindByID(_ context.Context, id string) (domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return domain.Item{}, fmt.Errorf("%w: item %s", apperrors.ErrNotFound, id)
	}
	return item, nil
}

func (m *memStore) List(context.Context) ([]domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Item, 0, len(m.items))
	for _, item := range m.items {
		out = append(out, item)
	}
	return out, nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return fmt.Errorf("%w: item %s", apperrors.ErrNotFound, id)
	}
	delete(m.items, id)
	return nil
}

type nopProjector struct {
	mu      sync.Mutex
	upserts int
	resets  int
	deleted []string
}

func (p *nopProjector) Reset(context.Context) error {
	p.mu.Lock()
	p.resets++
	p.mu.Unlock()
	return nil
}

func (p *nopProjector) UpsertItem(context.Context, domain.Item) error {
	p.mu.Lock()
	p.upserts++
	p.mu.Unlock()
	return nil
}

func (p *nopProjector) DeleteItem(_ context.Context, id string) error {
	p.mu.Lock()
	p.deleted = append(p.deleted, id)
	p.mu.Unlock()
	return nil
}

func (p *nopProjector) TagCounts(context.Context) ([]domain.TagCount, error) { return nil, nil }

type stubSource struct {
	fetched domain.FetchedContent
	err     error
}

func (s stubSource) Fetch(context.Context, string) (domain.FetchedContent, error) {
	return s.fetched, s.err
}

type stubDocuments struct {
	fetched domain.FetchedContent
	err     error
}

func (s stubDocuments) Read(context.Context, string) (domain.FetchedContent, error) {
	return s.fetched, s.err
}

type fakeAnalyzer struct {
	mu      sync.Mutex
	calls   int
	content []string
	gate    chan struct{}
	result  domain.Analysis
	err     error
}

func (a *fakeAnalyzer) Analyze(_ context.Context, content, _ string) (domain.Analysis, error) {
	a.mu.Lock()
	a.calls++
	a.content = append(a.content, content)
	gate := a.gate
	a.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return a.result, a.err
}

func (a *fakeAnalyzer) callCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

type countingActivity struct {
	mu    sync.Mutex
	count int
}

func (c *countingActivity) Record(context.Context) error {
	c.mu.Lock()
	c.count++
	c.mu.Unlock()
	return nil
}

func (c *countingActivity) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

type fixture struct {
	svc      *ItemService
	store    *memStore
	analyzer *fakeAnalyzer
	activity *countingActivity
}

func newFixture(source stubSource) fixture {
	f := fixture{
		store:    newMemStore(),
		analyzer: &fakeAnalyzer{result: domain.Analysis{Summary: "Channels connect stages.", Tags: []string{"#Go", "go", "Concurrency"}}},
		activity: &countingActivity{},
	}
	f.svc = NewItemService(Dependencies{
		Clock:     fixedClock{t: time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)},
		IDGen:     &seqID{},
		Store:     f.store,
		Projector: &nopProjector{},
		Source:    source,
		Documents: stubDocuments{fetched: domain.FetchedContent{Content: "plain notes"}},
		Analyzer:  f.analyzer,
		Activity:  f.activity,
	})
	return f
}

func articleSource() stubSource {
	return stubSource{fetched: domain.FetchedContent{Title: "Pipelines", Content: "Notes\n# Pipelines\nStages run concurrently."}}
}

func TestIngestURLReturnsPendingItemThenCompletesInBackground(t *testing.T) {
	t.Parallel()
	f := newFixture(articleSource())
	f.analyzer.gate = make(chan struct{})

	item, err := f.svc.IngestURL(context.Background(), "https://example.com/pipelines")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if item.AnalysisStatus != domain.AnalysisPending || item.Summary != domain.AnalyzingPlaceholder {
		t.Fatalf("expected pending item, got %s %q", item.AnalysisStatus, item.Summary)
	}
	if item.LifecycleStatus != domain.LifecycleNew || item.Kind != domain.KindArticle {
		t.Fatalf("unexpected initial item %+v", item)
	}
	if !strings.Contains(item.RawContent, "Notes\n\n# Pipelines\nStages") {
		t.Fatalf("content not normalized: %q", item.RawContent)
	}
	if f.activity.total() != 1 {
		t.Fatalf("expected one activity record, got %d", f.activity.total())
	}

	close(f.analyzer.gate)
	f.svc.Wait()

	got, err := f.svc.Get(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.AnalysisStatus != domain.AnalysisCompleted || got.Summary != "Channels connect stages." {
		t.Fatalf("analysis not applied: %s %q", got.AnalysisStatus, got.Summary)
	}
	if strings.Join(got.Tags, ",") != "go,concurrency" {
		t.Fatalf("tags not normalized: %v", got.Tags)
	}
	if got.Title != "Pipelines" {
		t.Fatalf("fetched title should be kept, got %q", got.Title)
	}
	if f.activity.total() != 1 {
		t.Fatalf("analysis must not record activity, got %d", f.activity.total())
	}
}

func TestIngestURLUsesAnalysisTitleWhenFetchHadNone(t *testing.T) {
	t.Parallel()
	f := newFixture(stubSource{fetched: domain.FetchedContent{Content: "body text"}})
	f.analyzer.result.Title = "Derived Title"

	item, err := f.svc.IngestURL(context.Background(), "https://example.com/x")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if item.Title != "https://example.com/x" {
		t.Fatalf("expected source ref as provisional title, got %q", item.Title)
	}
	f.svc.Wait()
	got, _ := f.svc.Get(context.Background(), item.ID)
	if got.Title != "Derived Title" {
		t.Fatalf("expected analysis title, got %q", got.Title)
	}
}

func TestIngestURLFetchFailureStoresPlaceholder(t *testing.T) {
	t.Parallel()
	f := newFixture(stubSource{err: errors.New("boom")})

	item, err := f.svc.IngestURL(context.Background(), "https://example.com/down")
	if err != nil {
		t.Fatalf("fetch failure must not surface: %v", err)
	}
	if !item.FetchFailed || item.Title != domain.FetchFailedTitle || item.RawContent != domain.FetchFailedContent {
		t.Fatalf("expected placeholder item, got %+v", item)
	}
	if item.AnalysisStatus != domain.AnalysisPending || item.Summary != domain.AnalyzingPlaceholder {
		t.Fatalf("placeholder should start pending, got %s %q", item.AnalysisStatus, item.Summary)
	}

	f.svc.Wait()
	got, err := f.svc.Get(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.AnalysisStatus != domain.AnalysisCompleted || got.Summary != domain.FetchFailedSummary {
		t.Fatalf("placeholder should settle as completed, got %s %q", got.AnalysisStatus, got.Summary)
	}
	if f.analyzer.callCount() != 0 {
		t.Fatalf("placeholder must not be analyzed")
	}
	if _, err := f.svc.Reanalyze(context.Background(), item.ID); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for placeholder reanalyze, got %v", err)
	}
}

func TestIngestURLUnsupportedURLYieldsPlaceholder(t *testing.T) {
	t.Parallel()
	f := newFixture(articleSource())
	for _, raw := range []string{"ftp://example.com/a", "example.com/a", "not a url"} {
		item, err := f.svc.IngestURL(context.Background(), raw)
		if err != nil {
			t.Fatalf("%q: ingest must not fail, got %v", raw, err)
		}
		if item.ID == "" || !item.FetchFailed || item.SourceRef != raw {
			t.Fatalf("%q: expected placeholder item, got %+v", raw, item)
		}
	}
	f.svc.Wait()

	items, err := f.svc.List(context.Background())
	if err != nil || len(items) != 3 {
		t.Fatalf("expected three stored placeholders, got %d (%v)", len(items), err)
	}
	for _, item := range items {
		if item.AnalysisStatus != domain.AnalysisCompleted || item.Summary != domain.FetchFailedSummary {
			t.Fatalf("placeholder %s not settled: %s %q", item.ID, item.AnalysisStatus, item.Summary)
		}
	}
	if f.analyzer.callCount() != 0 {
		t.Fatalf("unsupported urls must not reach the analyzer")
	}
	if f.activity.total() != 3 {
		t.Fatalf("expected one activity record per placeholder, got %d", f.activity.total())
	}
}

func TestIngestURLRejectsBlankURL(t *testing.T) {
	t.Parallel()
	f := newFixture(articleSource())
	for _, raw := range []string{"", "   "} {
		if _, err := f.svc.IngestURL(context.Background(), raw); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("expected invalid input for %q, got %v", raw, err)
		}
	}
	if f.activity.total() != 0 {
		t.Fatalf("rejected input must not record activity")
	}
}

func TestAnalyzerFailureStoresFailureText(t *testing.T) {
	t.Parallel()
	f := newFixture(articleSource())
	f.analyzer.err = fmt.Errorf("%w: malformed json", apperrors.ErrAnalysis)

	item, err := f.svc.IngestURL(context.Background(), "https://example.com/pipelines")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	f.svc.Wait()
	got, _ := f.svc.Get(context.Background(), item.ID)
	if got.AnalysisStatus != domain.AnalysisCompleted {
		t.Fatalf("failed analysis must still complete, got %s", got.AnalysisStatus)
	}
	if got.Summary != domain.AnalysisFailedSummary || got.ImprovementGuide != domain.AnalysisFailedGuide {
		t.Fatalf("expected failure text, got %q / %q", got.Summary, got.ImprovementGuide)
	}
	if f.analyzer.callCount() != 1 {
		t.Fatalf("analysis must not be retried, got %d calls", f.analyzer.callCount())
	}
}

func TestAnalyzerReceivesBoundedPrefix(t *testing.T) {
	t.Parallel()
	f := newFixture(stubSource{fetched: domain.FetchedContent{Title: "Long", Content: strings.Repeat("a", 50)}})
	f.svc.maxChars = 10

	if _, err := f.svc.IngestURL(context.Background(), "https://example.com/long"); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	f.svc.Wait()
	if got := f.analyzer.content[0]; got != strings.Repeat("a", 10) {
		t.Fatalf("expected 10 rune prefix, got %q", got)
	}
}

func TestReanalyzeRefusedWhileInFlightAndNeverRegresses(t *testing.T) {
	t.Parallel()
	f := newFixture(articleSource())
	gate := make(chan struct{})
	f.analyzer.gate = gate

	item, err := f.svc.IngestURL(context.Background(), "https://example.com/pipelines")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if _, err := f.svc.Reanalyze(context.Background(), item.ID); !errors.Is(err, apperrors.ErrAnalysisInFlight) {
		t.Fatalf("expected in-flight refusal, got %v", err)
	}
	close(gate)
	f.svc.Wait()

	second := make(chan struct{})
	f.analyzer.mu.Lock()
	f.analyzer.gate = second
	f.analyzer.result.Summary = "Second pass."
	f.analyzer.mu.Unlock()

	if _, err := f.svc.Reanalyze(context.Background(), item.ID); err != nil {
		t.Fatalf("reanalyze: %v", err)
	}
	during, _ := f.svc.Get(context.Background(), item.ID)
	if during.AnalysisStatus != domain.AnalysisCompleted {
		t.Fatalf("status regressed during reanalysis: %s", during.AnalysisStatus)
	}
	close(second)
	f.svc.Wait()

	got, _ := f.svc.Get(context.Background(), item.ID)
	if got.Summary != "Second pass." {
		t.Fatalf("expected re-analysis result, got %q", got.Summary)
	}
	if f.analyzer.callCount() != 2 {
		t.Fatalf("expected 2 analyzer calls, got %d", f.analyzer.callCount())
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	t.Parallel()
	f := newFixture(articleSource())
	ctx := context.Background()
	item, _ := f.svc.IngestURL(ctx, "https://example.com/pipelines")
	f.svc.Wait()
	base := f.activity.total()

	if _, err := f.svc.UpdateStatus(ctx, item.ID, domain.LifecycleNew, false); err != nil {
		t.Fatalf("same status: %v", err)
	}
	if f.activity.total() != base {
		t.Fatalf("no-op status change must not record activity")
	}
	if _, err := f.svc.UpdateStatus(ctx, item.ID, domain.LifecyclePractice, false); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if f.activity.total() != base+1 {
		t.Fatalf("expected activity for status change")
	}
	if _, err := f.svc.UpdateStatus(ctx, item.ID, domain.LifecycleReading, false); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	got, err := f.svc.UpdateStatus(ctx, item.ID, domain.LifecycleReading, true)
	if err != nil || got.LifecycleStatus != domain.LifecycleReading {
		t.Fatalf("forced move failed: %v %s", err, got.LifecycleStatus)
	}
	if _, err := f.svc.UpdateStatus(ctx, item.ID, "archived", false); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestMarkTestPassedMasteredAndReading(t *testing.T) {
	t.Parallel()
	f := newFixture(articleSource())
	ctx := context.Background()
	item, _ := f.svc.IngestURL(ctx, "https://example.com/pipelines")
	f.svc.Wait()

	got, changed, err := f.svc.MarkReading(ctx, item.ID)
	if err != nil || !changed || got.LifecycleStatus != domain.LifecycleReading {
		t.Fatalf("mark reading: %v %v %s", err, changed, got.LifecycleStatus)
	}
	if _, changed, _ = f.svc.MarkReading(ctx, item.ID); changed {
		t.Fatalf("second mark reading should be a no-op")
	}

	got, err = f.svc.MarkTestPassed(ctx, item.ID)
	if err != nil || !got.IsTestPassed || got.LifecycleStatus != domain.LifecyclePractice {
		t.Fatalf("mark test passed: %v %+v", err, got)
	}
	got, err = f.svc.MarkMastered(ctx, item.ID)
	if err != nil || got.LifecycleStatus != domain.LifecycleMastered {
		t.Fatalf("mark mastered: %v %s", err, got.LifecycleStatus)
	}
	got, _ = f.svc.MarkTestPassed(ctx, item.ID)
	if got.LifecycleStatus != domain.LifecycleMastered {
		t.Fatalf("mark test passed must not move mastered back, got %s", got.LifecycleStatus)
	}
}

func TestApplyHighlightAndDelete(t *testing.T) {
	t.Parallel()
	f := newFixture(articleSource())
	ctx := context.Background()
	item, _ := f.svc.IngestURL(ctx, "https://example.com/pipelines")
	f.svc.Wait()

	got, err := f.svc.ApplyHighlight(ctx, item.ID, "concurrently")
	if err != nil {
		t.Fatalf("highlight: %v", err)
	}
	if !strings.Contains(got.RawContent, "run ==concurrently==.") {
		t.Fatalf("highlight not applied: %q", got.RawContent)
	}
	if _, err := f.svc.ApplyHighlight(ctx, item.ID, "missing words"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if err := f.svc.Delete(ctx, item.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.svc.Get(ctx, item.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestIngestDocumentUsesFileName(t *testing.T) {
	t.Parallel()
	f := newFixture(articleSource())
	item, err := f.svc.IngestDocument(context.Background(), "/tmp/notes/chapter-1.md")
	if err != nil {
		t.Fatalf("ingest document: %v", err)
	}
	f.svc.Wait()
	if item.Kind != domain.KindDocument || item.SourceKind != domain.SourceKindFile {
		t.Fatalf("unexpected kinds %s/%s", item.Kind, item.SourceKind)
	}
	if item.SourceRef != "chapter-1.md" || item.Title != "chapter-1" {
		t.Fatalf("unexpected ref/title %q %q", item.SourceRef, item.Title)
	}
}

func TestResumePendingRequeuesInterruptedItems(t *testing.T) {
	t.Parallel()
	f := newFixture(articleSource())
	ctx := context.Background()
	at := time.Date(2026, 5, 3, 9, 0, 0, 0, time.UTC)
	base := domain.Item{
		Kind:            domain.KindArticle,
		SourceKind:      domain.SourceKindArticle,
		SourceRef:       "https://example.com/a",
		Title:           "A",
		RawContent:      "left behind",
		Summary:         domain.AnalyzingPlaceholder,
		LifecycleStatus: domain.LifecycleNew,
		AddedAt:         at,
		UpdatedAt:       at,
	}
	pending, analyzing, done, placeholder := base, base, base, base
	pending.ID, pending.AnalysisStatus = "pending", domain.AnalysisPending
	analyzing.ID, analyzing.AnalysisStatus = "analyzing", domain.AnalysisAnalyzing
	done.ID, done.AnalysisStatus, done.Summary = "done", domain.AnalysisCompleted, "kept"
	placeholder.ID, placeholder.AnalysisStatus, placeholder.FetchFailed = "placeholder", domain.AnalysisPending, true
	for _, item := range []domain.Item{pending, analyzing, done, placeholder} {
		if err := f.store.Save(ctx, item); err != nil {
			t.Fatalf("seed %s: %v", item.ID, err)
		}
	}

	resumed, err := f.svc.ResumePending(ctx)
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if resumed != 3 {
		t.Fatalf("expected three resumed analyses, got %d", resumed)
	}
	f.svc.Wait()

	for _, id := range []string{"pending", "analyzing"} {
		got, _ := f.svc.Get(ctx, id)
		if got.AnalysisStatus != domain.AnalysisCompleted || got.Summary != "Channels connect stages." {
			t.Fatalf("%s not resumed: %s %q", id, got.AnalysisStatus, got.Summary)
		}
	}
	if got, _ := f.svc.Get(ctx, "placeholder"); got.Summary != domain.FetchFailedSummary {
		t.Fatalf("placeholder not settled: %q", got.Summary)
	}
	if got, _ := f.svc.Get(ctx, "done"); got.Summary != "kept" {
		t.Fatalf("completed item must be left alone, got %q", got.Summary)
	}
	if f.analyzer.callCount() != 2 {
		t.Fatalf("expected two analyzer calls, got %d", f.analyzer.callCount())
	}
	if f.activity.total() != 0 {
		t.Fatalf("resuming must not record activity, got %d", f.activity.total())
	}
}
