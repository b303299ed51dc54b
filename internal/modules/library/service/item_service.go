package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"mindshelf/internal/modules/library/domain"
	libraryout "mindshelf/internal/modules/library/port/out"
	"mindshelf/internal/platform/clock"
	apperrors "mindshelf/internal/platform/errors"
	"mindshelf/internal/platform/id"
	"mindshelf/internal/platform/logger"
)

const DefaultMaxAnalysisChars = 30000

type Dependencies struct {
	Clock     clock.Clock
	IDGen     id.Generator
	Store     libraryout.ItemStore
	Projector libraryout.ItemIndexProjector
	Source    libraryout.ContentSource
	Documents libraryout.DocumentReader
	Analyzer  libraryout.Analyzer
	Activity  libraryout.ActivityRecorder
	Notifier  libraryout.ChangeNotifier
	Log       *logger.Logger
	// MaxAnalysisChars bounds the prefix handed to the Analyzer.
	MaxAnalysisChars int
}

type ItemService struct {
	clock     clock.Clock
	idGen     id.Generator
	store     libraryout.ItemStore
	projector libraryout.ItemIndexProjector
	source    libraryout.ContentSource
	documents libraryout.DocumentReader
	analyzer  libraryout.Analyzer
	activity  libraryout.ActivityRecorder
	notifier  libraryout.ChangeNotifier
	log       *logger.Logger
	maxChars  int

	// writeMu serializes read-modify-write cycles on the store.
	writeMu  sync.Mutex
	flightMu sync.Mutex
	inFlight map[string]struct{}
	analyses sync.WaitGroup
}

func NewItemService(deps Dependencies) *ItemService {
	if deps.MaxAnalysisChars <= 0 {
		deps.MaxAnalysisChars = DefaultMaxAnalysisChars
	}
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	return &ItemService{
		clock:     deps.Clock,
		idGen:     deps.IDGen,
		store:     deps.Store,
		projector: deps.Projector,
		source:    deps.Source,
		documents: deps.Documents,
		analyzer:  deps.Analyzer,
		activity:  deps.Activity,
		notifier:  deps.Notifier,
		log:       deps.Log.With("service", "ItemService"),
		maxChars:  deps.MaxAnalysisChars,
		inFlight:  map[string]struct{}{},
	}
}

// IngestURL stores a new article right away and analyzes it in the
// background. A source that cannot be fetched still yields an item.
func (s *ItemService) IngestURL(ctx context.Context, rawURL string) (domain.Item, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return domain.Item{}, fmt.Errorf("%w: url is required", apperrors.ErrInvalidInput)
	}

	var (
		fetched  domain.FetchedContent
		fetchErr error
	)
	if parsed, err := url.Parse(rawURL); err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		fetchErr = fmt.Errorf("%w: %q is not an http(s) url", apperrors.ErrSourceFetch, rawURL)
	} else {
		fetched, fetchErr = s.source.Fetch(ctx, rawURL)
	}
	if fetchErr == nil && strings.TrimSpace(fetched.Content) == "" {
		fetchErr = fmt.Errorf("%w: empty content", apperrors.ErrSourceFetch)
	}
	if fetchErr != nil {
		s.log.Warn("fetch failed, storing placeholder", "url", rawURL, "error", fetchErr)
	}
	return s.ingest(ctx, domain.KindArticle, domain.ClassifyURL(rawURL), rawURL, fetched, fetchErr)
}

// IngestDocument runs the same pipeline for a local PDF, markdown or text file.
func (s *ItemService) IngestDocument(ctx context.Context, path string) (domain.Item, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return domain.Item{}, fmt.Errorf("%w: file path is required", apperrors.ErrInvalidInput)
	}
	fetched, readErr := s.documents.Read(ctx, path)
	if readErr == nil && strings.TrimSpace(fetched.Content) == "" {
		readErr = fmt.Errorf("%w: no text in %s", apperrors.ErrSourceFetch, path)
	}
	if readErr != nil {
		s.log.Warn("document unreadable, storing placeholder", "path", path, "error", readErr)
	}
	if strings.TrimSpace(fetched.Title) == "" {
		fetched.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s.ingest(ctx, domain.KindDocument, domain.SourceKindFile, filepath.Base(path), fetched, readErr)
}

func (s *ItemService) ingest(ctx context.Context, kind domain.Kind, sourceKind domain.SourceKind, sourceRef string, fetched domain.FetchedContent, fetchErr error) (domain.Item, error) {
	now := s.clock.Now()
	item := domain.Item{
		ID:              s.idGen.New(),
		Kind:            kind,
		SourceKind:      sourceKind,
		SourceRef:       sourceRef,
		Title:           strings.TrimSpace(fetched.Title),
		Summary:         domain.AnalyzingPlaceholder,
		AnalysisStatus:  domain.AnalysisPending,
		LifecycleStatus: domain.LifecycleNew,
		AddedAt:         now,
		UpdatedAt:       now,
	}
	if fetchErr != nil {
		item.Title = domain.FetchFailedTitle
		item.RawContent = domain.FetchFailedContent
		item.FetchFailed = true
	} else {
		item.RawContent = domain.NormalizeContent(fetched.Content)
	}
	if item.Title == "" {
		item.Title = sourceRef
	}
	item.Language = domain.DetectLanguage(item.RawContent)
	if err := item.Validate(); err != nil {
		return domain.Item{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}

	s.writeMu.Lock()
	err := s.persist(ctx, item)
	s.writeMu.Unlock()
	if err != nil {
		return domain.Item{}, err
	}
	s.recordActivity(ctx)
	s.notifyChanged(ctx, item)

	s.startAnalysis(ctx, item.ID)
	return item, nil
}

// Reanalyze re-runs phase two for an existing item. It is refused while the
// same item is still being analyzed.
func (s *ItemService) Reanalyze(ctx context.Context, itemID string) (domain.Item, error) {
	item, err := s.store.FindByID(ctx, itemID)
	if err != nil {
		return domain.Item{}, err
	}
	if item.FetchFailed {
		return domain.Item{}, fmt.Errorf("%w: item has no fetched content to analyze", apperrors.ErrInvalidInput)
	}
	if !s.startAnalysis(ctx, item.ID) {
		return domain.Item{}, fmt.Errorf("%w: %s", apperrors.ErrAnalysisInFlight, item.ID)
	}
	return item, nil
}

// ResumePending restarts phase two for items a previous process left pending
// or analyzing. It returns how many analyses were queued.
func (s *ItemService) ResumePending(ctx context.Context) (int, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return 0, err
	}
	resumed := 0
	for _, item := range items {
		if item.AnalysisStatus == domain.AnalysisCompleted || s.analyzing(item.ID) {
			continue
		}
		if _, err := s.mutate(ctx, item.ID, func(item *domain.Item) (bool, error) {
			return item.RequeueAnalysis(), nil
		}); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				continue
			}
			return resumed, err
		}
		if s.startAnalysis(ctx, item.ID) {
			resumed++
		}
	}
	if resumed > 0 {
		s.log.Info("resumed interrupted analyses", "count", resumed)
	}
	return resumed, nil
}

// Wait blocks until every analysis started so far has finished.
func (s *ItemService) Wait() {
	s.analyses.Wait()
}

func (s *ItemService) analyzing(itemID string) bool {
	s.flightMu.Lock()
	defer s.flightMu.Unlock()
	_, busy := s.inFlight[itemID]
	return busy
}

func (s *ItemService) startAnalysis(ctx context.Context, itemID string) bool {
	s.flightMu.Lock()
	if _, busy := s.inFlight[itemID]; busy {
		s.flightMu.Unlock()
		return false
	}
	s.inFlight[itemID] = struct{}{}
	s.analyses.Add(1)
	s.flightMu.Unlock()

	bg := context.WithoutCancel(ctx)
	go func() {
		defer s.analyses.Done()
		defer func() {
			s.flightMu.Lock()
			delete(s.inFlight, itemID)
			s.flightMu.Unlock()
		}()
		s.runAnalysis(bg, itemID)
	}()
	return true
}

func (s *ItemService) runAnalysis(ctx context.Context, itemID string) {
	log := s.log.With("item_id", itemID)

	var content, language string
	var fetchFailed bool
	_, err := s.mutate(ctx, itemID, func(item *domain.Item) (bool, error) {
		content, language, fetchFailed = item.RawContent, item.Language, item.FetchFailed
		if fetchFailed {
			return item.SettleFetchFailure(), nil
		}
		return item.BeginAnalysis(), nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			log.Error("mark analyzing failed", "error", err)
		}
		return
	}
	if fetchFailed {
		log.Debug("placeholder settled without analysis")
		return
	}

	analysis, analyzeErr := s.analyzer.Analyze(ctx, domain.Prefix(content, s.maxChars), language)
	if analyzeErr != nil {
		log.Warn("analysis failed", "error", analyzeErr)
	}

	_, err = s.mutate(ctx, itemID, func(item *domain.Item) (bool, error) {
		if analyzeErr != nil {
			item.FailAnalysis()
		} else {
			item.CompleteAnalysis(analysis)
		}
		return true, nil
	})
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		log.Debug("item deleted during analysis")
	case err != nil:
		log.Error("store analysis failed", "error", err)
	default:
		log.Info("analysis completed", "failed", analyzeErr != nil)
	}
}

func (s *ItemService) UpdateStatus(ctx context.Context, itemID string, status domain.LifecycleStatus, force bool) (domain.Item, error) {
	if err := status.Validate(); err != nil {
		return domain.Item{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	var changed bool
	item, err := s.mutate(ctx, itemID, func(item *domain.Item) (bool, error) {
		var err error
		changed, err = item.AdvanceLifecycle(status, force)
		return changed, err
	})
	if err != nil {
		return domain.Item{}, err
	}
	if changed {
		s.recordActivity(ctx)
	}
	return item, nil
}

func (s *ItemService) ApplyHighlight(ctx context.Context, itemID, passage string) (domain.Item, error) {
	return s.mutate(ctx, itemID, func(item *domain.Item) (bool, error) {
		if err := item.ApplyHighlight(passage); err != nil {
			return false, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
		}
		return true, nil
	})
}

// MarkTestPassed flags the item as quizzed and moves it to practice if it is
// still behind.
func (s *ItemService) MarkTestPassed(ctx context.Context, itemID string) (domain.Item, error) {
	return s.mutate(ctx, itemID, func(item *domain.Item) (bool, error) {
		advanced := item.EnsureAtLeast(domain.LifecyclePractice)
		if item.IsTestPassed {
			return advanced, nil
		}
		item.IsTestPassed = true
		return true, nil
	})
}

func (s *ItemService) MarkMastered(ctx context.Context, itemID string) (domain.Item, error) {
	return s.mutate(ctx, itemID, func(item *domain.Item) (bool, error) {
		return item.EnsureAtLeast(domain.LifecycleMastered), nil
	})
}

// MarkReading moves a new item to reading; it reports whether it changed.
func (s *ItemService) MarkReading(ctx context.Context, itemID string) (domain.Item, bool, error) {
	var changed bool
	item, err := s.mutate(ctx, itemID, func(item *domain.Item) (bool, error) {
		changed = item.EnsureAtLeast(domain.LifecycleReading)
		return changed, nil
	})
	if err != nil {
		return domain.Item{}, false, err
	}
	if changed {
		s.recordActivity(ctx)
	}
	return item, changed, nil
}

func (s *ItemService) Delete(ctx context.Context, itemID string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.store.Delete(ctx, itemID); err != nil {
		return err
	}
	if err := s.projector.DeleteItem(ctx, itemID); err != nil {
		return err
	}
	if s.notifier != nil {
		s.notifier.ItemDeleted(ctx, itemID)
	}
	return nil
}

// List returns items newest first.
func (s *ItemService) List(ctx context.Context) ([]domain.Item, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].AddedAt.After(items[j].AddedAt)
	})
	return items, nil
}

func (s *ItemService) Get(ctx context.Context, itemID string) (domain.Item, error) {
	return s.store.FindByID(ctx, itemID)
}

func (s *ItemService) ListTags(ctx context.Context) ([]domain.TagCount, error) {
	return s.projector.TagCounts(ctx)
}

// Reindex rebuilds the projection from the primary store.
func (s *ItemService) Reindex(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	items, err := s.store.List(ctx)
	if err != nil {
		return err
	}
	if err := s.projector.Reset(ctx); err != nil {
		return err
	}
	for _, item := range items {
		if err := s.projector.UpsertItem(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

// mutate loads an item, applies fn and persists it when fn reports a change.
func (s *ItemService) mutate(ctx context.Context, itemID string, fn func(item *domain.Item) (bool, error)) (domain.Item, error) {
	s.writeMu.Lock()
	item, err := s.store.FindByID(ctx, itemID)
	if err != nil {
		s.writeMu.Unlock()
		return domain.Item{}, err
	}
	changed, err := fn(&item)
	if err != nil || !changed {
		s.writeMu.Unlock()
		return item, err
	}
	item.UpdatedAt = s.clock.Now()
	err = s.persist(ctx, item)
	s.writeMu.Unlock()
	if err != nil {
		return domain.Item{}, err
	}
	s.notifyChanged(ctx, item)
	return item, nil
}

func (s *ItemService) persist(ctx context.Context, item domain.Item) error {
	if err := s.store.Save(ctx, item); err != nil {
		return fmt.Errorf("save item: %w", err)
	}
	if err := s.projector.UpsertItem(ctx, item); err != nil {
		return fmt.Errorf("project item: %w", err)
	}
	return nil
}

func (s *ItemService) recordActivity(ctx context.Context) {
	if s.activity == nil {
		return
	}
	if err := s.activity.Record(ctx); err != nil {
		s.log.Warn("record activity failed", "error", err)
	}
}

func (s *ItemService) notifyChanged(ctx context.Context, item domain.Item) {
	if s.notifier != nil {
		s.notifier.ItemChanged(ctx, item)
	}
}
