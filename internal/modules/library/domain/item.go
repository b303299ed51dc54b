package domain

import (
	"fmt"
	"strings"
	"time"

	"mindshelf/internal/platform/slug"
)

type Kind string

const (
	KindArticle  Kind = "article"
	KindDocument Kind = "document"
)

type SourceKind string

const (
	SourceKindArticle SourceKind = "article"
	SourceKindVideo   SourceKind = "video"
	SourceKindSocial  SourceKind = "social"
	SourceKindFile    SourceKind = "file"
)

type AnalysisStatus string

const (
	AnalysisPending   AnalysisStatus = "pending"
	AnalysisAnalyzing AnalysisStatus = "analyzing"
	AnalysisCompleted AnalysisStatus = "completed"
)

const (
	AnalyzingPlaceholder  = "analyzing…"
	AnalysisFailedSummary = "Analysis failed. Run re-analyze to try again."
	AnalysisFailedGuide   = "No improvement guide is available because the analysis failed."
	FetchFailedTitle      = "Failed to fetch content"
	FetchFailedContent    = "The content for this source could not be retrieved. You can delete this item and try again later."
	FetchFailedSummary    = "Nothing to analyze: the source could not be retrieved."
)

const (
	ManagedAnalysisStart = "<!-- mindshelf:analysis:start -->"
	ManagedAnalysisEnd   = "<!-- mindshelf:analysis:end -->"
	SchemaVersion        = 1
)

type KeywordEntry struct {
	Word       string `json:"word" yaml:"word"`
	Count      int    `json:"count" yaml:"count"`
	Definition string `json:"definition" yaml:"definition"`
}

type ImprovementPattern struct {
	Icon    string `json:"icon" yaml:"icon"`
	Title   string `json:"title" yaml:"title"`
	Summary string `json:"summary" yaml:"summary"`
	Action  string `json:"action" yaml:"action"`
}

// Analysis is what the Analyzer derives from an item's content.
type Analysis struct {
	Title    string
	Summary  string
	Tags     []string
	Keywords []KeywordEntry
	Patterns []ImprovementPattern
}

// FetchedContent is the raw text a ContentSource or DocumentReader produced.
type FetchedContent struct {
	Title   string
	Content string
}

type Item struct {
	ID               string
	Kind             Kind
	SourceKind       SourceKind
	SourceRef        string
	Title            string
	RawContent       string
	Language         string
	Summary          string
	Tags             []string
	Keywords         []KeywordEntry
	Patterns         []ImprovementPattern
	ImprovementGuide string
	AnalysisStatus   AnalysisStatus
	LifecycleStatus  LifecycleStatus
	IsTestPassed     bool
	FetchFailed      bool
	AddedAt          time.Time
	UpdatedAt        time.Time
}

type TagCount struct {
	Tag   string
	Count int
}

func (k Kind) Validate() error {
	switch k {
	case KindArticle, KindDocument:
		return nil
	default:
		return fmt.Errorf("unsupported item kind %q", string(k))
	}
}

func (i Item) Validate() error {
	if err := i.Kind.Validate(); err != nil {
		return err
	}
	if err := i.LifecycleStatus.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(i.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(i.SourceRef) == "" {
		return fmt.Errorf("source ref is required")
	}
	if strings.TrimSpace(i.Title) == "" {
		return fmt.Errorf("title is required")
	}
	switch i.AnalysisStatus {
	case AnalysisPending, AnalysisAnalyzing, AnalysisCompleted:
	default:
		return fmt.Errorf("unsupported analysis status %q", string(i.AnalysisStatus))
	}
	return nil
}

// BeginAnalysis moves pending to analyzing. A completed item stays completed
// so a re-analysis never regresses its status.
func (i *Item) BeginAnalysis() bool {
	if i.AnalysisStatus != AnalysisPending {
		return false
	}
	i.AnalysisStatus = AnalysisAnalyzing
	return true
}

// CompleteAnalysis overwrites every AI-derived field with a.
func (i *Item) CompleteAnalysis(a Analysis) {
	i.Summary = strings.TrimSpace(a.Summary)
	i.Tags = NormalizeTags(a.Tags)
	i.Keywords = a.Keywords
	i.Patterns = a.Patterns
	i.ImprovementGuide = RenderGuide(a.Patterns)
	if title := strings.TrimSpace(a.Title); title != "" && i.Title == i.SourceRef {
		i.Title = title
	}
	i.AnalysisStatus = AnalysisCompleted
}

// RequeueAnalysis puts an interrupted analysis back to pending.
func (i *Item) RequeueAnalysis() bool {
	if i.AnalysisStatus != AnalysisAnalyzing {
		return false
	}
	i.AnalysisStatus = AnalysisPending
	return true
}

// SettleFetchFailure completes a placeholder item without analysis.
func (i *Item) SettleFetchFailure() bool {
	if i.AnalysisStatus == AnalysisCompleted && i.Summary == FetchFailedSummary {
		return false
	}
	i.Summary = FetchFailedSummary
	i.AnalysisStatus = AnalysisCompleted
	return true
}

// FailAnalysis records the fixed failure text; the item is still completed.
func (i *Item) FailAnalysis() {
	i.Summary = AnalysisFailedSummary
	i.ImprovementGuide = AnalysisFailedGuide
	i.AnalysisStatus = AnalysisCompleted
}

// ApplyHighlight wraps the first occurrence of passage in ==…==.
func (i *Item) ApplyHighlight(passage string) error {
	if strings.TrimSpace(passage) == "" {
		return fmt.Errorf("passage is required")
	}
	idx := strings.Index(i.RawContent, passage)
	if idx < 0 {
		return fmt.Errorf("passage not found in item content")
	}
	i.RawContent = i.RawContent[:idx] + "==" + passage + "==" + i.RawContent[idx+len(passage):]
	return nil
}

// RenderGuide flattens improvement patterns into readable markdown.
func RenderGuide(patterns []ImprovementPattern) string {
	if len(patterns) == 0 {
		return ""
	}
	var b strings.Builder
	for idx, p := range patterns {
		if idx > 0 {
			b.WriteString("\n\n")
		}
		heading := strings.TrimSpace(strings.TrimSpace(p.Icon) + " " + strings.TrimSpace(p.Title))
		b.WriteString("### " + heading)
		if s := strings.TrimSpace(p.Summary); s != "" {
			b.WriteString("\n\n" + s)
		}
		if a := strings.TrimSpace(p.Action); a != "" {
			b.WriteString("\n\n**Action:** " + a)
		}
	}
	return b.String()
}

// NormalizeTags lowercases and hyphenates tags so they stay valid vault tags,
// dropping blanks and duplicates while keeping first-seen order.
func NormalizeTags(tags []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
		if tag == "" {
			continue
		}
		normalized := slug.Make(tag)
		if normalized == "untitled" && !strings.EqualFold(tag, "untitled") {
			continue
		}
		tag = normalized
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
