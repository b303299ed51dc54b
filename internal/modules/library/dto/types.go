package dto

import "time"

type IngestURLInput struct {
	URL string `json:"url"`
}

type IngestDocumentInput struct {
	Path string `json:"path"`
}

type UpdateStatusInput struct {
	ItemID string `json:"-"`
	Status string `json:"status"`
	Force  bool   `json:"force"`
}

type HighlightInput struct {
	ItemID  string `json:"-"`
	Passage string `json:"passage"`
}

type ReindexInput struct{}

type KeywordOutput struct {
	Word       string `json:"word"`
	Count      int    `json:"count"`
	Definition string `json:"definition"`
}

type PatternOutput struct {
	Icon    string `json:"icon"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Action  string `json:"action"`
}

type ItemOutput struct {
	ID              string    `json:"id"`
	Kind            string    `json:"kind"`
	SourceKind      string    `json:"source_kind"`
	SourceRef       string    `json:"source_ref"`
	Title           string    `json:"title"`
	Tags            []string  `json:"tags"`
	AnalysisStatus  string    `json:"analysis_status"`
	LifecycleStatus string    `json:"lifecycle_status"`
	IsTestPassed    bool      `json:"is_test_passed"`
	FetchFailed     bool      `json:"fetch_failed"`
	AddedAt         time.Time `json:"added_at"`
}

type ItemDetailOutput struct {
	ItemOutput
	Language         string          `json:"language"`
	RawContent       string          `json:"raw_content"`
	Summary          string          `json:"summary"`
	Keywords         []KeywordOutput `json:"keyword_glossary"`
	Patterns         []PatternOutput `json:"improvement_patterns"`
	ImprovementGuide string          `json:"improvement_guide"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

type TagOutput struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}
