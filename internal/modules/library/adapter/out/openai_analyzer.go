package out

import (
	"context"
	"fmt"
	"strings"

	"mindshelf/internal/modules/library/domain"
	libraryout "mindshelf/internal/modules/library/port/out"
	apperrors "mindshelf/internal/platform/errors"
)

// JSONCompleter decodes a JSON-object completion into out.
type JSONCompleter interface {
	CompleteJSON(ctx context.Context, system, user string, out any) error
}

type OpenAIAnalyzer struct {
	llm JSONCompleter
}

func NewOpenAIAnalyzer(llm JSONCompleter) *OpenAIAnalyzer {
	return &OpenAIAnalyzer{llm: llm}
}

var _ libraryout.Analyzer = (*OpenAIAnalyzer)(nil)

const analyzerSystemPrompt = `You analyze saved reading material for a learner.
Return ONLY a JSON object with these fields:
- "title": short title for the material (string)
- "summary": markdown summary of the key ideas, 5-10 bullet points (string)
- "tags": 3-6 lowercase topic tags (array of strings)
- "keywordGlossary": important terms, each {"word": string, "count": occurrences in the text (integer), "definition": one sentence}
- "improvementPatterns": 2-4 ways the reader can apply the material, each {"icon": one emoji, "title": string, "summary": string, "action": one concrete next step}
No additional text.`

type analysisPayload struct {
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	Tags     []string `json:"tags"`
	Keywords []struct {
		Word       string `json:"word"`
		Count      int    `json:"count"`
		Definition string `json:"definition"`
	} `json:"keywordGlossary"`
	Patterns []struct {
		Icon    string `json:"icon"`
		Title   string `json:"title"`
		Summary string `json:"summary"`
		Action  string `json:"action"`
	} `json:"improvementPatterns"`
}

func (a *OpenAIAnalyzer) Analyze(ctx context.Context, content, language string) (domain.Analysis, error) {
	user := fmt.Sprintf("%s\n\nMaterial:\n\n%s", languageInstruction(language), content)
	var payload analysisPayload
	if err := a.llm.CompleteJSON(ctx, analyzerSystemPrompt, user, &payload); err != nil {
		return domain.Analysis{}, fmt.Errorf("%w: %v", apperrors.ErrAnalysis, err)
	}
	if strings.TrimSpace(payload.Summary) == "" {
		return domain.Analysis{}, fmt.Errorf("%w: response has no summary", apperrors.ErrAnalysis)
	}
	analysis := domain.Analysis{
		Title:   strings.TrimSpace(payload.Title),
		Summary: payload.Summary,
		Tags:    payload.Tags,
	}
	for _, k := range payload.Keywords {
		if strings.TrimSpace(k.Word) == "" {
			continue
		}
		analysis.Keywords = append(analysis.Keywords, domain.KeywordEntry{Word: k.Word, Count: k.Count, Definition: k.Definition})
	}
	for _, p := range payload.Patterns {
		if strings.TrimSpace(p.Title) == "" {
			continue
		}
		analysis.Patterns = append(analysis.Patterns, domain.ImprovementPattern{Icon: p.Icon, Title: p.Title, Summary: p.Summary, Action: p.Action})
	}
	return analysis, nil
}

func languageInstruction(language string) string {
	if language == "ja" {
		return "Write every text field in Japanese."
	}
	return "Write every text field in English."
}
