package out

import (
	"context"
	"fmt"
	"strings"

	"mindshelf/internal/modules/quiz/domain"
	quizout "mindshelf/internal/modules/quiz/port/out"
)

type JSONCompleter interface {
	CompleteJSON(ctx context.Context, system, user string, out any) error
}

type OpenAIQuestionGenerator struct {
	llm JSONCompleter
}

func NewOpenAIQuestionGenerator(llm JSONCompleter) *OpenAIQuestionGenerator {
	return &OpenAIQuestionGenerator{llm: llm}
}

var _ quizout.QuestionGenerator = (*OpenAIQuestionGenerator)(nil)

const questionSystemPrompt = `You write comprehension quizzes for a learner.
Return ONLY a JSON object {"questions": [...]} where every question is
{"question": string, "options": exactly 4 strings, "correctIndex": 0-3, "explanation": one sentence}.
Questions must be answerable from the material alone. Vary the position of the correct option.`

type questionPayload struct {
	Questions []struct {
		Question     string   `json:"question"`
		Options      []string `json:"options"`
		CorrectIndex int      `json:"correctIndex"`
		Explanation  string   `json:"explanation"`
	} `json:"questions"`
}

// Generate returns the well-formed questions from the model's answer, which
// may be fewer than count or none at all.
func (g *OpenAIQuestionGenerator) Generate(ctx context.Context, content string, count int, language string) ([]domain.Question, error) {
	lang := "English"
	if language == "ja" {
		lang = "Japanese"
	}
	user := fmt.Sprintf("Write %d questions in %s.\n\nMaterial:\n\n%s", count, lang, content)
	var payload questionPayload
	if err := g.llm.CompleteJSON(ctx, questionSystemPrompt, user, &payload); err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}
	out := make([]domain.Question, 0, len(payload.Questions))
	for _, raw := range payload.Questions {
		q := domain.Question{
			Prompt:       strings.TrimSpace(raw.Question),
			Options:      raw.Options,
			CorrectIndex: raw.CorrectIndex,
			Explanation:  strings.TrimSpace(raw.Explanation),
		}
		if q.Validate() != nil {
			continue
		}
		out = append(out, q)
		if len(out) == count {
			break
		}
	}
	return out, nil
}
