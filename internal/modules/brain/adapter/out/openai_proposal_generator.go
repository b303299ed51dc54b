package out

import (
	"context"
	"fmt"
	"strings"

	"mindshelf/internal/modules/brain/domain"
	brainout "mindshelf/internal/modules/brain/port/out"
)

type Completer interface {
	Complete(ctx context.Context, system, user string, jsonObject bool) (string, error)
}

type OpenAIProposalGenerator struct {
	llm      Completer
	maxChars int
}

func NewOpenAIProposalGenerator(llm Completer, maxChars int) *OpenAIProposalGenerator {
	return &OpenAIProposalGenerator{llm: llm, maxChars: maxChars}
}

var _ brainout.ProposalGenerator = (*OpenAIProposalGenerator)(nil)

const proposalSystemPrompt = `You maintain a learner's personal knowledge base, a single markdown document.
Given the current document and one newly mastered source, write ONLY the new markdown section to append:
a "## " heading naming the topic, then the durable insights from the source as concise bullets.
Do not repeat what the document already says and do not rewrite existing text.`

func (g *OpenAIProposalGenerator) Propose(ctx context.Context, source domain.Source, brain string) (string, error) {
	lang := "English"
	if source.Language == "ja" {
		lang = "Japanese"
	}
	content := source.Content
	if runes := []rune(content); g.maxChars > 0 && len(runes) > g.maxChars {
		content = string(runes[:g.maxChars])
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Write in %s.\n\n", lang)
	b.WriteString("Current knowledge base:\n\n")
	if strings.TrimSpace(brain) == "" {
		b.WriteString("(empty)\n\n")
	} else {
		b.WriteString(brain + "\n\n")
	}
	fmt.Fprintf(&b, "New source: %s\n\nSummary:\n%s\n\nMaterial:\n%s", source.Title, source.Summary, content)

	proposal, err := g.llm.Complete(ctx, proposalSystemPrompt, b.String(), false)
	if err != nil {
		return "", fmt.Errorf("propose merge: %w", err)
	}
	proposal = strings.TrimSpace(proposal)
	if proposal == "" {
		return "", fmt.Errorf("propose merge: empty response")
	}
	return proposal, nil
}
