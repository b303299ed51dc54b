package out

import (
	"context"
	"fmt"
	"strings"

	"mindshelf/internal/modules/library/domain"
	libraryout "mindshelf/internal/modules/library/port/out"
	apperrors "mindshelf/internal/platform/errors"
)

// Completer is the slice of the LLM client the search source needs.
type Completer interface {
	Complete(ctx context.Context, system, user string, jsonObject bool) (string, error)
}

// SearchContentSource asks a search-capable model to reproduce the content
// behind a URL, with a prompt chosen by the kind of URL.
type SearchContentSource struct {
	llm Completer
}

func NewSearchContentSource(llm Completer) *SearchContentSource {
	return &SearchContentSource{llm: llm}
}

var _ libraryout.ContentSource = (*SearchContentSource)(nil)

const searchSystemPrompt = `You retrieve web content for a personal reading library.
Reply in markdown only. The first line must be "# " followed by the title.
Do not add commentary about yourself or the request.`

func searchPrompt(kind domain.SourceKind, url string) string {
	switch kind {
	case domain.SourceKindVideo:
		return fmt.Sprintf(`Find the video at %s. Write its title, then a faithful, detailed account of what the video covers: the main points in order, key examples, and any conclusions. Use the transcript or description when available.`, url)
	case domain.SourceKindSocial:
		return fmt.Sprintf(`Find the social media post at %s. Write a title summarizing it, then the full post text verbatim, followed by the author and any linked thread posts in order.`, url)
	default:
		return fmt.Sprintf(`Find the article at %s. Write its title, then reproduce the article body as faithfully as possible with its headings, lists and code blocks.`, url)
	}
}

func (s *SearchContentSource) Fetch(ctx context.Context, url string) (domain.FetchedContent, error) {
	reply, err := s.llm.Complete(ctx, searchSystemPrompt, searchPrompt(domain.ClassifyURL(url), url), false)
	if err != nil {
		return domain.FetchedContent{}, fmt.Errorf("%w: search: %v", apperrors.ErrSourceFetch, err)
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return domain.FetchedContent{}, fmt.Errorf("%w: search returned no content", apperrors.ErrSourceFetch)
	}
	title := ""
	if first, rest, ok := strings.Cut(reply, "\n"); ok && strings.HasPrefix(first, "# ") {
		title = strings.TrimSpace(strings.TrimPrefix(first, "# "))
		reply = strings.TrimSpace(rest)
	}
	if reply == "" {
		return domain.FetchedContent{}, fmt.Errorf("%w: search returned only a title", apperrors.ErrSourceFetch)
	}
	return domain.FetchedContent{Title: title, Content: reply}, nil
}
