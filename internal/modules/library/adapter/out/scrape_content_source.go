package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mindshelf/internal/modules/library/domain"
	libraryout "mindshelf/internal/modules/library/port/out"
	apperrors "mindshelf/internal/platform/errors"
)

// ScrapeContentSource calls a Firecrawl-compatible POST /v1/scrape endpoint
// and returns the page as markdown.
type ScrapeContentSource struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewScrapeContentSource(baseURL, apiKey string, timeout time.Duration) *ScrapeContentSource {
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &ScrapeContentSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

var _ libraryout.ContentSource = (*ScrapeContentSource)(nil)

type scrapeRequest struct {
	URL             string   `json:"url"`
	Formats         []string `json:"formats"`
	OnlyMainContent bool     `json:"onlyMainContent"`
}

type scrapeResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Data    struct {
		Markdown string `json:"markdown"`
		Metadata struct {
			Title string `json:"title"`
		} `json:"metadata"`
	} `json:"data"`
}

func (s *ScrapeContentSource) Fetch(ctx context.Context, url string) (domain.FetchedContent, error) {
	if s.apiKey == "" {
		return domain.FetchedContent{}, fmt.Errorf("%w: scraper api key not configured", apperrors.ErrSourceFetch)
	}
	payload, err := json.Marshal(scrapeRequest{URL: url, Formats: []string{"markdown"}, OnlyMainContent: true})
	if err != nil {
		return domain.FetchedContent{}, fmt.Errorf("encode scrape request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/scrape", bytes.NewReader(payload))
	if err != nil {
		return domain.FetchedContent{}, fmt.Errorf("build scrape request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return domain.FetchedContent{}, fmt.Errorf("%w: %v", apperrors.ErrSourceFetch, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return domain.FetchedContent{}, fmt.Errorf("%w: read scrape response: %v", apperrors.ErrSourceFetch, err)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.FetchedContent{}, fmt.Errorf("%w: scraper returned %d", apperrors.ErrSourceFetch, resp.StatusCode)
	}
	var decoded scrapeResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return domain.FetchedContent{}, fmt.Errorf("%w: decode scrape response: %v", apperrors.ErrSourceFetch, err)
	}
	if !decoded.Success || strings.TrimSpace(decoded.Data.Markdown) == "" {
		return domain.FetchedContent{}, fmt.Errorf("%w: scraper returned no content %s", apperrors.ErrSourceFetch, decoded.Error)
	}
	return domain.FetchedContent{Title: strings.TrimSpace(decoded.Data.Metadata.Title), Content: decoded.Data.Markdown}, nil
}
