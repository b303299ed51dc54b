package out

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mindshelf/internal/modules/library/domain"
	libraryout "mindshelf/internal/modules/library/port/out"
	apperrors "mindshelf/internal/platform/errors"
	"mindshelf/internal/platform/logger"
)

// FallbackContentSource tries each source in order and returns the first
// non-empty result.
type FallbackContentSource struct {
	sources []libraryout.ContentSource
	log     *logger.Logger
}

func NewFallbackContentSource(log *logger.Logger, sources ...libraryout.ContentSource) *FallbackContentSource {
	return &FallbackContentSource{sources: sources, log: log}
}

func (f *FallbackContentSource) Fetch(ctx context.Context, url string) (domain.FetchedContent, error) {
	var errs []error
	for idx, source := range f.sources {
		if source == nil {
			continue
		}
		fetched, err := source.Fetch(ctx, url)
		if err == nil && strings.TrimSpace(fetched.Content) != "" {
			return fetched, nil
		}
		if err == nil {
			err = fmt.Errorf("%w: empty content", apperrors.ErrSourceFetch)
		}
		f.log.Debug("content source failed, trying next", "tier", idx, "url", url, "error", err)
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return domain.FetchedContent{}, fmt.Errorf("%w: no content source configured", apperrors.ErrSourceFetch)
	}
	return domain.FetchedContent{}, errors.Join(errs...)
}
