package service

import (
	"context"
	"fmt"
	"strings"

	"mindshelf/internal/modules/reader/domain"
	readerout "mindshelf/internal/modules/reader/port/out"
	apperrors "mindshelf/internal/platform/errors"
	"mindshelf/internal/platform/logger"
)

type Dependencies struct {
	Items    readerout.ItemGateway
	Launcher readerout.ExternalLauncher
	Log      *logger.Logger
}

type ReaderService struct {
	items    readerout.ItemGateway
	launcher readerout.ExternalLauncher
	log      *logger.Logger
}

func NewReaderService(deps Dependencies) *ReaderService {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	return &ReaderService{
		items:    deps.Items,
		launcher: deps.Launcher,
		log:      deps.Log.With("service", "ReaderService"),
	}
}

// Open marks the item as being read and, when asked, hands its web address
// to the OS browser. The returned bool reports whether a launch happened.
func (s *ReaderService) Open(ctx context.Context, itemID string, launchExternal bool) (domain.Document, bool, error) {
	if strings.TrimSpace(itemID) == "" {
		return domain.Document{}, false, fmt.Errorf("%w: item id is required", apperrors.ErrInvalidInput)
	}
	if launchExternal {
		doc, err := s.items.Get(ctx, itemID)
		if err != nil {
			return domain.Document{}, false, err
		}
		if doc.ExternalTarget() == "" {
			return domain.Document{}, false, fmt.Errorf("%w: item %s has no web address", apperrors.ErrInvalidInput, itemID)
		}
		if s.launcher == nil {
			return domain.Document{}, false, fmt.Errorf("external launcher is not configured")
		}
	}

	doc, err := s.items.MarkReading(ctx, itemID)
	if err != nil {
		return domain.Document{}, false, err
	}
	if !launchExternal {
		return doc, false, nil
	}
	target := doc.ExternalTarget()
	if err := s.launcher.Open(ctx, target); err != nil {
		s.log.Warn("external launch failed", "item_id", itemID, "target", target, "error", err)
		return doc, false, err
	}
	return doc, true, nil
}

func (s *ReaderService) Highlight(ctx context.Context, itemID, passage string) (domain.Document, error) {
	if strings.TrimSpace(passage) == "" {
		return domain.Document{}, fmt.Errorf("%w: passage is required", apperrors.ErrInvalidInput)
	}
	return s.items.Highlight(ctx, itemID, passage)
}
