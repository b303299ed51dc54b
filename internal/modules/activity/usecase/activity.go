package usecase

import (
	"context"
	"strings"

	"mindshelf/internal/modules/activity/domain"
	"mindshelf/internal/modules/activity/dto"
	activityin "mindshelf/internal/modules/activity/port/in"
	"mindshelf/internal/modules/activity/service"
)

type Interactor struct {
	svc *service.ActivityService
}

func NewInteractor(svc *service.ActivityService) activityin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Record(ctx context.Context) (dto.RecordOutput, error) {
	day, count, err := i.svc.Record(ctx)
	if err != nil {
		return dto.RecordOutput{}, err
	}
	return dto.RecordOutput{Day: day, Count: count}, nil
}

// RecordOn increments an explicit day; a blank day means today.
func (i *Interactor) RecordOn(ctx context.Context, input dto.RecordInput) (dto.RecordOutput, error) {
	if strings.TrimSpace(input.Day) == "" {
		return i.Record(ctx)
	}
	at, err := i.svc.ParseDay(input.Day)
	if err != nil {
		return dto.RecordOutput{}, err
	}
	day, count, err := i.svc.RecordOn(ctx, at)
	if err != nil {
		return dto.RecordOutput{}, err
	}
	return dto.RecordOutput{Day: day, Count: count}, nil
}

func (i *Interactor) Summary(ctx context.Context) (dto.SummaryOutput, error) {
	summary, err := i.svc.Summary(ctx)
	if err != nil {
		return dto.SummaryOutput{}, err
	}
	cells := make([]dto.HeatmapCell, 0, len(summary.Heatmap))
	for _, cell := range summary.Heatmap {
		cells = append(cells, dto.HeatmapCell{Day: cell.Day, Count: cell.Count, Tier: cell.Tier})
	}
	return dto.SummaryOutput{
		DailyCounts: summary.DailyCounts,
		Total:       summary.Total,
		Level:       summary.Level,
		Streak:      summary.Streak,
		Heatmap:     cells,
	}, nil
}

func (i *Interactor) PostEntry(ctx context.Context, input dto.PostEntryInput) (dto.JournalEntryOutput, error) {
	entry, err := i.svc.PostEntry(ctx, input.Body)
	if err != nil {
		return dto.JournalEntryOutput{}, err
	}
	return toEntryOutput(entry), nil
}

func (i *Interactor) ListEntries(ctx context.Context, limit int) ([]dto.JournalEntryOutput, error) {
	entries, err := i.svc.ListEntries(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.JournalEntryOutput, 0, len(entries))
	for _, entry := range entries {
		out = append(out, toEntryOutput(entry))
	}
	return out, nil
}

func toEntryOutput(entry domain.JournalEntry) dto.JournalEntryOutput {
	return dto.JournalEntryOutput{ID: entry.ID, Body: entry.Body, PostedAt: entry.PostedAt}
}
