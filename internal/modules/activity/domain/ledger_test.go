package domain

import (
	"testing"
	"time"
)

func TestTierBoundaries(t *testing.T) {
	t.Parallel()
	cases := map[int]int{0: 0, 1: 1, 2: 1, 3: 2, 5: 2, 6: 3, 40: 3}
	for count, want := range cases {
		if got := Tier(count); got != want {
			t.Fatalf("tier(%d) = %d, want %d", count, got, want)
		}
	}
}

func TestLevelHasNoCap(t *testing.T) {
	t.Parallel()
	if Level(0) != 1 || Level(4) != 1 || Level(5) != 2 || Level(12) != 3 {
		t.Fatalf("unexpected level progression")
	}
	if Level(5000) != 1001 {
		t.Fatalf("expected uncapped level, got %d", Level(5000))
	}
}

func TestSummarizeBuildsHeatmapOldestFirst(t *testing.T) {
	t.Parallel()
	today := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	counts := map[string]int{
		"2026-03-10": 2,
		"2026-03-09": 6,
		"2026-02-11": 4,
		"2026-02-10": 9,
	}

	summary := Summarize(counts, today)
	if summary.Total != 21 || summary.Level != 5 {
		t.Fatalf("unexpected total/level: %d/%d", summary.Total, summary.Level)
	}
	if len(summary.Heatmap) != HeatmapDays {
		t.Fatalf("expected %d cells, got %d", HeatmapDays, len(summary.Heatmap))
	}
	first := summary.Heatmap[0]
	if first.Day != "2026-02-11" || first.Count != 4 || first.Tier != 2 {
		t.Fatalf("unexpected first cell: %+v", first)
	}
	last := summary.Heatmap[HeatmapDays-1]
	if last.Day != "2026-03-10" || last.Tier != 1 {
		t.Fatalf("unexpected last cell: %+v", last)
	}
	if summary.Heatmap[HeatmapDays-2].Tier != 3 {
		t.Fatalf("expected yesterday in top tier")
	}
	if summary.Streak != 2 {
		t.Fatalf("expected streak 2, got %d", summary.Streak)
	}
}

func TestStreakStartsYesterdayWhenTodayEmpty(t *testing.T) {
	t.Parallel()
	today := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	counts := map[string]int{"2026-01-01": 1, "2025-12-31": 3, "2025-12-29": 1}
	if got := Streak(counts, today); got != 2 {
		t.Fatalf("expected streak 2 across the year boundary, got %d", got)
	}
	if got := Streak(map[string]int{}, today); got != 0 {
		t.Fatalf("expected empty streak, got %d", got)
	}
}
