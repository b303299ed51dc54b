package domain

import (
	"sort"
	"time"

	"mindshelf/internal/platform/clock"
)

// HeatmapDays is the window rendered by the heatmap, today included.
const HeatmapDays = 28

// ActionsPerLevel is how many recorded actions it takes to gain a level.
const ActionsPerLevel = 5

type HeatmapCell struct {
	Day   string
	Count int
	Tier  int
}

type Summary struct {
	DailyCounts map[string]int
	Total       int
	Level       int
	Streak      int
	Heatmap     []HeatmapCell
}

// Level is floor(total/5)+1 with no cap.
func Level(total int) int {
	if total < 0 {
		total = 0
	}
	return total/ActionsPerLevel + 1
}

// Tier buckets a daily count into the four heatmap intensities.
func Tier(count int) int {
	switch {
	case count <= 0:
		return 0
	case count <= 2:
		return 1
	case count <= 5:
		return 2
	default:
		return 3
	}
}

// Summarize derives totals, level, streak and heatmap. today must already be
// expressed in the user's time zone.
func Summarize(counts map[string]int, today time.Time) Summary {
	daily := make(map[string]int, len(counts))
	total := 0
	for day, count := range counts {
		if count <= 0 {
			continue
		}
		daily[day] = count
		total += count
	}

	heatmap := make([]HeatmapCell, 0, HeatmapDays)
	for offset := HeatmapDays - 1; offset >= 0; offset-- {
		day := today.AddDate(0, 0, -offset).Format(clock.DayLayout)
		count := daily[day]
		heatmap = append(heatmap, HeatmapCell{Day: day, Count: count, Tier: Tier(count)})
	}

	return Summary{
		DailyCounts: daily,
		Total:       total,
		Level:       Level(total),
		Streak:      Streak(daily, today),
		Heatmap:     heatmap,
	}
}

// Streak counts consecutive active days ending today, or ending yesterday
// while today has no activity yet.
func Streak(counts map[string]int, today time.Time) int {
	cursor := today
	if counts[cursor.Format(clock.DayLayout)] <= 0 {
		cursor = cursor.AddDate(0, 0, -1)
	}
	streak := 0
	for counts[cursor.Format(clock.DayLayout)] > 0 {
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}

// SortedDays returns the ledger keys in calendar order.
func SortedDays(counts map[string]int) []string {
	days := make([]string, 0, len(counts))
	for day := range counts {
		days = append(days, day)
	}
	sort.Strings(days)
	return days
}
