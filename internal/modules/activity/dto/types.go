package dto

import "time"

// RecordInput names a calendar day as YYYY-MM-DD in the user's time zone.
type RecordInput struct {
	Day string `json:"day"`
}

type RecordOutput struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

type HeatmapCell struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
	Tier  int    `json:"tier"`
}

type SummaryOutput struct {
	DailyCounts map[string]int `json:"daily_counts"`
	Total       int            `json:"total"`
	Level       int            `json:"level"`
	Streak      int            `json:"streak"`
	Heatmap     []HeatmapCell  `json:"heatmap"`
}

type PostEntryInput struct {
	Body string `json:"body"`
}

type JournalEntryOutput struct {
	ID       string    `json:"id"`
	Body     string    `json:"body"`
	PostedAt time.Time `json:"posted_at"`
}
