package domain

import (
	"fmt"
	"strings"
	"time"
)

// JournalEntry is one append-only diary post.
type JournalEntry struct {
	ID       string    `json:"id"`
	Body     string    `json:"body"`
	PostedAt time.Time `json:"posted_at"`
}

func (e JournalEntry) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("journal entry id is required")
	}
	if strings.TrimSpace(e.Body) == "" {
		return fmt.Errorf("journal entry body is required")
	}
	return nil
}
