package out

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"mindshelf/internal/modules/activity/domain"
	activityout "mindshelf/internal/modules/activity/port/out"
)

// FileJournalStore appends one JSON object per line to <vault>/journal.log.
type FileJournalStore struct {
	path string
}

func NewFileJournalStore(vaultPath string) activityout.JournalStore {
	return &FileJournalStore{path: filepath.Join(vaultPath, "journal.log")}
}

func (s *FileJournalStore) Append(_ context.Context, entry domain.JournalEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create journal dir: %w", err)
	}
	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer file.Close()
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode journal entry: %w", err)
	}
	if _, err := file.Write(append(payload, '\n')); err != nil {
		return fmt.Errorf("write journal: %w", err)
	}
	return nil
}

func (s *FileJournalStore) Tail(_ context.Context, limit int) ([]domain.JournalEntry, error) {
	if limit <= 0 {
		limit = 200
	}
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.JournalEntry{}, nil
		}
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer file.Close()

	buffer := make([]domain.JournalEntry, 0, limit)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		entry := domain.JournalEntry{}
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		if len(buffer) < limit {
			buffer = append(buffer, entry)
			continue
		}
		copy(buffer, buffer[1:])
		buffer[len(buffer)-1] = entry
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan journal: %w", err)
	}
	return buffer, nil
}
