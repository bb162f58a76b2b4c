// Package storage provides the focus journal implementations: one JSON
// document per day, or a single SQLite database.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/xvierd/breakr/internal/domain"
	"github.com/xvierd/breakr/internal/ports"
)

// FileJournal stores each day's focus records as a JSON array in
// dir/YYYY-MM-DD.json. The day is the date the record was written.
type FileJournal struct {
	dir string
	now func() time.Time
	mu  sync.Mutex
}

// Ensure FileJournal implements ports.Journal.
var _ ports.Journal = (*FileJournal)(nil)

// NewFileJournal creates a journal rooted at dir.
func NewFileJournal(dir string) *FileJournal {
	return &FileJournal{dir: dir, now: time.Now}
}

func (j *FileJournal) path(date string) string {
	return filepath.Join(j.dir, date+".json")
}

// Append implements ports.Journal. It never replaces a day file it cannot
// read.
func (j *FileJournal) Append(_ context.Context, rec *domain.FocusRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	rec.RecordTime = domain.NewTimestamp(now)
	path := j.path(domain.DateKey(now))

	records, err := readDay(path)
	if err != nil {
		return fmt.Errorf("%w: refusing to overwrite %s: %w", domain.ErrJournalWrite, path, err)
	}
	records = append(records, *rec)

	if err := os.MkdirAll(j.dir, 0o755); err != nil {
		return fmt.Errorf("%w: failed to create journal directory: %w", domain.ErrJournalWrite, err)
	}

	data, err := encodeDay(records)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrJournalWrite, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("%w: failed to write %s: %w", domain.ErrJournalWrite, tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: failed to replace %s: %w", domain.ErrJournalWrite, path, err)
	}
	return nil
}

// RecordsForDate implements ports.Journal.
func (j *FileJournal) RecordsForDate(_ context.Context, date string) ([]domain.FocusRecord, error) {
	if err := domain.ValidateDateKey(date); err != nil {
		return nil, err
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	return readDay(j.path(date))
}

// Dates implements ports.Journal.
func (j *FileJournal) Dates(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(j.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list %s: %w", domain.ErrJournalRead, j.dir, err)
	}

	var dates []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		date := strings.TrimSuffix(name, ".json")
		if domain.ValidateDateKey(date) == nil {
			dates = append(dates, date)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates, nil
}

// Close implements ports.Journal.
func (j *FileJournal) Close() error {
	return nil
}

// readDay loads a day file. A missing file is an empty day.
func readDay(path string) ([]domain.FocusRecord, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return []domain.FocusRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %w", domain.ErrJournalRead, path, err)
	}

	records := []domain.FocusRecord{}
	if len(bytes.TrimSpace(data)) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %s is corrupt: %w", domain.ErrJournalRead, path, err)
	}
	if records == nil {
		records = []domain.FocusRecord{}
	}
	return records, nil
}

// encodeDay renders records as indented JSON without escaping non-ASCII
// or HTML characters in goals and notes.
func encodeDay(records []domain.FocusRecord) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("failed to encode records: %w", err)
	}
	return buf.Bytes(), nil
}
