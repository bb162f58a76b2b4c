package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/xvierd/breakr/internal/domain"
	"github.com/xvierd/breakr/internal/ports"
)

// DayHistory is the journal of one day.
type DayHistory struct {
	Date         string               `json:"date"`
	Records      []domain.FocusRecord `json:"records"`
	TotalMinutes int                  `json:"total_minutes"`
}

// HistoryService handles focus history use cases.
type HistoryService struct {
	journal ports.Journal
}

// NewHistoryService creates a new history service.
func NewHistoryService(journal ports.Journal) *HistoryService {
	return &HistoryService{journal: journal}
}

// Day returns the records of date. A non-empty filter keeps only records
// whose goal fuzzily matches it, in their original order.
func (s *HistoryService) Day(ctx context.Context, date, filter string) (*DayHistory, error) {
	if err := domain.ValidateDateKey(date); err != nil {
		return nil, err
	}

	records, err := s.journal.RecordsForDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load records for %s: %w", date, err)
	}

	records = FilterRecords(records, filter)
	day := &DayHistory{Date: date, Records: records}
	for _, rec := range records {
		day.TotalMinutes += rec.DurationMinutes
	}
	return day, nil
}

// RecordsForDay implements ports.FocusHistory.
func (s *HistoryService) RecordsForDay(ctx context.Context, date, filter string) ([]domain.FocusRecord, error) {
	day, err := s.Day(ctx, date, filter)
	if err != nil {
		return nil, err
	}
	return day.Records, nil
}

var _ ports.FocusHistory = (*HistoryService)(nil)

// Dates lists the days that have records, newest first.
func (s *HistoryService) Dates(ctx context.Context) ([]string, error) {
	dates, err := s.journal.Dates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal days: %w", err)
	}
	return dates, nil
}

// FilterRecords does a fuzzy search over record goals.
func FilterRecords(records []domain.FocusRecord, filter string) []domain.FocusRecord {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return records
	}

	goals := make([]string, len(records))
	for i, rec := range records {
		goals[i] = rec.FocusGoal
	}

	matches := fuzzy.Find(filter, goals)
	indexes := make([]int, 0, len(matches))
	for _, match := range matches {
		indexes = append(indexes, match.Index)
	}
	sort.Ints(indexes)

	result := make([]domain.FocusRecord, 0, len(indexes))
	for _, i := range indexes {
		result = append(result, records[i])
	}
	return result
}
