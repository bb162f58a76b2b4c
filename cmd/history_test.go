package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvierd/breakr/internal/domain"
	"github.com/xvierd/breakr/internal/services"
)

const dayJournal = `[
    {
        "focus_goal": "Write the release notes",
        "start_time": "2024-05-01T09:00:00",
        "end_time": "2024-05-01T09:40:00",
        "duration_minutes": 40,
        "notes": "breakr main@1a2b3c4",
        "record_time": "2024-05-01T09:48:00"
    },
    {
        "focus_goal": "Review pull requests",
        "start_time": "2024-05-01T10:00:00",
        "end_time": "2024-05-01T10:25:30",
        "duration_minutes": 25,
        "notes": null,
        "record_time": "2024-05-01T10:33:00"
    }
]`

func writeDay(t *testing.T, home, date, body string) {
	t.Helper()
	dir := filepath.Join(home, "focus_records")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, date+".json"), []byte(body), 0o644))
}

func TestHistoryCmd(t *testing.T) {
	home := t.TempDir()
	writeDay(t, home, "2024-05-01", dayJournal)

	stdout, _, err := runBreakr(t, home, "history", "2024-05-01")
	require.NoError(t, err)

	for _, want := range []string{
		"Focus records for 2024-05-01",
		"Write the release notes",
		"09:00:00 - 09:40:00  (40 min)",
		"Note: breakr main@1a2b3c4",
		"10:00:00 - 10:25:30  (25 min)",
		"Total: 2 sessions, 65 min",
	} {
		assert.Contains(t, stdout, want)
	}
}

func TestHistoryCmd_Filter(t *testing.T) {
	home := t.TempDir()
	writeDay(t, home, "2024-05-01", dayJournal)

	stdout, _, err := runBreakr(t, home, "history", "2024-05-01", "--filter", "review")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Review pull requests")
	assert.NotContains(t, stdout, "Write the release notes")
	assert.Contains(t, stdout, "Total: 1 session, 25 min")
}

func TestHistoryCmd_JSON(t *testing.T) {
	home := t.TempDir()
	writeDay(t, home, "2024-05-01", dayJournal)

	stdout, _, err := runBreakr(t, home, "history", "2024-05-01", "--json")
	require.NoError(t, err)

	day := decodeJSON(t, stdout)
	assert.Equal(t, "2024-05-01", day["date"])
	assert.Equal(t, float64(65), day["total_minutes"])
	records, ok := day["records"].([]any)
	require.True(t, ok)
	assert.Len(t, records, 2)
}

func TestHistoryCmd_EmptyDay(t *testing.T) {
	stdout, _, err := runBreakr(t, t.TempDir(), "history", "2023-01-01")
	require.NoError(t, err)
	assert.Equal(t, "No focus records for 2023-01-01.\n", stdout)
}

func TestHistoryCmd_InvalidDate(t *testing.T) {
	for _, date := range []string{"2024-13-01", "yesterday", "2024/05/01"} {
		t.Run(date, func(t *testing.T) {
			_, _, err := runBreakr(t, t.TempDir(), "history", date)
			assert.ErrorIs(t, err, domain.ErrInvalidDate)
		})
	}
}

func TestHistoryCmd_CorruptDay(t *testing.T) {
	home := t.TempDir()
	writeDay(t, home, "2024-05-02", "[{not json")

	_, _, err := runBreakr(t, home, "history", "2024-05-02")
	assert.ErrorIs(t, err, domain.ErrJournalRead)
}

func TestPrintDayHistory(t *testing.T) {
	var out bytes.Buffer
	printDayHistory(&out, &services.DayHistory{Date: "2024-05-03"})
	assert.Equal(t, "No focus records for 2024-05-03.\n", out.String())
}

func TestPluralize(t *testing.T) {
	assert.Equal(t, "1 session", pluralize(1, "session"))
	assert.Equal(t, "0 sessions", pluralize(0, "session"))
	assert.Equal(t, "3 sessions", pluralize(3, "session"))
}
