package domain

import (
	"bytes"
	"fmt"
	"math"
	"time"
)

// DateLayout is the key format of a journal day.
const DateLayout = "2006-01-02"

// timestampLayout is ISO-8601 with microseconds and a UTC offset.
const timestampLayout = "2006-01-02T15:04:05.999999Z07:00"

// naiveLayouts are accepted when reading journals written without an offset.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
}

// Timestamp is a time.Time that reads and writes ISO-8601 text.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// String formats the timestamp as ISO-8601.
func (t Timestamp) String() string {
	return t.Time.Format(timestampLayout)
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("timestamp must be a JSON string, got %s", data)
	}
	parsed, err := ParseTimestamp(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTimestamp parses ISO-8601 text. Values without an offset are read in
// local time.
func ParseTimestamp(s string) (Timestamp, error) {
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return Timestamp{Time: ts}, nil
	}
	for _, layout := range naiveLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return Timestamp{Time: ts}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("invalid ISO-8601 timestamp %q", s)
}

// FocusRecord is a persisted summary of one completed work session.
type FocusRecord struct {
	FocusGoal       string    `json:"focus_goal"`
	StartTime       Timestamp `json:"start_time"`
	EndTime         Timestamp `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
	Notes           *string   `json:"notes"`
	RecordTime      Timestamp `json:"record_time"`
}

// NewFocusRecord builds a record for a session that ran from start to end.
// RecordTime is left for the journal to stamp.
func NewFocusRecord(goal string, start, end time.Time, note string) FocusRecord {
	rec := FocusRecord{
		FocusGoal:       goal,
		StartTime:       NewTimestamp(start),
		EndTime:         NewTimestamp(end),
		DurationMinutes: DurationMinutes(start, end),
	}
	if note != "" {
		rec.Notes = &note
	}
	return rec
}

// Note returns the record's note or an empty string.
func (r FocusRecord) Note() string {
	if r.Notes == nil {
		return ""
	}
	return *r.Notes
}

// DurationMinutes returns the whole minutes elapsed between start and end,
// floored. A negative span counts as zero.
func DurationMinutes(start, end time.Time) int {
	elapsed := end.Sub(start)
	if elapsed <= 0 {
		return 0
	}
	return int(math.Floor(elapsed.Minutes()))
}

// DateKey returns the journal key for t.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ValidateDateKey checks that s is a YYYY-MM-DD date.
func ValidateDateKey(s string) error {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return nil
}
