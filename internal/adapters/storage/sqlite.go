package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/xvierd/breakr/internal/domain"
	"github.com/xvierd/breakr/internal/ports"
)

// SQLiteJournal keeps focus records in one SQLite database, partitioned by
// the record_date column instead of one file per day.
type SQLiteJournal struct {
	db  *sql.DB
	now func() time.Time
}

// Ensure SQLiteJournal implements ports.Journal.
var _ ports.Journal = (*SQLiteJournal)(nil)

// NewSQLiteJournal opens (and creates) the database at dbPath.
func NewSQLiteJournal(dbPath string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps :memory: databases shared and writes serialized.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	j := &SQLiteJournal{db: db, now: time.Now}
	if err := j.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return j, nil
}

// NewMemoryJournal creates an in-memory journal for testing.
func NewMemoryJournal() (*SQLiteJournal, error) {
	return NewSQLiteJournal(":memory:")
}

// Migrate creates the database schema.
func (j *SQLiteJournal) Migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS focus_records (
		id TEXT PRIMARY KEY,
		record_date TEXT NOT NULL,
		focus_goal TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL,
		notes TEXT,
		record_time TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_focus_records_date ON focus_records(record_date);
	`

	if _, err := j.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// Append implements ports.Journal.
func (j *SQLiteJournal) Append(ctx context.Context, rec *domain.FocusRecord) error {
	now := j.now()
	rec.RecordTime = domain.NewTimestamp(now)

	query := `
		INSERT INTO focus_records (id, record_date, focus_goal, start_time, end_time, duration_minutes, notes, record_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	var notes sql.NullString
	if rec.Notes != nil {
		notes = sql.NullString{String: *rec.Notes, Valid: true}
	}

	_, err := j.db.ExecContext(ctx, query,
		uuid.New().String(),
		domain.DateKey(now),
		rec.FocusGoal,
		rec.StartTime.String(),
		rec.EndTime.String(),
		rec.DurationMinutes,
		notes,
		rec.RecordTime.String(),
	)
	if err != nil {
		return fmt.Errorf("%w: failed to insert record: %w", domain.ErrJournalWrite, err)
	}
	return nil
}

// RecordsForDate implements ports.Journal.
func (j *SQLiteJournal) RecordsForDate(ctx context.Context, date string) ([]domain.FocusRecord, error) {
	if err := domain.ValidateDateKey(date); err != nil {
		return nil, err
	}

	query := `
		SELECT focus_goal, start_time, end_time, duration_minutes, notes, record_time
		FROM focus_records
		WHERE record_date = ?
		ORDER BY rowid
	`

	rows, err := j.db.QueryContext(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query records: %w", domain.ErrJournalRead, err)
	}
	defer func() { _ = rows.Close() }()

	records := []domain.FocusRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrJournalRead, err)
	}
	return records, nil
}

func scanRecord(rows *sql.Rows) (domain.FocusRecord, error) {
	var (
		rec                    domain.FocusRecord
		start, end, recordedAt string
		notes                  sql.NullString
	)
	if err := rows.Scan(&rec.FocusGoal, &start, &end, &rec.DurationMinutes, &notes, &recordedAt); err != nil {
		return rec, fmt.Errorf("%w: failed to scan record: %w", domain.ErrJournalRead, err)
	}

	var err error
	if rec.StartTime, err = domain.ParseTimestamp(start); err != nil {
		return rec, fmt.Errorf("%w: %w", domain.ErrJournalRead, err)
	}
	if rec.EndTime, err = domain.ParseTimestamp(end); err != nil {
		return rec, fmt.Errorf("%w: %w", domain.ErrJournalRead, err)
	}
	if rec.RecordTime, err = domain.ParseTimestamp(recordedAt); err != nil {
		return rec, fmt.Errorf("%w: %w", domain.ErrJournalRead, err)
	}
	if notes.Valid {
		n := notes.String
		rec.Notes = &n
	}
	return rec, nil
}

// Dates implements ports.Journal.
func (j *SQLiteJournal) Dates(ctx context.Context) ([]string, error) {
	rows, err := j.db.QueryContext(ctx, `SELECT DISTINCT record_date FROM focus_records ORDER BY record_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list days: %w", domain.ErrJournalRead, err)
	}
	defer func() { _ = rows.Close() }()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrJournalRead, err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// Close closes the database connection.
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
