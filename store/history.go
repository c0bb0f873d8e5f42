package store

import (
	"database/sql"
	"fmt"
	"time"
)

// GenerationRecord is one row of the generation_history table: the outcome
// of a single pipeline invocation, identified by its epoch token.
type GenerationRecord struct {
	ID           int64
	RunID        string
	PaletteName  string
	Prompt       string
	TargetWidth  int
	TargetHeight int
	Temperature  float64
	Status       string // "completed", "error", "canceled"
	ErrorMessage string
	DurationMS   int64
	CreatedAt    time.Time
}

// Valid status values for generation records.
const (
	StatusCompleted = "completed"
	StatusError     = "error"
	StatusCanceled  = "canceled"
)

// HistoryStore records pipeline runs for later inspection.
type HistoryStore struct {
	db *sql.DB
}

// NewHistoryStore creates a HistoryStore over an open database.
func NewHistoryStore(db *sql.DB) *HistoryStore {
	return &HistoryStore{db: db}
}

// Insert appends a record and fills in its assigned ID.
func (s *HistoryStore) Insert(record *GenerationRecord) error {
	res, err := s.db.Exec(`
		INSERT INTO generation_history
			(run_id, palette_name, prompt, target_width, target_height,
			 temperature, status, error_message, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.RunID, record.PaletteName, record.Prompt,
		record.TargetWidth, record.TargetHeight,
		record.Temperature, record.Status, record.ErrorMessage, record.DurationMS)
	if err != nil {
		return fmt.Errorf("failed to insert generation record: %w", err)
	}
	record.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read generation record id: %w", err)
	}
	return nil
}

// Recent returns the most recent records, newest first.
func (s *HistoryStore) Recent(limit int) ([]GenerationRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, run_id, palette_name, prompt, target_width, target_height,
		       temperature, status, error_message, duration_ms, created_at
		FROM generation_history
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query generation history: %w", err)
	}
	defer rows.Close()

	var records []GenerationRecord
	for rows.Next() {
		var r GenerationRecord
		if err := rows.Scan(&r.ID, &r.RunID, &r.PaletteName, &r.Prompt,
			&r.TargetWidth, &r.TargetHeight, &r.Temperature,
			&r.Status, &r.ErrorMessage, &r.DurationMS, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan generation record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
