package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/casfolio/casfolio"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ casfolio.RunService = (*RunService)(nil)

// RunService implements casfolio.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// RecordRun persists a new extraction run.
func (s *RunService) RecordRun(ctx context.Context, run *casfolio.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}

	run.ID = uuid.New().String()
	run.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, source_file, content_hash, transactions, resolved, unresolved, skipped_lines, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.SourceFile, run.ContentHash, run.Transactions, run.Resolved, run.Unresolved,
		run.SkippedLines, run.CreatedAt.Format(time.RFC3339))

	return err
}

// ListRuns returns recorded runs, newest first. A non-positive limit
// returns all runs.
func (s *RunService) ListRuns(ctx context.Context, limit int) ([]*casfolio.Run, error) {
	query := `
		SELECT id, source_file, content_hash, transactions, resolved, unresolved, skipped_lines, created_at
		FROM runs
		ORDER BY created_at DESC, id
	`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*casfolio.Run
	for rows.Next() {
		var run casfolio.Run
		var createdAt string

		if err := rows.Scan(&run.ID, &run.SourceFile, &run.ContentHash, &run.Transactions,
			&run.Resolved, &run.Unresolved, &run.SkippedLines, &createdAt); err != nil {
			return nil, err
		}

		run.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}

		runs = append(runs, &run)
	}

	return runs, rows.Err()
}
