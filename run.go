package casfolio

import (
	"context"
	"time"
)

// Run records one extraction of a statement file.
type Run struct {
	ID           string    `json:"id"`
	SourceFile   string    `json:"sourceFile"`
	ContentHash  string    `json:"contentHash"`
	Transactions int       `json:"transactions"`
	Resolved     int       `json:"resolved"`
	Unresolved   int       `json:"unresolved"`
	SkippedLines int       `json:"skippedLines"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.SourceFile == "" {
		return Errorf(EINVALID, "run source file required")
	}
	return nil
}

// RunService records and lists extraction runs.
type RunService interface {
	// RecordRun persists a new run, assigning its ID and CreatedAt.
	RecordRun(ctx context.Context, run *Run) error

	// ListRuns returns the most recent runs, newest first. A non-positive
	// limit returns all runs.
	ListRuns(ctx context.Context, limit int) ([]*Run, error)
}
