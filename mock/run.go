package mock

import (
	"context"

	"github.com/casfolio/casfolio"
)

var _ casfolio.RunService = (*RunService)(nil)

// RunService is a mock implementation of casfolio.RunService.
type RunService struct {
	RecordRunFn func(ctx context.Context, run *casfolio.Run) error
	ListRunsFn  func(ctx context.Context, limit int) ([]*casfolio.Run, error)
}

func (s *RunService) RecordRun(ctx context.Context, run *casfolio.Run) error {
	return s.RecordRunFn(ctx, run)
}

func (s *RunService) ListRuns(ctx context.Context, limit int) ([]*casfolio.Run, error) {
	return s.ListRunsFn(ctx, limit)
}
