package mock

import (
	"context"

	"github.com/casfolio/casfolio"
)

var _ casfolio.TextExtractor = (*TextExtractor)(nil)

// TextExtractor is a mock implementation of casfolio.TextExtractor.
type TextExtractor struct {
	ExtractFn func(ctx context.Context, path, password string) (*casfolio.StatementText, error)
}

func (e *TextExtractor) Extract(ctx context.Context, path, password string) (*casfolio.StatementText, error) {
	return e.ExtractFn(ctx, path, password)
}
