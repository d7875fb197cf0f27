package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/casfolio/casfolio"
)

// Ensure LoggingExtractor implements casfolio.TextExtractor.
var _ casfolio.TextExtractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps a TextExtractor with debug logging.
type LoggingExtractor struct {
	next   casfolio.TextExtractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next casfolio.TextExtractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the operation.
func (e *LoggingExtractor) Extract(ctx context.Context, path, password string) (text *casfolio.StatementText, err error) {
	defer func(begin time.Time) {
		var pages, skipped int
		if text != nil {
			pages = len(text.Pages)
			skipped = text.SkippedPages
		}
		e.logger.Info("statement extraction",
			"path", path,
			"pages", pages,
			"skipped_pages", skipped,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(ctx, path, password)
}
