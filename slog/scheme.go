package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/casfolio/casfolio"
)

// Ensure LoggingSchemeDirectory implements casfolio.SchemeDirectory.
var _ casfolio.SchemeDirectory = (*LoggingSchemeDirectory)(nil)

// LoggingSchemeDirectory wraps a SchemeDirectory with debug logging.
type LoggingSchemeDirectory struct {
	next   casfolio.SchemeDirectory
	logger *slog.Logger
}

// NewLoggingSchemeDirectory creates a new LoggingSchemeDirectory.
func NewLoggingSchemeDirectory(next casfolio.SchemeDirectory, logger *slog.Logger) *LoggingSchemeDirectory {
	return &LoggingSchemeDirectory{next: next, logger: logger}
}

// SchemeByISIN delegates to the wrapped directory and logs the lookup.
func (d *LoggingSchemeDirectory) SchemeByISIN(ctx context.Context, isin string) (scheme *casfolio.Scheme, err error) {
	defer func(begin time.Time) {
		var code string
		if scheme != nil {
			code = scheme.Code
		}
		d.logger.Info("scheme lookup",
			"isin", isin,
			"code", code,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return d.next.SchemeByISIN(ctx, isin)
}

// Schemes delegates to the wrapped directory and logs the fetch.
func (d *LoggingSchemeDirectory) Schemes(ctx context.Context) (schemes []*casfolio.Scheme, err error) {
	defer func(begin time.Time) {
		d.logger.Info("scheme table fetch",
			"count", len(schemes),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return d.next.Schemes(ctx)
}
