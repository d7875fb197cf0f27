package mock

import (
	"context"

	"github.com/casfolio/casfolio"
)

var _ casfolio.SchemeDirectory = (*SchemeDirectory)(nil)

// SchemeDirectory is a mock implementation of casfolio.SchemeDirectory.
type SchemeDirectory struct {
	SchemeByISINFn func(ctx context.Context, isin string) (*casfolio.Scheme, error)
	SchemesFn      func(ctx context.Context) ([]*casfolio.Scheme, error)
}

func (d *SchemeDirectory) SchemeByISIN(ctx context.Context, isin string) (*casfolio.Scheme, error) {
	return d.SchemeByISINFn(ctx, isin)
}

func (d *SchemeDirectory) Schemes(ctx context.Context) ([]*casfolio.Scheme, error) {
	return d.SchemesFn(ctx)
}

var _ casfolio.SchemeMatcher = (*SchemeMatcher)(nil)

// SchemeMatcher is a mock implementation of casfolio.SchemeMatcher.
type SchemeMatcher struct {
	BestMatchFn func(name string, schemes []*casfolio.Scheme) (*casfolio.Scheme, bool)
}

func (m *SchemeMatcher) BestMatch(name string, schemes []*casfolio.Scheme) (*casfolio.Scheme, bool) {
	return m.BestMatchFn(name, schemes)
}
