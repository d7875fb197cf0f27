package extract_test

import (
	"context"
	"testing"

	"github.com/casfolio/casfolio"
	"github.com/casfolio/casfolio/extract"
	"github.com/casfolio/casfolio/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statementLines() []string {
	return []string{
		"Folio No: 111 / 22 PAN: ABCDE1234F",
		"105FDGG-HDFC Flexi Cap Fund - Direct Plan - ISIN: INF179K01YV8",
		"01-Jan-2024 Purchase 1,000.00 5.000 200.00 5.000",
		"15-Feb-2024 Purchase 2,000.00 9.900 202.02 14.900",
	}
}

func textWith(lines []string) *casfolio.StatementText {
	return &casfolio.StatementText{
		Path:  "statement.pdf",
		Pages: []casfolio.PageText{{Number: 1, Lines: lines}},
	}
}

func TestPipeline_Run(t *testing.T) {
	t.Parallel()

	t.Run("extracts, resolves and records", func(t *testing.T) {
		t.Parallel()

		var lookups int
		var recorded *casfolio.Run

		p := &extract.Pipeline{
			Extractor: &mock.TextExtractor{
				ExtractFn: func(ctx context.Context, path, password string) (*casfolio.StatementText, error) {
					return textWith(statementLines()), nil
				},
			},
			Schemes: &mock.SchemeDirectory{
				SchemeByISINFn: func(ctx context.Context, isin string) (*casfolio.Scheme, error) {
					lookups++
					return &casfolio.Scheme{Code: "118955", ISINGrowth: isin}, nil
				},
			},
			Runs: &mock.RunService{
				RecordRunFn: func(ctx context.Context, run *casfolio.Run) error {
					recorded = run
					return nil
				},
			},
		}

		result, err := p.Run(context.Background(), extract.Request{Path: "statement.pdf"})
		require.NoError(t, err)

		require.Len(t, result.Transactions, 2)
		assert.Equal(t, "118955", result.Transactions[0].SchemeCode)
		assert.Equal(t, "118955", result.Transactions[1].SchemeCode)
		assert.Equal(t, 2, result.Resolved)
		assert.Zero(t, result.Unresolved)

		// Both transactions share one ISIN, so the directory is hit once.
		assert.Equal(t, 1, lookups)

		require.NotNil(t, recorded)
		assert.Equal(t, "statement.pdf", recorded.SourceFile)
		assert.Equal(t, 2, recorded.Transactions)
		assert.Equal(t, 2, recorded.Resolved)
		assert.NotEmpty(t, recorded.ContentHash)
	})

	t.Run("falls back to fuzzy matching on unknown ISIN", func(t *testing.T) {
		t.Parallel()

		p := &extract.Pipeline{
			Extractor: &mock.TextExtractor{
				ExtractFn: func(ctx context.Context, path, password string) (*casfolio.StatementText, error) {
					return textWith(statementLines()), nil
				},
			},
			Schemes: &mock.SchemeDirectory{
				SchemeByISINFn: func(ctx context.Context, isin string) (*casfolio.Scheme, error) {
					return nil, casfolio.Errorf(casfolio.ENOTFOUND, "no scheme found for ISIN %q", isin)
				},
				SchemesFn: func(ctx context.Context) ([]*casfolio.Scheme, error) {
					return []*casfolio.Scheme{{Code: "118955", Name: "HDFC Flexi Cap Fund - Direct Plan - Growth Option"}}, nil
				},
			},
			Matcher: &mock.SchemeMatcher{
				BestMatchFn: func(name string, schemes []*casfolio.Scheme) (*casfolio.Scheme, bool) {
					assert.Equal(t, "HDFC Flexi Cap Fund - Direct Plan", name)
					return schemes[0], true
				},
			},
			Runs: &mock.RunService{
				RecordRunFn: func(ctx context.Context, run *casfolio.Run) error { return nil },
			},
		}

		result, err := p.Run(context.Background(), extract.Request{Path: "statement.pdf"})
		require.NoError(t, err)
		assert.Equal(t, "118955", result.Transactions[0].SchemeCode)
		assert.Equal(t, 2, result.Resolved)
	})

	t.Run("counts transactions nothing can resolve", func(t *testing.T) {
		t.Parallel()

		p := &extract.Pipeline{
			Extractor: &mock.TextExtractor{
				ExtractFn: func(ctx context.Context, path, password string) (*casfolio.StatementText, error) {
					return textWith(statementLines()), nil
				},
			},
			Schemes: &mock.SchemeDirectory{
				SchemeByISINFn: func(ctx context.Context, isin string) (*casfolio.Scheme, error) {
					return nil, casfolio.Errorf(casfolio.ENOTFOUND, "no scheme found for ISIN %q", isin)
				},
				SchemesFn: func(ctx context.Context) ([]*casfolio.Scheme, error) {
					return nil, nil
				},
			},
			Matcher: &mock.SchemeMatcher{
				BestMatchFn: func(name string, schemes []*casfolio.Scheme) (*casfolio.Scheme, bool) {
					return nil, false
				},
			},
			Runs: &mock.RunService{
				RecordRunFn: func(ctx context.Context, run *casfolio.Run) error { return nil },
			},
		}

		result, err := p.Run(context.Background(), extract.Request{Path: "statement.pdf"})
		require.NoError(t, err)
		assert.Zero(t, result.Resolved)
		assert.Equal(t, 2, result.Unresolved)
		assert.Empty(t, result.Transactions[0].SchemeCode)
	})

	t.Run("skips resolution when requested", func(t *testing.T) {
		t.Parallel()

		p := &extract.Pipeline{
			Extractor: &mock.TextExtractor{
				ExtractFn: func(ctx context.Context, path, password string) (*casfolio.StatementText, error) {
					return textWith(statementLines()), nil
				},
			},
			Schemes: &mock.SchemeDirectory{
				SchemeByISINFn: func(ctx context.Context, isin string) (*casfolio.Scheme, error) {
					t.Fatal("directory should not be consulted")
					return nil, nil
				},
			},
			Runs: &mock.RunService{
				RecordRunFn: func(ctx context.Context, run *casfolio.Run) error { return nil },
			},
		}

		result, err := p.Run(context.Background(), extract.Request{Path: "statement.pdf", NoResolve: true})
		require.NoError(t, err)
		require.Len(t, result.Transactions, 2)
		assert.Empty(t, result.Transactions[0].SchemeCode)
		assert.Zero(t, result.Resolved)
		assert.Zero(t, result.Unresolved)
	})

	t.Run("fails on directory errors other than not found", func(t *testing.T) {
		t.Parallel()

		p := &extract.Pipeline{
			Extractor: &mock.TextExtractor{
				ExtractFn: func(ctx context.Context, path, password string) (*casfolio.StatementText, error) {
					return textWith(statementLines()), nil
				},
			},
			Schemes: &mock.SchemeDirectory{
				SchemeByISINFn: func(ctx context.Context, isin string) (*casfolio.Scheme, error) {
					return nil, casfolio.Errorf(casfolio.EINTERNAL, "amfi unreachable")
				},
			},
			Runs: &mock.RunService{
				RecordRunFn: func(ctx context.Context, run *casfolio.Run) error { return nil },
			},
		}

		_, err := p.Run(context.Background(), extract.Request{Path: "statement.pdf"})
		assert.Equal(t, casfolio.EINTERNAL, casfolio.ErrorCode(err))
	})

	t.Run("propagates extraction errors", func(t *testing.T) {
		t.Parallel()

		p := &extract.Pipeline{
			Extractor: &mock.TextExtractor{
				ExtractFn: func(ctx context.Context, path, password string) (*casfolio.StatementText, error) {
					return nil, casfolio.Errorf(casfolio.EUNAUTHORIZED, "wrong password")
				},
			},
		}

		_, err := p.Run(context.Background(), extract.Request{Path: "statement.pdf", Password: "nope"})
		assert.Equal(t, casfolio.EUNAUTHORIZED, casfolio.ErrorCode(err))
	})

	t.Run("same content hashes identically across runs", func(t *testing.T) {
		t.Parallel()

		var hashes []string
		p := &extract.Pipeline{
			Extractor: &mock.TextExtractor{
				ExtractFn: func(ctx context.Context, path, password string) (*casfolio.StatementText, error) {
					return textWith(statementLines()), nil
				},
			},
			Runs: &mock.RunService{
				RecordRunFn: func(ctx context.Context, run *casfolio.Run) error {
					hashes = append(hashes, run.ContentHash)
					return nil
				},
			},
		}

		for range 2 {
			_, err := p.Run(context.Background(), extract.Request{Path: "statement.pdf", NoResolve: true})
			require.NoError(t, err)
		}

		require.Len(t, hashes, 2)
		assert.Equal(t, hashes[0], hashes[1])
	})
}
