// Package extract provides statement extraction orchestration.
// It coordinates PDF text extraction, transaction parsing, scheme
// resolution, and run recording.
package extract

import (
	"context"
	"fmt"

	"github.com/casfolio/casfolio"
	"github.com/cespare/xxhash/v2"
)

// Pipeline orchestrates the extraction of one statement file.
type Pipeline struct {
	Extractor casfolio.TextExtractor
	Schemes   casfolio.SchemeDirectory
	Matcher   casfolio.SchemeMatcher
	Runs      casfolio.RunService
}

// Request describes one extraction.
type Request struct {
	Path     string
	Password string

	// NoResolve skips scheme resolution entirely, leaving SchemeCode empty
	// on every transaction.
	NoResolve bool
}

// Result holds the outcome of an extraction.
type Result struct {
	Transactions  []*casfolio.Transaction
	Pages         int
	SkippedPages  int
	SkippedLines  int
	MalformedRows int
	Resolved      int
	Unresolved    int
}

// Run extracts the statement at req.Path, parses its transactions, resolves
// each against the scheme directory, and records the run.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	text, err := p.Extractor.Extract(ctx, req.Path, req.Password)
	if err != nil {
		return nil, err
	}

	lines := text.Lines()
	parsed := casfolio.ParseStatement(lines)

	result := &Result{
		Transactions:  parsed.Transactions,
		Pages:         len(text.Pages),
		SkippedPages:  text.SkippedPages,
		SkippedLines:  parsed.SkippedLines,
		MalformedRows: parsed.MalformedRows,
	}

	if !req.NoResolve {
		if err := p.resolve(ctx, result); err != nil {
			return nil, err
		}
	}

	run := &casfolio.Run{
		SourceFile:   req.Path,
		ContentHash:  contentHash(lines),
		Transactions: len(result.Transactions),
		Resolved:     result.Resolved,
		Unresolved:   result.Unresolved,
		SkippedLines: result.SkippedLines,
	}
	if err := p.Runs.RecordRun(ctx, run); err != nil {
		return nil, err
	}

	return result, nil
}

// resolve assigns a scheme code to each transaction. ISIN lookups are
// memoized per statement; transactions the directory cannot resolve fall
// back to fuzzy matching on the fund name.
func (p *Pipeline) resolve(ctx context.Context, result *Result) error {
	memo := make(map[string]*casfolio.Scheme)

	// Lazily fetched the first time a fuzzy fallback is needed.
	var all []*casfolio.Scheme

	for _, txn := range result.Transactions {
		key := txn.ISIN
		if key == "" {
			key = "name:" + txn.FundName
		}

		scheme, seen := memo[key]
		if !seen {
			var err error
			scheme, err = p.lookup(ctx, txn, &all)
			if err != nil {
				return err
			}
			memo[key] = scheme
		}

		if scheme == nil {
			result.Unresolved++
			continue
		}
		txn.SchemeCode = scheme.Code
		result.Resolved++
	}

	return nil
}

// lookup resolves one transaction, returning nil without error when no
// scheme can be found. Directory failures other than a missing ISIN are
// terminal.
func (p *Pipeline) lookup(ctx context.Context, txn *casfolio.Transaction, all *[]*casfolio.Scheme) (*casfolio.Scheme, error) {
	if txn.ISIN != "" {
		scheme, err := p.Schemes.SchemeByISIN(ctx, txn.ISIN)
		if err == nil {
			return scheme, nil
		}
		if casfolio.ErrorCode(err) != casfolio.ENOTFOUND {
			return nil, err
		}
	}

	if txn.FundName == "" || p.Matcher == nil {
		return nil, nil
	}

	if *all == nil {
		schemes, err := p.Schemes.Schemes(ctx)
		if err != nil {
			return nil, err
		}
		*all = schemes
	}

	if scheme, ok := p.Matcher.BestMatch(txn.FundName, *all); ok {
		return scheme, nil
	}
	return nil, nil
}

// contentHash fingerprints the extracted text so repeated runs of the same
// statement are recognizable in the run history.
func contentHash(lines []string) string {
	h := xxhash.New()
	for _, line := range lines {
		_, _ = h.WriteString(line)
		_, _ = h.WriteString("\n")
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
