package main

import (
	"fmt"
	"io"
	"os"

	"github.com/casfolio/casfolio"
	"github.com/casfolio/casfolio/excelize"
	"github.com/casfolio/casfolio/extract"
	"github.com/casfolio/casfolio/gocsv"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	if c.Format == "xlsx" && c.Output == "" {
		return casfolio.Errorf(casfolio.EINVALID, "xlsx output requires --output")
	}

	if c.Refresh && deps.SchemeCache != nil {
		if err := deps.SchemeCache.Invalidate(deps.Ctx); err != nil {
			return err
		}
	}

	result, err := deps.Pipeline.Run(deps.Ctx, extract.Request{
		Path:      c.Path,
		Password:  c.Password,
		NoResolve: c.NoResolve,
	})
	if err != nil {
		return err
	}

	out := deps.Stdout
	if c.Output != "" {
		f, err := os.Create(c.Output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := c.write(out, result.Transactions); err != nil {
		return err
	}

	fmt.Fprintf(deps.Stderr, "%d transactions from %d pages (%d resolved, %d unresolved, %d lines skipped)\n",
		len(result.Transactions), result.Pages, result.Resolved, result.Unresolved, result.SkippedLines)
	if result.MalformedRows > 0 {
		fmt.Fprintf(deps.Stderr, "warning: %d transaction rows could not be parsed\n", result.MalformedRows)
	}
	if result.SkippedPages > 0 {
		fmt.Fprintf(deps.Stderr, "warning: %d pages could not be read\n", result.SkippedPages)
	}

	return nil
}

// write serializes the transactions in the selected format.
func (c *ExtractCmd) write(w io.Writer, txns []*casfolio.Transaction) error {
	switch c.Format {
	case "csv":
		return gocsv.NewExporter().Export(w, txns)
	case "json":
		return (&casfolio.JSONExporter{}).Export(w, txns)
	case "xlsx":
		return excelize.NewExporter().Export(w, txns)
	default:
		_, err := io.WriteString(w, casfolio.FormatTransactions(txns))
		return err
	}
}
