package main

import (
	"fmt"
	"text/tabwriter"
	"time"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	runs, err := deps.Runs.ListRuns(deps.Ctx, c.Limit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs recorded. Use 'casfolio extract' to process a statement.")
		return nil
	}

	w := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tFILE\tTXNS\tRESOLVED\tUNRESOLVED\tHASH")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\n",
			run.CreatedAt.Local().Format(time.DateTime),
			run.SourceFile,
			run.Transactions,
			run.Resolved,
			run.Unresolved,
			run.ContentHash,
		)
	}
	return w.Flush()
}
