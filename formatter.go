package casfolio

import (
	"fmt"
	"strings"
	"text/tabwriter"
)

// FormatTransactions renders transactions as an aligned text table for
// terminal display. Returns an empty string when there is nothing to show.
func FormatTransactions(txns []*Transaction) string {
	if len(txns) == 0 {
		return ""
	}

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "DATE\tTXN\tAMOUNT\tUNITS\tNAV\tBALANCE\tSCHEME\tFOLIO\tFUND")
	for _, t := range txns {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.Date,
			t.Txn,
			t.Amount,
			t.Units,
			t.NAV,
			t.BalanceUnits,
			t.SchemeCode,
			t.FolioNumber,
			t.FundName,
		)
	}
	_ = w.Flush()

	return sb.String()
}
