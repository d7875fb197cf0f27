// Package excelize provides an XLSX Exporter built on xuri/excelize.
package excelize

import (
	"io"

	"github.com/casfolio/casfolio"
	"github.com/xuri/excelize/v2"
)

// SheetName is the name of the worksheet holding the transactions.
const SheetName = "Transactions"

var header = []string{
	"fund_name", "isin", "scheme_code", "folio_num", "date",
	"txn", "amount", "units", "nav", "balance_units",
}

// Ensure Exporter implements casfolio.Exporter at compile time.
var _ casfolio.Exporter = (*Exporter)(nil)

// Exporter writes transactions as a single-sheet XLSX workbook. Monetary
// and unit columns are written as numeric cells so spreadsheet formulas
// work on them directly.
type Exporter struct{}

// NewExporter creates a new Exporter.
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export implements casfolio.Exporter.
func (e *Exporter) Export(w io.Writer, txns []*casfolio.Transaction) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}

	for col, name := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, cell, name); err != nil {
			return err
		}
	}

	for i, txn := range txns {
		values := []any{
			txn.FundName,
			txn.ISIN,
			txn.SchemeCode,
			txn.FolioNumber,
			txn.Date.String(),
			string(txn.Txn),
			txn.Amount.InexactFloat64(),
			txn.Units.InexactFloat64(),
			txn.NAV.InexactFloat64(),
			txn.BalanceUnits.InexactFloat64(),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(SheetName, cell, value); err != nil {
				return err
			}
		}
	}

	_, err := f.WriteTo(w)
	return err
}
