// Package gocsv provides a CSV Exporter built on gocarina/gocsv.
package gocsv

import (
	"io"

	"github.com/casfolio/casfolio"
	"github.com/gocarina/gocsv"
)

// Ensure Exporter implements casfolio.Exporter at compile time.
var _ casfolio.Exporter = (*Exporter)(nil)

// Exporter writes transactions as CSV, one header row followed by one row
// per transaction, using the column names of the csv struct tags.
type Exporter struct{}

// NewExporter creates a new Exporter.
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export implements casfolio.Exporter.
func (e *Exporter) Export(w io.Writer, txns []*casfolio.Transaction) error {
	if txns == nil {
		txns = []*casfolio.Transaction{}
	}
	return gocsv.Marshal(&txns, w)
}
