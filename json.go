package casfolio

import (
	"encoding/json"
	"io"
)

// Ensure JSONExporter implements Exporter at compile time.
var _ Exporter = (*JSONExporter)(nil)

// JSONExporter writes transactions as an indented JSON array.
type JSONExporter struct{}

// Export implements Exporter.
func (e *JSONExporter) Export(w io.Writer, txns []*Transaction) error {
	if txns == nil {
		txns = []*Transaction{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(txns)
}
