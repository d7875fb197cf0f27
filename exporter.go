package casfolio

import "io"

// Exporter serializes transactions to an output stream.
type Exporter interface {
	Export(w io.Writer, txns []*Transaction) error
}
