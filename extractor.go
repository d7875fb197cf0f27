package casfolio

import "context"

// PageText holds the reconstructed text lines of a single PDF page.
type PageText struct {
	Number int
	Lines  []string
}

// StatementText is the flattened text of a statement PDF, page by page.
type StatementText struct {
	Path  string
	Pages []PageText

	// SkippedPages counts pages whose content could not be decoded.
	SkippedPages int
}

// Lines returns all page lines in reading order.
func (s *StatementText) Lines() []string {
	var lines []string
	for _, p := range s.Pages {
		lines = append(lines, p.Lines...)
	}
	return lines
}

// TextExtractor extracts the text layer of a statement PDF as visual lines.
// Implementations handle decryption of password-protected files.
type TextExtractor interface {
	// Extract opens the file and returns its text page by page.
	// Returns ENOTFOUND if the file does not exist and EUNAUTHORIZED if the
	// file is encrypted and the password is missing or wrong.
	Extract(ctx context.Context, path, password string) (*StatementText, error)
}
