// Package pdf provides a TextExtractor built on ledongthuc/pdf.
package pdf

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/casfolio/casfolio"
	"github.com/ledongthuc/pdf"
)

// Ensure Extractor implements casfolio.TextExtractor at compile time.
var _ casfolio.TextExtractor = (*Extractor)(nil)

// Extractor reads the text layer of a statement PDF and reconstructs the
// visual lines the parser expects. Encrypted files are opened with the
// supplied password.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract opens the file and returns its text page by page. Pages whose
// content streams cannot be decoded are skipped and counted rather than
// failing the whole statement.
func (e *Extractor) Extract(ctx context.Context, path, password string) (*casfolio.StatementText, error) {
	if path == "" {
		return nil, casfolio.Errorf(casfolio.EINVALID, "statement file path required")
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, casfolio.Errorf(casfolio.ENOTFOUND, "statement file %q not found", path)
		}
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	// The password callback is only invoked for encrypted files, and the
	// reader keeps calling it until it returns "". Offer the password once
	// so a wrong password terminates instead of retrying forever.
	attempted := false
	reader, err := pdf.NewReaderEncrypted(f, fi.Size(), func() string {
		if attempted {
			return ""
		}
		attempted = true
		return password
	})
	if err != nil {
		if errors.Is(err, pdf.ErrInvalidPassword) {
			return nil, casfolio.Errorf(casfolio.EUNAUTHORIZED, "statement file %q is encrypted and the password is missing or wrong", path)
		}
		return nil, casfolio.Errorf(casfolio.EINVALID, "cannot read statement file %q: %v", path, err)
	}

	text := &casfolio.StatementText{Path: path}
	for n := 1; n <= reader.NumPage(); n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(n)
		if page.V.IsNull() {
			text.SkippedPages++
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			text.SkippedPages++
			continue
		}

		pageText := casfolio.PageText{Number: n}
		for _, row := range rows {
			if line := joinRow(row.Content); line != "" {
				pageText.Lines = append(pageText.Lines, line)
			}
		}
		text.Pages = append(text.Pages, pageText)
	}

	return text, nil
}

// joinRow flattens the text runs of one visual row into a single line.
// Runs are already sorted left to right; a space is inserted where the
// horizontal gap between runs is wider than intra-word kerning.
func joinRow(runs []pdf.Text) string {
	var sb strings.Builder
	var end float64
	for i, run := range runs {
		if i > 0 && run.X-end > wordGap(run.FontSize) {
			sb.WriteByte(' ')
		}
		sb.WriteString(run.S)
		if e := run.X + run.W; e > end {
			end = e
		}
	}
	return strings.TrimSpace(sb.String())
}

// wordGap is the gap width treated as a word boundary. A third of the font
// size sits between typical kerning and a real space.
func wordGap(fontSize float64) float64 {
	if fontSize <= 0 {
		return 1
	}
	return fontSize / 3
}
