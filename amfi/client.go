// Package amfi provides a SchemeDirectory backed by the daily NAV table
// published by AMFI (Association of Mutual Funds in India).
package amfi

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/casfolio/casfolio"
)

// DefaultURL is the public AMFI endpoint for the open-ended scheme table.
const DefaultURL = "https://portal.amfiindia.com/spages/NAVopen.txt"

// DefaultFetchTimeout is the default timeout for the table download.
const DefaultFetchTimeout = 60 * time.Second

// Ensure Directory implements casfolio.SchemeDirectory at compile time.
var _ casfolio.SchemeDirectory = (*Directory)(nil)

// Directory fetches and memoizes the AMFI scheme table. The table is
// downloaded at most once per Directory; it is not safe for concurrent use,
// matching the tool's single-pass execution model.
type Directory struct {
	client  *http.Client
	url     string
	timeout time.Duration

	schemes []*casfolio.Scheme
	byISIN  map[string]*casfolio.Scheme
}

// Option configures a Directory.
type Option func(*Directory)

// WithURL overrides the table endpoint. Used by tests.
func WithURL(url string) Option {
	return func(d *Directory) {
		d.url = url
	}
}

// WithTimeout sets the download timeout.
// Defaults to DefaultFetchTimeout (60s) if not specified.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Directory) {
		d.timeout = timeout
	}
}

// WithHTTPClient sets the HTTP client used for the download.
func WithHTTPClient(client *http.Client) Option {
	return func(d *Directory) {
		d.client = client
	}
}

// NewDirectory creates a new AMFI-backed Directory.
func NewDirectory(opts ...Option) *Directory {
	d := &Directory{
		url:     DefaultURL,
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.client == nil {
		d.client = &http.Client{Timeout: d.timeout}
	}
	return d
}

// Schemes returns the full reference table, downloading it on first use.
func (d *Directory) Schemes(ctx context.Context) ([]*casfolio.Scheme, error) {
	if err := d.ensure(ctx); err != nil {
		return nil, err
	}
	return d.schemes, nil
}

// SchemeByISIN returns the scheme published under the given growth or
// dividend-reinvestment ISIN. Returns ENOTFOUND if no scheme matches.
func (d *Directory) SchemeByISIN(ctx context.Context, isin string) (*casfolio.Scheme, error) {
	if isin == "" {
		return nil, casfolio.Errorf(casfolio.EINVALID, "ISIN required")
	}
	if err := d.ensure(ctx); err != nil {
		return nil, err
	}
	if s, ok := d.byISIN[isin]; ok {
		return s, nil
	}
	return nil, casfolio.Errorf(casfolio.ENOTFOUND, "scheme for ISIN %q not found", isin)
}

func (d *Directory) ensure(ctx context.Context) error {
	if d.schemes != nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.url, nil)
	if err != nil {
		return err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return casfolio.Errorf(casfolio.EINTERNAL, "AMFI NAV table returned HTTP %d", resp.StatusCode)
	}

	schemes, err := parseTable(resp.Body)
	if err != nil {
		return err
	}

	d.schemes = schemes
	d.byISIN = make(map[string]*casfolio.Scheme, len(schemes)*2)
	for _, s := range schemes {
		if s.ISINGrowth != "" && s.ISINGrowth != "-" {
			d.byISIN[s.ISINGrowth] = s
		}
		if s.ISINDivReinvest != "" && s.ISINDivReinvest != "-" {
			d.byISIN[s.ISINDivReinvest] = s
		}
	}
	return nil
}

// parseTable reads the semicolon-delimited NAV table. The file interleaves
// data rows with AMC section captions and a column header; only lines with
// all six fields are rows.
func parseTable(r io.Reader) ([]*casfolio.Scheme, error) {
	var schemes []*casfolio.Scheme

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, ";") || strings.Contains(line, "Scheme Code") {
			continue
		}
		tokens := strings.Split(line, ";")
		if len(tokens) < 6 {
			continue
		}
		schemes = append(schemes, &casfolio.Scheme{
			Code:            strings.TrimSpace(tokens[0]),
			ISINGrowth:      strings.TrimSpace(tokens[1]),
			ISINDivReinvest: strings.TrimSpace(tokens[2]),
			Name:            strings.TrimSpace(tokens[3]),
			NAV:             strings.TrimSpace(tokens[4]),
			Date:            strings.TrimSpace(tokens[5]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return schemes, nil
}
