package casfolio

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/shopspring/decimal"
)

// DateLayout is the date format used in CAS statements (e.g. "02-Jan-2006").
const DateLayout = "02-Jan-2006"

// Date wraps time.Time so that CSV, JSON, and text output all use the CAS
// statement layout instead of RFC 3339.
type Date struct {
	time.Time
}

// ParseDate parses a CAS statement date such as "15-Feb-2024".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		// Statements occasionally print single-digit days unpadded.
		t, err = time.Parse("2-Jan-2006", strings.TrimSpace(s))
	}
	if err != nil {
		return Date{}, Errorf(EINVALID, "invalid statement date %q", s)
	}
	return Date{t}, nil
}

// String returns the date in the CAS statement layout.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalCSV implements gocsv marshaling.
func (d Date) MarshalCSV() (string, error) {
	return d.String(), nil
}

// UnmarshalCSV implements gocsv unmarshaling.
func (d *Date) UnmarshalCSV(s string) error {
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// TxnType classifies a transaction row.
type TxnType string

// Transaction direction constants.
const (
	TxnBuy  TxnType = "Buy"
	TxnSell TxnType = "Sell"
)

// Transaction represents a single statement row resolved against the scheme
// reference table. Sell rows store positive magnitudes; the direction is
// carried by Txn.
type Transaction struct {
	FundName     string          `json:"fundName" csv:"fund_name"`
	ISIN         string          `json:"isin" csv:"isin"`
	SchemeCode   string          `json:"schemeCode" csv:"scheme_code"`
	FolioNumber  string          `json:"folioNum" csv:"folio_num"`
	Date         Date            `json:"date" csv:"date"`
	Txn          TxnType         `json:"txn" csv:"txn"`
	Amount       decimal.Decimal `json:"amount" csv:"amount"`
	Units        decimal.Decimal `json:"units" csv:"units"`
	NAV          decimal.Decimal `json:"nav" csv:"nav"`
	BalanceUnits decimal.Decimal `json:"balanceUnits" csv:"balance_units"`
}

// Validate returns an error if the transaction contains invalid fields.
func (t *Transaction) Validate() error {
	if t.Date.IsZero() {
		return Errorf(EINVALID, "transaction date required")
	}
	if t.Txn != TxnBuy && t.Txn != TxnSell {
		return Errorf(EINVALID, "unknown transaction type %q", t.Txn)
	}
	return nil
}

// Fingerprint returns a stable hex identifier derived from the fields that
// identify a statement row. Two extractions of the same statement produce
// the same fingerprints.
func (t *Transaction) Fingerprint() string {
	h := xxhash.New()
	for _, part := range []string{
		t.FolioNumber,
		t.ISIN,
		t.Date.String(),
		string(t.Txn),
		t.Amount.String(),
		t.Units.String(),
	} {
		_, _ = h.WriteString(part)
		_, _ = h.WriteString("\x00")
	}
	sum := h.Sum64()
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(sum >> (56 - 8*i))
	}
	return hex.EncodeToString(b)
}
