package casfolio

import (
	"context"
	"regexp"
)

var isinFormat = regexp.MustCompile(`^INF[A-Z0-9]{9}$`)

// IsISIN reports whether s looks like a mutual fund ISIN.
func IsISIN(s string) bool {
	return isinFormat.MatchString(s)
}

// Scheme is one row of the AMFI NAV reference table. Fields are kept as
// published; NAV and Date are display strings, not parsed values.
type Scheme struct {
	Code            string `json:"code"`
	ISINGrowth      string `json:"isinGrowth"`
	ISINDivReinvest string `json:"isinDivReinvest"`
	Name            string `json:"name"`
	NAV             string `json:"nav"`
	Date            string `json:"date"`
}

// MatchesISIN reports whether the scheme is published under the given ISIN.
func (s *Scheme) MatchesISIN(isin string) bool {
	if isin == "" {
		return false
	}
	return s.ISINGrowth == isin || s.ISINDivReinvest == isin
}

// SchemeDirectory provides access to the AMFI scheme reference table.
type SchemeDirectory interface {
	// SchemeByISIN returns the scheme published under the given growth or
	// dividend-reinvestment ISIN. Returns ENOTFOUND if no scheme matches.
	SchemeByISIN(ctx context.Context, isin string) (*Scheme, error)

	// Schemes returns the full reference table.
	Schemes(ctx context.Context) ([]*Scheme, error)
}

// SchemeMatcher finds the scheme whose name best matches a fund name
// extracted from a statement. Used as a fallback when ISIN lookup fails.
type SchemeMatcher interface {
	// BestMatch returns the closest scheme and true, or nil and false when
	// no scheme is close enough to trust.
	BestMatch(name string, schemes []*Scheme) (*Scheme, bool)
}
