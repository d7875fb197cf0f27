// Package fuzzy provides a SchemeMatcher built on lithammer/fuzzysearch.
// It backstops ISIN resolution: statements occasionally carry ISINs that
// are missing from the AMFI table (or none at all), but the fund name still
// identifies the scheme.
package fuzzy

import (
	"strings"

	"github.com/casfolio/casfolio"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// DefaultMaxDistance is the highest Levenshtein distance accepted as a
// trustworthy match. Statement fund names often omit the whole plan and
// option suffix, which alone costs a few dozen edits against the AMFI name.
const DefaultMaxDistance = 40

// Ensure Matcher implements casfolio.SchemeMatcher at compile time.
var _ casfolio.SchemeMatcher = (*Matcher)(nil)

// Matcher ranks scheme names against an extracted fund name using
// normalized, case-folded fuzzy matching.
type Matcher struct {
	maxDistance int
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithMaxDistance sets the acceptance threshold.
// Defaults to DefaultMaxDistance if not specified.
func WithMaxDistance(distance int) Option {
	return func(m *Matcher) {
		m.maxDistance = distance
	}
}

// NewMatcher creates a new Matcher.
func NewMatcher(opts ...Option) *Matcher {
	m := &Matcher{maxDistance: DefaultMaxDistance}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// BestMatch returns the scheme whose name is closest to the given fund
// name, or false when nothing ranks under the distance threshold.
func (m *Matcher) BestMatch(name string, schemes []*casfolio.Scheme) (*casfolio.Scheme, bool) {
	name = strings.TrimSpace(name)
	if name == "" || len(schemes) == 0 {
		return nil, false
	}

	targets := make([]string, len(schemes))
	for i, s := range schemes {
		targets[i] = s.Name
	}

	ranks := fuzzy.RankFindNormalizedFold(name, targets)
	if len(ranks) == 0 {
		return nil, false
	}

	best := ranks[0]
	for _, r := range ranks[1:] {
		if r.Distance < best.Distance {
			best = r
		}
	}
	if best.Distance > m.maxDistance {
		return nil, false
	}
	return schemes[best.OriginalIndex], true
}
