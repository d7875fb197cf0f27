package main

import (
	"fmt"

	"github.com/casfolio/casfolio"
)

// Run executes the schemes command.
func (c *SchemesCmd) Run(deps *Dependencies) error {
	scheme, err := c.find(deps)
	if err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Code:        %s\n", scheme.Code)
	fmt.Fprintf(deps.Stdout, "Name:        %s\n", scheme.Name)
	fmt.Fprintf(deps.Stdout, "ISIN growth: %s\n", scheme.ISINGrowth)
	fmt.Fprintf(deps.Stdout, "ISIN reinv:  %s\n", scheme.ISINDivReinvest)
	fmt.Fprintf(deps.Stdout, "NAV:         %s (%s)\n", scheme.NAV, scheme.Date)

	return nil
}

func (c *SchemesCmd) find(deps *Dependencies) (*casfolio.Scheme, error) {
	if casfolio.IsISIN(c.Query) {
		return deps.Schemes.SchemeByISIN(deps.Ctx, c.Query)
	}

	schemes, err := deps.Schemes.Schemes(deps.Ctx)
	if err != nil {
		return nil, err
	}
	if scheme, ok := deps.Matcher.BestMatch(c.Query, schemes); ok {
		return scheme, nil
	}
	return nil, casfolio.Errorf(casfolio.ENOTFOUND, "no scheme matches %q", c.Query)
}
