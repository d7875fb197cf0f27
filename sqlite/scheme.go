package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/casfolio/casfolio"
)

// DefaultCacheTTL is how long a downloaded scheme table is served from the
// database before it is fetched again. AMFI publishes NAVs once per day.
const DefaultCacheTTL = 24 * time.Hour

// Compile-time interface verification.
var _ casfolio.SchemeDirectory = (*SchemeCache)(nil)

// SchemeCache implements casfolio.SchemeDirectory by caching an upstream
// directory in SQLite. A fresh cache is served without touching the network;
// a stale cache is refreshed from upstream, and kept as a fallback when the
// upstream fetch fails.
type SchemeCache struct {
	db       *DB
	upstream casfolio.SchemeDirectory
	ttl      time.Duration
	now      func() time.Time
}

// SchemeCacheOption configures a SchemeCache.
type SchemeCacheOption func(*SchemeCache)

// WithTTL sets the cache freshness window. Defaults to DefaultCacheTTL.
func WithTTL(ttl time.Duration) SchemeCacheOption {
	return func(c *SchemeCache) {
		c.ttl = ttl
	}
}

// WithNowFunc overrides the clock, for tests.
func WithNowFunc(now func() time.Time) SchemeCacheOption {
	return func(c *SchemeCache) {
		c.now = now
	}
}

// NewSchemeCache creates a new SchemeCache over the given database and
// upstream directory.
func NewSchemeCache(db *DB, upstream casfolio.SchemeDirectory, opts ...SchemeCacheOption) *SchemeCache {
	c := &SchemeCache{
		db:       db,
		upstream: upstream,
		ttl:      DefaultCacheTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SchemeByISIN returns the cached scheme published under the given ISIN,
// refreshing the cache first when it is stale.
func (c *SchemeCache) SchemeByISIN(ctx context.Context, isin string) (*casfolio.Scheme, error) {
	if isin == "" {
		return nil, casfolio.Errorf(casfolio.EINVALID, "isin required")
	}

	if err := c.ensure(ctx); err != nil {
		return nil, err
	}

	var s casfolio.Scheme
	err := c.db.QueryRowContext(ctx, `
		SELECT code, isin_growth, isin_div_reinvest, name, nav, nav_date
		FROM schemes
		WHERE isin_growth = ? OR isin_div_reinvest = ?
	`, isin, isin).Scan(&s.Code, &s.ISINGrowth, &s.ISINDivReinvest, &s.Name, &s.NAV, &s.Date)

	if err == sql.ErrNoRows {
		return nil, casfolio.Errorf(casfolio.ENOTFOUND, "no scheme found for ISIN %q", isin)
	}
	if err != nil {
		return nil, err
	}

	return &s, nil
}

// Schemes returns the full cached table, refreshing it first when stale.
func (c *SchemeCache) Schemes(ctx context.Context) ([]*casfolio.Scheme, error) {
	if err := c.ensure(ctx); err != nil {
		return nil, err
	}
	return c.load(ctx)
}

// Invalidate marks the cache stale so the next read fetches from upstream.
func (c *SchemeCache) Invalidate(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, "DELETE FROM scheme_meta")
	return err
}

// ensure refreshes the cache from upstream when it is stale or empty. When
// the upstream fetch fails and a previously cached table exists, the stale
// table is kept and served instead.
func (c *SchemeCache) ensure(ctx context.Context) error {
	var fetchedAt string
	err := c.db.QueryRowContext(ctx, "SELECT fetched_at FROM scheme_meta WHERE id = 1").Scan(&fetchedAt)
	if err == nil {
		t, parseErr := time.Parse(time.RFC3339, fetchedAt)
		if parseErr == nil && c.now().Sub(t) < c.ttl {
			return nil
		}
	} else if err != sql.ErrNoRows {
		return err
	}

	schemes, err := c.upstream.Schemes(ctx)
	if err != nil {
		var n int
		if countErr := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schemes").Scan(&n); countErr == nil && n > 0 {
			return nil
		}
		return err
	}

	return c.replace(ctx, schemes)
}

func (c *SchemeCache) replace(ctx context.Context, schemes []*casfolio.Scheme) error {
	if _, err := c.db.ExecContext(ctx, "DELETE FROM schemes"); err != nil {
		return err
	}

	for _, s := range schemes {
		if _, err := c.db.ExecContext(ctx, `
			INSERT INTO schemes (code, isin_growth, isin_div_reinvest, name, nav, nav_date)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(code) DO UPDATE SET
				isin_growth = excluded.isin_growth,
				isin_div_reinvest = excluded.isin_div_reinvest,
				name = excluded.name,
				nav = excluded.nav,
				nav_date = excluded.nav_date
		`, s.Code, s.ISINGrowth, s.ISINDivReinvest, s.Name, s.NAV, s.Date); err != nil {
			return err
		}
	}

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO scheme_meta (id, fetched_at) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET fetched_at = excluded.fetched_at
	`, c.now().UTC().Format(time.RFC3339))
	return err
}

func (c *SchemeCache) load(ctx context.Context) ([]*casfolio.Scheme, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT code, isin_growth, isin_div_reinvest, name, nav, nav_date
		FROM schemes
		ORDER BY code
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schemes []*casfolio.Scheme
	for rows.Next() {
		var s casfolio.Scheme
		if err := rows.Scan(&s.Code, &s.ISINGrowth, &s.ISINDivReinvest, &s.Name, &s.NAV, &s.Date); err != nil {
			return nil, err
		}
		schemes = append(schemes, &s)
	}

	return schemes, rows.Err()
}
