package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/casfolio/casfolio"
	"github.com/casfolio/casfolio/mock"
	"github.com/casfolio/casfolio/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustOpenDB returns an open in-memory database, closed on test cleanup.
func mustOpenDB(t *testing.T) *sqlite.DB {
	t.Helper()

	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() {
		assert.NoError(t, db.Close())
	})
	return db
}

func upstreamWith(schemes []*casfolio.Scheme) *mock.SchemeDirectory {
	return &mock.SchemeDirectory{
		SchemesFn: func(ctx context.Context) ([]*casfolio.Scheme, error) {
			return schemes, nil
		},
	}
}

func testSchemes() []*casfolio.Scheme {
	return []*casfolio.Scheme{
		{Code: "118955", ISINGrowth: "INF179K01YV8", ISINDivReinvest: "-", Name: "HDFC Flexi Cap Fund - Direct Plan - Growth Option", NAV: "1854.3340", Date: "20-Aug-2026"},
		{Code: "119551", ISINGrowth: "INF209KB1ZH2", ISINDivReinvest: "INF209KB1ZI0", Name: "Aditya Birla Sun Life Banking & PSU Debt Fund - DIRECT - IDCW", NAV: "108.1232", Date: "20-Aug-2026"},
	}
}

func TestSchemeCache_SchemeByISIN(t *testing.T) {
	t.Parallel()

	t.Run("populates from upstream on first lookup", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		cache := sqlite.NewSchemeCache(db, upstreamWith(testSchemes()))

		s, err := cache.SchemeByISIN(context.Background(), "INF179K01YV8")
		require.NoError(t, err)
		assert.Equal(t, "118955", s.Code)
		assert.Equal(t, "HDFC Flexi Cap Fund - Direct Plan - Growth Option", s.Name)
	})

	t.Run("resolves dividend reinvestment ISIN", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		cache := sqlite.NewSchemeCache(db, upstreamWith(testSchemes()))

		s, err := cache.SchemeByISIN(context.Background(), "INF209KB1ZI0")
		require.NoError(t, err)
		assert.Equal(t, "119551", s.Code)
	})

	t.Run("returns ENOTFOUND for unknown ISIN", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		cache := sqlite.NewSchemeCache(db, upstreamWith(testSchemes()))

		_, err := cache.SchemeByISIN(context.Background(), "INF000000000")
		assert.Equal(t, casfolio.ENOTFOUND, casfolio.ErrorCode(err))
	})

	t.Run("returns EINVALID for empty ISIN", func(t *testing.T) {
		t.Parallel()

		db := mustOpenDB(t)
		cache := sqlite.NewSchemeCache(db, upstreamWith(testSchemes()))

		_, err := cache.SchemeByISIN(context.Background(), "")
		assert.Equal(t, casfolio.EINVALID, casfolio.ErrorCode(err))
	})
}

func TestSchemeCache_Schemes(t *testing.T) {
	t.Parallel()

	t.Run("serves a fresh cache without refetching", func(t *testing.T) {
		t.Parallel()

		var fetches int
		upstream := &mock.SchemeDirectory{
			SchemesFn: func(ctx context.Context) ([]*casfolio.Scheme, error) {
				fetches++
				return testSchemes(), nil
			},
		}

		db := mustOpenDB(t)
		cache := sqlite.NewSchemeCache(db, upstream)

		_, err := cache.Schemes(context.Background())
		require.NoError(t, err)
		_, err = cache.Schemes(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 1, fetches)
	})

	t.Run("refetches after the TTL elapses", func(t *testing.T) {
		t.Parallel()

		var fetches int
		upstream := &mock.SchemeDirectory{
			SchemesFn: func(ctx context.Context) ([]*casfolio.Scheme, error) {
				fetches++
				return testSchemes(), nil
			},
		}

		now := time.Now()
		db := mustOpenDB(t)
		cache := sqlite.NewSchemeCache(db, upstream,
			sqlite.WithTTL(time.Hour),
			sqlite.WithNowFunc(func() time.Time { return now }),
		)

		_, err := cache.Schemes(context.Background())
		require.NoError(t, err)

		now = now.Add(2 * time.Hour)

		_, err = cache.Schemes(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 2, fetches)
	})

	t.Run("serves a stale cache when upstream fails", func(t *testing.T) {
		t.Parallel()

		var fail bool
		upstream := &mock.SchemeDirectory{
			SchemesFn: func(ctx context.Context) ([]*casfolio.Scheme, error) {
				if fail {
					return nil, casfolio.Errorf(casfolio.EINTERNAL, "upstream down")
				}
				return testSchemes(), nil
			},
		}

		now := time.Now()
		db := mustOpenDB(t)
		cache := sqlite.NewSchemeCache(db, upstream,
			sqlite.WithTTL(time.Hour),
			sqlite.WithNowFunc(func() time.Time { return now }),
		)

		_, err := cache.Schemes(context.Background())
		require.NoError(t, err)

		fail = true
		now = now.Add(2 * time.Hour)

		schemes, err := cache.Schemes(context.Background())
		require.NoError(t, err)
		assert.Len(t, schemes, 2)
	})

	t.Run("fails when upstream fails and the cache is empty", func(t *testing.T) {
		t.Parallel()

		upstream := &mock.SchemeDirectory{
			SchemesFn: func(ctx context.Context) ([]*casfolio.Scheme, error) {
				return nil, casfolio.Errorf(casfolio.EINTERNAL, "upstream down")
			},
		}

		db := mustOpenDB(t)
		cache := sqlite.NewSchemeCache(db, upstream)

		_, err := cache.Schemes(context.Background())
		assert.Equal(t, casfolio.EINTERNAL, casfolio.ErrorCode(err))
	})
}

func TestSchemeCache_Invalidate(t *testing.T) {
	t.Parallel()

	var fetches int
	upstream := &mock.SchemeDirectory{
		SchemesFn: func(ctx context.Context) ([]*casfolio.Scheme, error) {
			fetches++
			return testSchemes(), nil
		},
	}

	db := mustOpenDB(t)
	cache := sqlite.NewSchemeCache(db, upstream)

	_, err := cache.Schemes(context.Background())
	require.NoError(t, err)

	require.NoError(t, cache.Invalidate(context.Background()))

	_, err = cache.Schemes(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, fetches)
}
