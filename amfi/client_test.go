package amfi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/casfolio/casfolio"
	"github.com/casfolio/casfolio/amfi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTable = `Scheme Code;ISIN Div Payout/ ISIN Growth;ISIN Div Reinvestment;Scheme Name;Net Asset Value;Date

Open Ended Schemes(Debt Scheme - Banking and PSU Fund)

Aditya Birla Sun Life Mutual Fund

119551;INF209KB1ZH2;INF209KB1ZI0;Aditya Birla Sun Life Banking & PSU Debt Fund - DIRECT - IDCW;108.1232;20-Aug-2026
119552;INF209K01YM2;-;Aditya Birla Sun Life Banking & PSU Debt Fund - DIRECT - Growth;345.2171;20-Aug-2026

HDFC Mutual Fund

118955;INF179K01YV8;-;HDFC Flexi Cap Fund - Direct Plan - Growth Option;1854.3340;20-Aug-2026
`

func TestDirectory_SchemeByISIN(t *testing.T) {
	t.Parallel()

	t.Run("resolves growth ISIN", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(sampleTable))
		}))
		defer server.Close()

		dir := amfi.NewDirectory(amfi.WithURL(server.URL))

		s, err := dir.SchemeByISIN(context.Background(), "INF179K01YV8")
		require.NoError(t, err)
		assert.Equal(t, "118955", s.Code)
		assert.Equal(t, "HDFC Flexi Cap Fund - Direct Plan - Growth Option", s.Name)
		assert.Equal(t, "1854.3340", s.NAV)
	})

	t.Run("resolves dividend reinvestment ISIN", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(sampleTable))
		}))
		defer server.Close()

		dir := amfi.NewDirectory(amfi.WithURL(server.URL))

		s, err := dir.SchemeByISIN(context.Background(), "INF209KB1ZI0")
		require.NoError(t, err)
		assert.Equal(t, "119551", s.Code)
	})

	t.Run("returns ENOTFOUND for unknown ISIN", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(sampleTable))
		}))
		defer server.Close()

		dir := amfi.NewDirectory(amfi.WithURL(server.URL))

		_, err := dir.SchemeByISIN(context.Background(), "INF000000000")
		assert.Equal(t, casfolio.ENOTFOUND, casfolio.ErrorCode(err))
	})

	t.Run("returns EINVALID for empty ISIN", func(t *testing.T) {
		t.Parallel()

		dir := amfi.NewDirectory(amfi.WithURL("http://127.0.0.1:0"))

		_, err := dir.SchemeByISIN(context.Background(), "")
		assert.Equal(t, casfolio.EINVALID, casfolio.ErrorCode(err))
	})
}

func TestDirectory_Schemes(t *testing.T) {
	t.Parallel()

	t.Run("parses rows and skips headers and captions", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(sampleTable))
		}))
		defer server.Close()

		dir := amfi.NewDirectory(amfi.WithURL(server.URL))

		schemes, err := dir.Schemes(context.Background())
		require.NoError(t, err)
		require.Len(t, schemes, 3)
		assert.Equal(t, "119551", schemes[0].Code)
		assert.Equal(t, "INF209KB1ZH2", schemes[0].ISINGrowth)
		assert.Equal(t, "INF209KB1ZI0", schemes[0].ISINDivReinvest)
		assert.Equal(t, "20-Aug-2026", schemes[0].Date)
	})

	t.Run("fetches the table only once", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int64
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			_, _ = w.Write([]byte(sampleTable))
		}))
		defer server.Close()

		dir := amfi.NewDirectory(amfi.WithURL(server.URL))

		_, err := dir.Schemes(context.Background())
		require.NoError(t, err)
		_, err = dir.SchemeByISIN(context.Background(), "INF179K01YV8")
		require.NoError(t, err)

		assert.Equal(t, int64(1), hits.Load())
	})

	t.Run("returns EINTERNAL on upstream failure", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		dir := amfi.NewDirectory(amfi.WithURL(server.URL))

		_, err := dir.Schemes(context.Background())
		assert.Equal(t, casfolio.EINTERNAL, casfolio.ErrorCode(err))
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(sampleTable))
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		dir := amfi.NewDirectory(amfi.WithURL(server.URL))

		_, err := dir.Schemes(ctx)
		require.Error(t, err)
	})
}
