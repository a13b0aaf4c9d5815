package eodhd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/etnz/assets/date"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixtures = map[string]string{
	"/eod/AAPL.US": `[
		{"date":"2022-01-03","open":177.8,"high":182.9,"low":177.7,"close":182.01,"adjusted_close":179.95,"volume":104487900},
		{"date":"2022-01-04","open":182.6,"high":182.9,"low":179.1,"close":179.7,"adjusted_close":177.66,"volume":99310400}
	]`,
	"/eod/005930.KO": `[
		{"date":"2022-01-04","open":78800,"high":79200,"low":78300,"close":78700,"adjusted_close":null,"volume":12427416}
	]`,
	"/eod/USDKRW.FOREX": `[
		{"date":"2022-01-03","open":1188.5,"high":1195.2,"low":1187.9,"close":1193.6,"adjusted_close":1193.6,"volume":0}
	]`,
}

// newServer serves bars and counts the requests it answers.
func newServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	hits := new(atomic.Int32)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Query().Get("api_token") != "secret" || r.URL.Query().Get("fmt") != "json" {
			http.Error(w, "Unauthenticated", http.StatusUnauthorized)
			return
		}
		body, ok := fixtures[r.URL.Path]
		if !ok {
			http.Error(w, "Ticker Not Found.", http.StatusNotFound)
			return
		}
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, hits
}

var january = date.Range{From: date.New(2022, 1, 1), To: date.New(2022, 1, 31)}

func TestSymbol(t *testing.T) {
	tests := []struct{ ticker, want string }{
		{"AAPL", "AAPL.US"},
		{"005930.KS", "005930.KO"},
		{"091990.KQ", "091990.KQ"},
		{"VOD.L", "VOD.LSE"},
		{"MC.PA", "MC.PA"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Symbol(tt.ticker), tt.ticker)
	}
}

func TestAdjustedClose(t *testing.T) {
	srv, _ := newServer(t)
	c := NewClient("secret", WithBaseURL(srv.URL), WithRateLimit(0))

	prices, err := c.AdjustedClose(context.Background(), []string{"AAPL", "005930.KS", "NOPE"}, january)
	require.Error(t, err)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "/eod/NOPE.US", apiErr.Endpoint)

	require.Contains(t, prices, "AAPL")
	assert.Equal(t, 2, prices["AAPL"].Len())
	v, ok := prices["AAPL"].ValueAsOf(date.New(2022, 1, 31))
	require.True(t, ok)
	assert.True(t, v.Equal(decimal.RequireFromString("177.66")), "adjusted close, got %v", v)

	v, ok = prices["005930.KS"].ValueAsOf(date.New(2022, 1, 4))
	require.True(t, ok)
	assert.True(t, v.Equal(decimal.NewFromInt(78700)), "close when no adjusted close, got %v", v)
	assert.NotContains(t, prices, "NOPE")
}

func TestFxRate(t *testing.T) {
	srv, _ := newServer(t)
	c := NewClient("secret", WithBaseURL(srv.URL))

	rate, err := c.FxRate(context.Background(), "USD", "KRW", january)
	require.NoError(t, err)
	day, v := rate.Latest()
	assert.Equal(t, date.New(2022, 1, 3), day)
	assert.True(t, v.Equal(decimal.RequireFromString("1193.6")))

	_, err = c.FxRate(context.Background(), "EUR", "KRW", january)
	assert.Error(t, err)
}

func TestUnauthorized(t *testing.T) {
	srv, _ := newServer(t)
	c := NewClient("wrong", WithBaseURL(srv.URL))
	_, err := c.EOD(context.Background(), "AAPL.US", january)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Unauthenticated", apiErr.Message)
}

func TestDiskCache(t *testing.T) {
	srv, hits := newServer(t)
	c := NewClient("secret", WithBaseURL(srv.URL), WithCacheDir(t.TempDir()))

	for range 2 {
		b, err := c.EOD(context.Background(), "AAPL.US", january)
		require.NoError(t, err)
		assert.Len(t, b, 2)
	}
	assert.EqualValues(t, 1, hits.Load(), "second request served from disk")

	for range 2 {
		_, err := c.EOD(context.Background(), "NOPE.US", january)
		require.Error(t, err)
	}
	assert.EqualValues(t, 3, hits.Load(), "errors are not cached")
}
