package quotestore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/etnz/assets"
	"github.com/etnz/assets/date"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "quotes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// series builds a series from day, value pairs.
func series(pairs ...string) *assets.Series {
	s := new(assets.Series)
	for i := 0; i < len(pairs); i += 2 {
		s.Append(date.MustParse(pairs[i]), decimal.RequireFromString(pairs[i+1]))
	}
	return s
}

// memory is an in memory provider.
type memory struct {
	prices map[string]*assets.Series
	rates  map[string]*assets.Series
}

func (m memory) AdjustedClose(ctx context.Context, tickers []string, r date.Range) (map[string]*assets.Series, error) {
	out := make(map[string]*assets.Series)
	var errs []error
	for _, t := range tickers {
		if s, ok := m.prices[t]; ok {
			out[t] = s
		} else {
			errs = append(errs, errors.New(t+": unknown"))
		}
	}
	return out, errors.Join(errs...)
}

func (m memory) FxRate(ctx context.Context, base, quote string, r date.Range) (*assets.Series, error) {
	if s, ok := m.rates[base+quote]; ok {
		return s, nil
	}
	return nil, errors.New("unknown pair")
}

func TestSaveLoad(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, KindPrice, "AAPL", series("2022-01-03", "179.95", "2022-01-04", "177.66")))
	require.NoError(t, s.Save(ctx, KindPrice, "AAPL", series("2022-01-04", "177.70", "2022-01-05", "172.99")), "overlaps are replaced")

	got, err := s.Load(ctx, KindPrice, "AAPL", date.Range{})
	require.NoError(t, err)
	assert.Equal(t, 3, got.Len())
	v, _ := got.Get(date.New(2022, 1, 4))
	assert.Equal(t, "177.7", v.String(), "decimals are kept exact")

	got, err = s.Load(ctx, KindPrice, "AAPL", date.Range{From: date.New(2022, 1, 4), To: date.New(2022, 1, 4)})
	require.NoError(t, err)
	assert.Equal(t, 1, got.Len())

	symbols, err := s.Symbols(ctx, KindPrice)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL"}, symbols)
}

func TestRecorderThenOffline(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	live := memory{
		prices: map[string]*assets.Series{"AAPL": series("2022-01-03", "179.95")},
		rates:  map[string]*assets.Series{"USDKRW": series("2022-01-03", "1188.5")},
	}
	rec := &Recorder{Provider: live, Store: s, Log: zerolog.Nop()}
	r := date.Range{From: date.New(2022, 1, 1), To: date.New(2022, 1, 31)}

	q, err := assets.FetchQuotes(ctx, rec, "KRW", []string{"AAPL", "MSFT"}, []string{"USD"}, r)
	require.Error(t, err, "MSFT is unknown")
	assert.Equal(t, []string{"AAPL"}, q.Tickers())

	// replay without network
	q, err = assets.FetchQuotes(ctx, s, "KRW", []string{"AAPL"}, []string{"USD"}, r)
	require.NoError(t, err)
	prices, ok := q.Prices("AAPL")
	require.True(t, ok)
	v, _ := prices.ValueAsOf(date.New(2022, 1, 31))
	assert.Equal(t, "179.95", v.String())
	rate, ok := q.Rate("USD")
	require.True(t, ok)
	v, _ = rate.ValueAsOf(date.New(2022, 1, 31))
	assert.Equal(t, "1188.5", v.String())
}

func TestOfflineMissing(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	prices, err := s.AdjustedClose(ctx, []string{"AAPL"}, date.Range{})
	assert.ErrorIs(t, err, ErrNotRecorded)
	assert.Empty(t, prices)

	_, err = s.FxRate(ctx, "USD", "KRW", date.Range{})
	assert.ErrorIs(t, err, ErrNotRecorded)
}
