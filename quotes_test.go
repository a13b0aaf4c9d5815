package assets

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/etnz/assets/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider serves quotes from memory and counts calls.
type fakeProvider struct {
	prices map[string]*Series
	rates  map[string]*Series // by base currency
	fail   map[string]bool
	calls  int
}

func (f *fakeProvider) AdjustedClose(ctx context.Context, tickers []string, r date.Range) (map[string]*Series, error) {
	f.calls++
	out := make(map[string]*Series)
	var errs []error
	for _, t := range tickers {
		if f.fail[t] {
			errs = append(errs, fmt.Errorf("%s: service unavailable", t))
			continue
		}
		if s, ok := f.prices[t]; ok {
			out[t] = s
		}
	}
	return out, errors.Join(errs...)
}

func (f *fakeProvider) FxRate(ctx context.Context, base, quote string, r date.Range) (*Series, error) {
	f.calls++
	if f.fail[base] {
		return nil, errors.New("service unavailable")
	}
	return f.rates[base], nil
}

func TestFetchQuotes(t *testing.T) {
	p := &fakeProvider{
		prices: map[string]*Series{
			"AAPL":      series("2022-01-03", 100.0),
			"005930.KS": series("2022-01-03", 78000.0),
			"EMPTY":     new(Series),
		},
		rates: map[string]*Series{"USD": series("2022-01-01", 1200.0)},
		fail:  map[string]bool{"MSFT": true, "EUR": true},
	}
	r := date.Range{From: d("2022-01-01"), To: d("2022-01-31")}
	q, err := FetchQuotes(context.Background(), p, "KRW", []string{"005930.KS", "AAPL", "EMPTY", "MSFT", "UNKNOWN"}, []string{"KRW", "USD", "EUR"}, r)
	require.Error(t, err)

	assert.Equal(t, []string{"005930.KS", "AAPL", "EMPTY"}, q.Tickers())
	assert.Equal(t, []string{"USD"}, q.Currencies())
	assert.Equal(t, 3, p.calls, "one batch for prices, one call per foreign currency")

	var failed []string
	for _, e := range err.(interface{ Unwrap() []error }).Unwrap() {
		var qerr *QuoteFetchError
		require.True(t, errors.As(e, &qerr))
		failed = append(failed, qerr.Symbol)
	}
	assert.Equal(t, []string{"EMPTY", "MSFT", "UNKNOWN", "EURKRW"}, failed)
}

func TestQuotesUntil(t *testing.T) {
	q := NewQuotes("KRW")
	q.SetPrices("AAPL", series("2022-01-03", 100.0, "2022-02-03", 110.0))
	q.SetRate("USD", series("2022-01-01", 1200.0, "2022-02-01", 1300.0))

	u := q.Until(d("2022-01-31"))
	s, ok := u.Prices("AAPL")
	require.True(t, ok)
	assert.Equal(t, 1, s.Len())
	rate, _ := u.Rate("USD")
	last, v := rate.Latest()
	assert.Equal(t, d("2022-01-01"), last)
	assert.True(t, v.Equal(dec(1200)))

	full, _ := q.Prices("AAPL")
	assert.Equal(t, 2, full.Len(), "the original is untouched")
}

func TestConverter(t *testing.T) {
	q := NewQuotes("KRW")
	q.SetRate("USD", series("2022-01-03", 1200.0))
	c := converter{q: q}

	got, err := c.toHome(USD(10), d("2022-01-05"), dec(0))
	require.NoError(t, err)
	assertMoney(t, KRW(12000), got)

	got, err = c.toHome(USD(10), d("2022-01-05"), dec(1100))
	require.NoError(t, err)
	assertMoney(t, KRW(11000), got, "recorded rate wins")

	got, err = c.toHome(KRW(10), d("2022-01-05"), dec(1100))
	require.NoError(t, err)
	assertMoney(t, KRW(10), got, "home currency is never converted")

	_, err = c.toHome(USD(10), d("2022-01-02"), dec(0))
	assert.Error(t, err, "no rate before the first observation")

	_, err = c.toHome(M(10, "EUR"), d("2022-01-05"), dec(0))
	var qerr *QuoteFetchError
	assert.True(t, errors.As(err, &qerr))
}
