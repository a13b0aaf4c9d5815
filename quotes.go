package assets

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/etnz/assets/date"
	"github.com/shopspring/decimal"
)

// Series is a daily series of prices or exchange rates.
type Series = date.History[decimal.Decimal]

// Provider supplies daily quotes.
//
// Implementations fetch over the network or replay recorded data. The engine
// only ever asks for the most recent value on or before a date.
type Provider interface {
	// AdjustedClose returns the adjusted close series of every ticker it
	// could fetch. Tickers that fail are reported in the returned error,
	// alongside the successful series.
	AdjustedClose(ctx context.Context, tickers []string, r date.Range) (map[string]*Series, error)
	// FxRate returns the number of quote currency units per base currency unit.
	FxRate(ctx context.Context, base, quote string, r date.Range) (*Series, error)
}

// ErrNoQuotes reports a fetch that returned no observation.
var ErrNoQuotes = errors.New("no quotes")

// Quotes is the immutable set of prices and exchange rates used by a run.
type Quotes struct {
	home   string
	prices map[string]*Series // by ticker
	rates  map[string]*Series // home units per currency unit, by currency
}

// NewQuotes returns an empty set of quotes for home currency.
func NewQuotes(home string) *Quotes {
	return &Quotes{home: home, prices: make(map[string]*Series), rates: make(map[string]*Series)}
}

// SetPrices records the price series of ticker.
func (q *Quotes) SetPrices(ticker string, s *Series) { q.prices[ticker] = s }

// SetRate records the exchange rate series from currency to the home currency.
func (q *Quotes) SetRate(currency string, s *Series) { q.rates[currency] = s }

// Home returns the home currency.
func (q *Quotes) Home() string { return q.home }

// Prices returns the price series of ticker.
func (q *Quotes) Prices(ticker string) (*Series, bool) {
	s, ok := q.prices[ticker]
	return s, ok
}

// Rate returns the exchange rate series from currency to the home currency.
// The home currency has no series, its rate is always one.
func (q *Quotes) Rate(currency string) (*Series, bool) {
	s, ok := q.rates[currency]
	return s, ok
}

// Tickers returns the tickers with a price series, sorted.
func (q *Quotes) Tickers() []string { return slices.Sorted(maps.Keys(q.prices)) }

// Currencies returns the currencies with a rate series, sorted.
func (q *Quotes) Currencies() []string { return slices.Sorted(maps.Keys(q.rates)) }

// Until returns the quotes known on day: later observations are hidden.
func (q *Quotes) Until(day date.Date) *Quotes {
	u := NewQuotes(q.home)
	for t, s := range q.prices {
		u.prices[t] = s.Until(day)
	}
	for c, s := range q.rates {
		u.rates[c] = s.Until(day)
	}
	return u
}

// FetchQuotes fetches, in a single batch, the prices of tickers and the
// exchange rates of currencies to home over r.
//
// Whatever could be fetched is returned. Failures are joined in err as
// QuoteFetchErrors, so that computations not depending on them can proceed.
func FetchQuotes(ctx context.Context, p Provider, home string, tickers, currencies []string, r date.Range) (*Quotes, error) {
	q := NewQuotes(home)
	var errs []error

	if len(tickers) > 0 {
		prices, err := p.AdjustedClose(ctx, tickers, r)
		for t, s := range prices {
			q.SetPrices(t, s)
		}
		for _, t := range tickers {
			if s, ok := prices[t]; ok && s.Len() > 0 {
				continue
			}
			cause := err
			if cause == nil {
				cause = ErrNoQuotes
			}
			errs = append(errs, &QuoteFetchError{Symbol: t, Range: r, Err: cause})
		}
	}

	for _, cur := range currencies {
		if cur == home {
			continue
		}
		s, err := p.FxRate(ctx, cur, home, r)
		if err == nil && s.Len() == 0 {
			err = ErrNoQuotes
		}
		if err != nil {
			errs = append(errs, &QuoteFetchError{Symbol: cur + home, Range: r, Err: err})
			continue
		}
		q.SetRate(cur, s)
	}
	return q, errors.Join(errs...)
}

// converter turns amounts into the home currency at the rate of a given day.
type converter struct {
	q *Quotes
}

// rateOn returns the home units per unit of currency on day, forward filled.
func (c converter) rateOn(currency string, day date.Date) (decimal.Decimal, error) {
	if currency == c.q.home {
		return decimal.NewFromInt(1), nil
	}
	s, ok := c.q.Rate(currency)
	if !ok {
		return decimal.Zero, &QuoteFetchError{Symbol: currency + c.q.home, Range: date.Range{To: day}, Err: ErrNoQuotes}
	}
	rate, ok := s.ValueAsOf(day)
	if !ok {
		return decimal.Zero, fmt.Errorf("no %s%s rate on or before %s", currency, c.q.home, day)
	}
	return rate, nil
}

// toHome converts m at the rate of day. A positive recorded rate, read from
// the ledger row, takes precedence over quotes.
func (c converter) toHome(m Money, day date.Date, recorded decimal.Decimal) (Money, error) {
	if m.Currency() == c.q.home {
		return m, nil
	}
	if recorded.IsPositive() {
		return m.Convert(recorded, c.q.home), nil
	}
	rate, err := c.rateOn(m.Currency(), day)
	if err != nil {
		return Money{}, err
	}
	return m.Convert(rate, c.q.home), nil
}
