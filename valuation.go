package assets

import (
	"errors"
	"maps"
	"slices"

	"github.com/etnz/assets/date"
	"github.com/shopspring/decimal"
)

// ErrNoRate reports an exchange rate missing on a valuation date.
var ErrNoRate = errors.New("no exchange rate")

// ErrNoPrice reports a price missing on a valuation date.
var ErrNoPrice = errors.New("no price")

// ValuationSeries is the home currency value of an account on every date of
// the evaluation calendar.
type ValuationSeries struct {
	Account  string
	Calendar []date.Date
	Values   []Money
	// Estimated marks dates where an externally valued account had no
	// reported snapshot yet and was valued at its cumulative contributions.
	Estimated []bool
}

// Latest returns the value on the last calendar date.
func (v ValuationSeries) Latest() Money {
	if len(v.Values) == 0 {
		return Money{}
	}
	return v.Values[len(v.Values)-1]
}

// At returns the value on day, when day is on the calendar.
func (v ValuationSeries) At(day date.Date) (Money, bool) {
	i, found := slices.BinarySearchFunc(v.Calendar, day, date.Date.Compare)
	if !found {
		return Money{}, false
	}
	return v.Values[i], true
}

// IsEstimated reports whether any date was valued from contributions.
func (v ValuationSeries) IsEstimated() bool { return slices.Contains(v.Estimated, true) }

// alignRate evaluates the rate from currency to the home currency on cal.
func alignRate(q *Quotes, currency string, cal []date.Date) (date.Aligned[decimal.Decimal], error) {
	if currency == q.Home() {
		one := new(Series).Append(cal[0], decimal.NewFromInt(1))
		return date.Align(one, cal), nil
	}
	s, ok := q.Rate(currency)
	if !ok {
		return date.Aligned[decimal.Decimal]{}, &QuoteFetchError{Symbol: currency + q.Home(), Range: date.Range{From: cal[0], To: cal[len(cal)-1]}, Err: ErrNoQuotes}
	}
	return date.Align(s, cal), nil
}

// Valuer computes account valuation series.
type Valuer struct {
	Registry *Registry
	Quotes   *Quotes
	Calendar []date.Date
}

// Value returns the valuation series of every account of l, ordered like the
// registry declares them.
//
// Market valued accounts are worth the sum over their positions of quantity
// times price, converted once to the home currency, every series being
// forward filled onto the calendar. Externally valued accounts are worth the
// sum of their latest reported snapshots or, before the first snapshot, their
// cumulative contributions.
//
// A held instrument without price, or a currency without rate, fails the whole
// valuation with a QuoteFetchError.
func (v Valuer) Value(l *Ledger, held map[PositionKey]*date.History[Quantity]) ([]ValuationSeries, error) {
	byAccount := make(map[string][]QuantitySeries)
	for _, s := range AlignQuantities(held, v.Calendar) {
		byAccount[s.Key.Account] = append(byAccount[s.Key.Account], s)
	}
	currencies := tradeCurrencies(l)

	accounts := l.Accounts()
	slices.SortStableFunc(accounts, func(a, b string) int { return v.Registry.order(a) - v.Registry.order(b) })

	var series []ValuationSeries
	for _, id := range accounts {
		acc, _ := v.Registry.Account(id)
		var (
			s   ValuationSeries
			err error
		)
		if acc.Valuation == ReportedValued {
			s, err = v.reported(l, acc)
		} else {
			s, err = v.market(acc, byAccount[id], currencies)
		}
		if err != nil {
			return nil, err
		}
		series = append(series, s)
	}
	return series, nil
}

func (v Valuer) newSeries(account string) ValuationSeries {
	s := ValuationSeries{
		Account:   account,
		Calendar:  v.Calendar,
		Values:    make([]Money, len(v.Calendar)),
		Estimated: make([]bool, len(v.Calendar)),
	}
	for i := range s.Values {
		s.Values[i] = M(0, v.Quotes.Home())
	}
	return s
}

func (v Valuer) market(acc Account, positions []QuantitySeries, currencies map[PositionKey]string) (ValuationSeries, error) {
	s := v.newSeries(acc.ID)
	for _, pos := range positions {
		if pos.IsFlat() {
			continue
		}
		currency, ok := currencies[pos.Key]
		if !ok {
			currency = acc.Currency
		}
		prices, ok := v.Quotes.Prices(pos.Key.Instrument)
		if !ok {
			return s, &QuoteFetchError{Symbol: pos.Key.Instrument, Range: date.Range{From: v.Calendar[0], To: v.Calendar[len(v.Calendar)-1]}, Err: ErrNoQuotes}
		}
		price := date.Align(prices, v.Calendar)
		rate, err := alignRate(v.Quotes, currency, v.Calendar)
		if err != nil {
			return s, err
		}
		for i, on := range v.Calendar {
			qty := pos.Values[i]
			if qty.IsZero() {
				continue
			}
			p, ok := price.At(i)
			if !ok {
				return s, &QuoteFetchError{Symbol: pos.Key.Instrument, Range: date.Range{From: on, To: on}, Err: ErrNoPrice}
			}
			r, ok := rate.At(i)
			if !ok {
				return s, &QuoteFetchError{Symbol: currency + v.Quotes.Home(), Range: date.Range{From: on, To: on}, Err: ErrNoRate}
			}
			value := M(p, currency).Mul(qty).Convert(r, v.Quotes.Home())
			s.Values[i] = s.Values[i].Add(value)
		}
	}
	return s, nil
}

func (v Valuer) reported(l *Ledger, acc Account) (ValuationSeries, error) {
	s := v.newSeries(acc.ID)

	snapshots := make(map[string]*date.History[Money])
	for e := range l.Valuations() {
		if e.Account != acc.ID {
			continue
		}
		h, ok := snapshots[e.Instrument()]
		if !ok {
			h = new(date.History[Money])
			snapshots[e.Instrument()] = h
		}
		h.Append(e.Date, e.Amount)
	}

	// contributions are converted at the rate of their own day.
	conv := converter{q: v.Quotes}
	contributed := new(date.History[Money])
	total := M(0, v.Quotes.Home())
	for c := range l.Contributions() {
		if c.Account != acc.ID {
			continue
		}
		amount, err := conv.toHome(c.Amount, c.Date, c.Rate)
		if err != nil {
			return s, err
		}
		total = total.Add(amount)
		contributed.Append(c.Date, total)
	}

	rate, err := alignRate(v.Quotes, acc.Currency, v.Calendar)
	if err != nil && len(snapshots) > 0 {
		return s, err
	}
	proxy := date.Align(contributed, v.Calendar)
	var aligned []date.Aligned[Money]
	for _, symbol := range slices.Sorted(maps.Keys(snapshots)) {
		aligned = append(aligned, date.Align(snapshots[symbol], v.Calendar))
	}

	for i, on := range v.Calendar {
		sum, reported := M(0, acc.Currency), false
		for _, a := range aligned {
			if m, ok := a.At(i); ok {
				sum, reported = sum.Add(m), true
			}
		}
		if !reported {
			if c, ok := proxy.At(i); ok {
				s.Values[i], s.Estimated[i] = c, true
			}
			continue
		}
		r, ok := rate.At(i)
		if !ok {
			return s, &QuoteFetchError{Symbol: acc.Currency + v.Quotes.Home(), Range: date.Range{From: on, To: on}, Err: ErrNoRate}
		}
		s.Values[i] = sum.Convert(r, v.Quotes.Home())
	}
	return s, nil
}

// tradeCurrencies returns the currency each position trades in.
func tradeCurrencies(l *Ledger) map[PositionKey]string {
	currencies := make(map[PositionKey]string)
	for t := range l.Trades() {
		currencies[PositionKey{Account: t.Account, Instrument: t.Instrument()}] = t.Price.Currency()
	}
	return currencies
}
