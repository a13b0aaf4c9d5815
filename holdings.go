package assets

import (
	"cmp"
	"maps"
	"slices"

	"github.com/etnz/assets/date"
	"github.com/shopspring/decimal"
)

// Holding is an open position on the as-of date, in the home currency.
type Holding struct {
	Account    string          `json:"account"`
	Instrument string          `json:"instrument"`
	Label      string          `json:"label"`
	Quantity   Quantity        `json:"quantity"`
	Price      Money           `json:"price"` // latest price, home currency
	Cost       Money           `json:"cost"`
	Valuation  Money           `json:"valuation"`
	Profit     Money           `json:"profit"`
	Weight     decimal.Decimal `json:"weight"`
	// Return is Profit / Cost, nil when the cost is zero.
	Return *decimal.Decimal `json:"return"`
	// DayChange is the relative change from the previous price observation,
	// nil when there is none.
	DayChange *decimal.Decimal `json:"day_change"`
	Reported  bool             `json:"reported,omitempty"`
}

// HoldingsTable is the snapshot of every open position, largest first.
type HoldingsTable struct {
	AsOf  date.Date `json:"as_of"`
	Rows  []Holding `json:"rows"`
	Total Holding   `json:"total"`
}

// Holdings returns the holdings snapshot on asOf.
//
// Market valued positions are priced at their latest price and exchange rate.
// Externally valued accounts contribute one row per instrument, valued at its
// latest snapshot and costed at the contributions attributed to it. Rows
// worth nothing are dropped; when none remains the snapshot fails with
// ErrNoData.
func Holdings(reg *Registry, l *Ledger, q *Quotes, positions map[PositionKey]*Position, asOf date.Date) (HoldingsTable, error) {
	fail := func(h Holding, on date.Date, err error) (HoldingsTable, error) {
		return HoldingsTable{}, &ComputationError{Report: "holdings", Account: h.Account, Instrument: h.Label, Date: on, Err: err}
	}
	conv := converter{q: q}
	home := q.Home()
	t := HoldingsTable{AsOf: asOf}

	for _, p := range SortedPositions(positions) {
		if !p.IsOpen() {
			continue
		}
		if acc, _ := reg.Account(p.Account); acc.Valuation == ReportedValued {
			continue
		}
		h := Holding{Account: p.Account, Instrument: p.Instrument, Label: instrumentLabel(reg, p.Instrument, p.Symbol), Quantity: p.Quantity, Cost: p.Cost}
		prices, _ := q.Prices(p.Instrument)
		last, ok := prices.ValueAsOf(asOf)
		if !ok {
			return fail(h, asOf, &QuoteFetchError{Symbol: p.Instrument, Range: date.Range{From: asOf, To: asOf}, Err: ErrNoPrice})
		}
		rate, err := conv.rateOn(p.Currency, asOf)
		if err != nil {
			return fail(h, asOf, err)
		}
		h.Price = M(last, p.Currency).Convert(rate, home)
		h.Valuation = h.Price.Mul(p.Quantity)
		if prev, ok := prices.PriorAsOf(asOf); ok && !prev.IsZero() {
			change := last.Sub(prev).Div(prev)
			h.DayChange = &change
		}
		t.Rows = append(t.Rows, h)
	}

	reported, err := reportedHoldings(reg, l, conv, asOf)
	if err != nil {
		return fail(Holding{}, asOf, err)
	}
	t.Rows = append(t.Rows, reported...)

	t.Rows = slices.DeleteFunc(t.Rows, func(h Holding) bool { return !h.Valuation.IsPositive() })
	if len(t.Rows) == 0 {
		return fail(Holding{}, asOf, ErrNoData)
	}
	slices.SortStableFunc(t.Rows, func(a, b Holding) int { return b.Valuation.Amount().Cmp(a.Valuation.Amount()) })

	t.Total = Holding{Instrument: "total", Label: "Total", Cost: M(0, home), Valuation: M(0, home)}
	for _, h := range t.Rows {
		t.Total.Cost = t.Total.Cost.Add(h.Cost)
		t.Total.Valuation = t.Total.Valuation.Add(h.Valuation)
	}
	for i := range t.Rows {
		h := &t.Rows[i]
		h.Profit = h.Valuation.Sub(h.Cost)
		h.Return = profitRate(h.Profit, h.Cost)
		h.Weight = h.Valuation.Ratio(t.Total.Valuation)
	}
	t.Total.Profit = t.Total.Valuation.Sub(t.Total.Cost)
	t.Total.Return = profitRate(t.Total.Profit, t.Total.Cost)
	t.Total.Weight = decimal.NewFromInt(1)
	return t, nil
}

// reportedHoldings returns a row per instrument of externally valued accounts.
func reportedHoldings(reg *Registry, l *Ledger, conv converter, asOf date.Date) ([]Holding, error) {
	home := conv.q.Home()
	latest := make(map[PositionKey]Valuation)
	for v := range l.Valuations() {
		if acc, _ := reg.Account(v.Account); acc.Valuation != ReportedValued {
			continue
		}
		latest[PositionKey{Account: v.Account, Instrument: v.Instrument()}] = v
	}
	invested := make(map[PositionKey]Money)
	for c := range l.Contributions() {
		key := PositionKey{Account: c.Account, Instrument: c.Instrument()}
		if _, ok := latest[key]; !ok {
			continue
		}
		amount, err := conv.toHome(c.Amount, c.Date, c.Rate)
		if err != nil {
			return nil, err
		}
		invested[key] = M(0, home).Add(invested[key]).Add(amount)
	}

	var rows []Holding
	for _, key := range slices.SortedFunc(maps.Keys(latest), comparePositionKeys) {
		v := latest[key]
		value, err := conv.toHome(v.Amount, asOf, decimal.Zero)
		if err != nil {
			return nil, err
		}
		rows = append(rows, Holding{
			Account:    key.Account,
			Instrument: key.Instrument,
			Label:      instrumentLabel(reg, key.Instrument, v.Symbol),
			Cost:       M(0, home).Add(invested[key]),
			Valuation:  value,
			Reported:   true,
		})
	}
	return rows, nil
}

// instrumentLabel returns the display name of an instrument key.
func instrumentLabel(reg *Registry, key, symbol string) string {
	if inst, ok := reg.Resolve(key); ok {
		return inst.Label()
	}
	return cmp.Or(symbol, key)
}
