package assets

import (
	"github.com/etnz/assets/date"
	"github.com/shopspring/decimal"
)

// PriceColumn is the month end price of an instrument, in its own currency.
type PriceColumn struct {
	Instrument string                        `json:"instrument"`
	Label      string                        `json:"label"`
	Currency   string                        `json:"currency"`
	Prices     date.Aligned[decimal.Decimal] `json:"-"`
}

// PriceTable is the month end price of every instrument traded up to the
// as-of date.
type PriceTable struct {
	Calendar []date.Date   `json:"calendar"`
	Columns  []PriceColumn `json:"columns"`
}

// Row returns the prices on the i-th calendar date; nil where unknown.
func (t PriceTable) Row(i int) []*decimal.Decimal {
	row := make([]*decimal.Decimal, len(t.Columns))
	for j, c := range t.Columns {
		if v, ok := c.Prices.At(i); ok {
			row[j] = &v
		}
	}
	return row
}

// Prices evaluates the price of every traded instrument on cal.
// Instruments without quotes are skipped.
func Prices(reg *Registry, l *Ledger, q *Quotes, cal []date.Date) PriceTable {
	t := PriceTable{Calendar: cal}
	seen := make(map[string]bool)
	for _, pos := range SortedPositions(positionsOf(l)) {
		if seen[pos.Instrument] {
			continue
		}
		seen[pos.Instrument] = true
		s, ok := q.Prices(pos.Instrument)
		if !ok {
			continue
		}
		t.Columns = append(t.Columns, PriceColumn{
			Instrument: pos.Instrument,
			Label:      instrumentLabel(reg, pos.Instrument, pos.Symbol),
			Currency:   pos.Currency,
			Prices:     date.Align(s, cal),
		})
	}
	return t
}

// positionsOf returns an empty position for every instrument traded in l.
func positionsOf(l *Ledger) map[PositionKey]*Position {
	positions := make(map[PositionKey]*Position)
	for t := range l.Trades() {
		key := PositionKey{Account: t.Account, Instrument: t.Instrument()}
		positions[key] = &Position{Account: t.Account, Instrument: key.Instrument, Symbol: t.Symbol, Currency: t.Price.Currency()}
	}
	return positions
}
