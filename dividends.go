package assets

import (
	"slices"

	"github.com/etnz/assets/date"
)

// DividendPivot is the monthly dividend income per instrument, in the home
// currency. Only months and instruments with some income are kept.
type DividendPivot struct {
	Window      date.Range  `json:"window"`
	Months      []date.Date `json:"months"`      // first day of each month
	Instruments []string    `json:"instruments"` // display labels, sorted
	Cells       [][]Money   `json:"cells"`       // Cells[month][instrument]
}

// Empty reports whether no dividend was received in the window.
func (p DividendPivot) Empty() bool { return len(p.Months) == 0 }

// MonthTotal returns the income of month i.
func (p DividendPivot) MonthTotal(i int) Money {
	var total Money
	for _, m := range p.Cells[i] {
		total = total.Add(m)
	}
	return total
}

// InstrumentTotal returns the income of instrument j over the window.
func (p DividendPivot) InstrumentTotal(j int) Money {
	var total Money
	for _, row := range p.Cells {
		total = total.Add(row[j])
	}
	return total
}

// DividendWindow returns the trailing window of the pivot on asOf: from the
// first day of the same month a year earlier up to asOf.
func DividendWindow(asOf date.Date) date.Range {
	return date.Range{From: asOf.StartOf(date.Monthly).AddMonth(-12), To: asOf}
}

// Dividends pivots the positive dividends received in the trailing window
// ending on asOf, each converted at the rate of its own day.
//
// Instruments that received nothing over the window are dropped.
func Dividends(reg *Registry, l *Ledger, q *Quotes, asOf date.Date) (DividendPivot, error) {
	conv := converter{q: q}
	window := DividendWindow(asOf)
	months := date.Months(window.From, window.To)

	type cell struct {
		month      int
		instrument string
	}
	sums := make(map[cell]Money)
	for e := range l.Between(window) {
		d, ok := e.(Dividend)
		if !ok || !d.Amount.IsPositive() {
			continue
		}
		amount, err := conv.toHome(d.Amount, d.Date, d.Rate)
		if err != nil {
			return DividendPivot{}, &ComputationError{Report: "dividends", Account: d.Account, Instrument: d.Symbol, Date: d.Date, Err: err}
		}
		month, _ := slices.BinarySearchFunc(months, d.Date.StartOf(date.Monthly), date.Date.Compare)
		k := cell{month: month, instrument: instrumentLabel(reg, d.Instrument(), d.Symbol)}
		sums[k] = sums[k].Add(amount)
	}

	p := DividendPivot{Window: window}
	var labels []string
	for k, m := range sums {
		if !m.IsZero() && !slices.Contains(labels, k.instrument) {
			labels = append(labels, k.instrument)
		}
	}
	slices.Sort(labels)
	p.Instruments = labels

	for i, month := range months {
		row := make([]Money, len(labels))
		nonzero := false
		for j, label := range labels {
			row[j] = M(0, q.Home()).Add(sums[cell{month: i, instrument: label}])
			nonzero = nonzero || !row[j].IsZero()
		}
		if nonzero {
			p.Months = append(p.Months, month)
			p.Cells = append(p.Cells, row)
		}
	}
	return p, nil
}
