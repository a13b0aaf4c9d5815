package assets

import (
	"cmp"
	"maps"
	"slices"

	"github.com/etnz/assets/date"
)

// PositionKey identifies a position: an instrument held in an account.
type PositionKey struct {
	Account    string
	Instrument string
}

func comparePositionKeys(a, b PositionKey) int {
	if c := cmp.Compare(a.Account, b.Account); c != 0 {
		return c
	}
	return cmp.Compare(a.Instrument, b.Instrument)
}

// HeldQuantities replays the trades of l into the cumulative quantity held
// by each position, one observation per trading day.
//
// Quantities traded on the same day are netted before being accumulated, so
// the order of rows within a day does not matter. The cumulative quantity
// never goes below zero.
func HeldQuantities(l *Ledger) map[PositionKey]*date.History[Quantity] {
	daily := make(map[PositionKey]*date.History[Quantity])
	for t := range l.Trades() {
		key := PositionKey{Account: t.Account, Instrument: t.Instrument()}
		h, ok := daily[key]
		if !ok {
			h = new(date.History[Quantity])
			daily[key] = h
		}
		h.Merge(t.Date, t.Quantity, Quantity.Add)
	}

	held := make(map[PositionKey]*date.History[Quantity], len(daily))
	for key, h := range daily {
		cum := new(date.History[Quantity])
		var q Quantity
		for on, delta := range h.Values() {
			q = q.Add(delta)
			if q.IsNegative() {
				q = Quantity{}
			}
			cum.Append(on, q)
		}
		held[key] = cum
	}
	return held
}

// QuantitySeries is the quantity of a position on every date of a calendar.
type QuantitySeries struct {
	Key      PositionKey
	Calendar []date.Date
	Values   []Quantity
}

// AlignQuantities evaluates held quantities on cal. Dates before the first
// trade of a position hold zero.
func AlignQuantities(held map[PositionKey]*date.History[Quantity], cal []date.Date) []QuantitySeries {
	keys := slices.SortedFunc(maps.Keys(held), comparePositionKeys)
	series := make([]QuantitySeries, 0, len(keys))
	for _, key := range keys {
		a := date.Align(held[key], cal)
		series = append(series, QuantitySeries{Key: key, Calendar: cal, Values: a.Values})
	}
	return series
}

// IsFlat reports whether the position is empty on every date.
func (s QuantitySeries) IsFlat() bool {
	for _, q := range s.Values {
		if !q.IsZero() {
			return false
		}
	}
	return true
}
