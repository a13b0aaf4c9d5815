package assets

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// Position is the state of an instrument held in an account after replaying
// its trades.
type Position struct {
	Account    string
	Instrument string // canonical ticker, or ledger symbol when unknown
	Symbol     string // latest ledger label
	Currency   string // trading currency
	Quantity   Quantity
	Cost       Money // cost basis in the home currency
}

// Key returns the key of the position.
func (p Position) Key() PositionKey { return PositionKey{Account: p.Account, Instrument: p.Instrument} }

// IsOpen reports whether some quantity is held.
func (p Position) IsOpen() bool { return p.Quantity.IsPositive() }

// AverageCost returns the home currency cost of one held unit.
// It is zero when nothing is held.
func (p Position) AverageCost() Money {
	if !p.Quantity.IsPositive() {
		return M(0, p.Cost.Currency())
	}
	return p.Cost.Div(p.Quantity)
}

// buy adds quantity bought for cost.
func (p *Position) buy(q Quantity, cost Money) {
	p.Quantity = p.Quantity.Add(q)
	p.Cost = p.Cost.Add(cost)
}

// sell removes quantity sold at the current average cost. Selling everything,
// or more, closes the position.
func (p *Position) sell(q Quantity) {
	avg := p.AverageCost()
	p.Cost = p.Cost.Sub(avg.Mul(q.Abs()))
	p.Quantity = p.Quantity.Sub(q.Abs())
	if !p.Quantity.IsPositive() {
		p.Quantity = Quantity{}
		p.Cost = M(0, p.Cost.Currency())
	}
}

// TrackCostBasis replays the trades of l into weighted-average cost
// positions, in a single chronological pass.
//
// Buys are converted to the home currency at the rate of their own day.
// Positions whose buys could not be converted are left out and reported in
// err, the others are still returned.
func TrackCostBasis(l *Ledger, q *Quotes) (map[PositionKey]*Position, error) {
	conv := converter{q: q}
	positions := make(map[PositionKey]*Position)
	failed := make(map[PositionKey]error)

	for t := range l.Trades() {
		key := PositionKey{Account: t.Account, Instrument: t.Instrument()}
		if _, ko := failed[key]; ko {
			continue
		}
		p, ok := positions[key]
		if !ok {
			p = &Position{Account: t.Account, Instrument: key.Instrument, Cost: M(0, q.Home())}
			positions[key] = p
		}
		p.Symbol = t.Symbol
		p.Currency = t.Price.Currency()

		if t.Quantity.IsNegative() {
			p.sell(t.Quantity)
			continue
		}
		cost, err := conv.toHome(t.Amount(), t.Date, t.Rate)
		if err != nil {
			failed[key] = &ComputationError{Report: "cost basis", Account: t.Account, Instrument: t.Symbol, Date: t.Date, Err: err}
			delete(positions, key)
			continue
		}
		p.buy(t.Quantity, cost)
	}

	var errs []error
	for _, key := range slices.SortedFunc(maps.Keys(failed), comparePositionKeys) {
		errs = append(errs, failed[key])
	}
	return positions, errors.Join(errs...)
}

// SortedPositions returns positions ordered by account then instrument.
func SortedPositions(positions map[PositionKey]*Position) []Position {
	list := make([]Position, 0, len(positions))
	for _, key := range slices.SortedFunc(maps.Keys(positions), comparePositionKeys) {
		list = append(list, *positions[key])
	}
	return list
}

func (p Position) String() string {
	return fmt.Sprintf("%s/%s %s @ %s", p.Account, p.Instrument, p.Quantity, p.AverageCost())
}
