package assets

import (
	"slices"

	"github.com/etnz/assets/date"
	"github.com/shopspring/decimal"
)

// ActivityKind classifies the lines of an activity log.
type ActivityKind string

// Activity kinds.
const (
	ActivityBuy          ActivityKind = "buy"
	ActivitySell         ActivityKind = "sell"
	ActivityDividend     ActivityKind = "dividend"
	ActivityContribution ActivityKind = "contribution"
)

// ActivityLine is a cash movement of the period.
type ActivityLine struct {
	Date       date.Date    `json:"date"`
	Account    string       `json:"account"`
	Kind       ActivityKind `json:"kind"`
	Instrument string       `json:"instrument"`
	Quantity   Quantity     `json:"quantity"`
	Price      Money        `json:"price"`
	Amount     Money        `json:"amount"` // home currency, always positive
}

// ActivityLog lists the trades, dividends and contributions of a period,
// newest first, with their totals in the home currency.
type ActivityLog struct {
	Period        date.Range     `json:"period"`
	Lines         []ActivityLine `json:"lines"`
	Bought        Money          `json:"bought"`
	Sold          Money          `json:"sold"`
	Dividends     Money          `json:"dividends"`
	Contributions Money          `json:"contributions"`
}

// Activity returns the activity log of period.
func Activity(reg *Registry, l *Ledger, q *Quotes, period date.Range) (ActivityLog, error) {
	conv := converter{q: q}
	home := q.Home()
	a := ActivityLog{Period: period, Bought: M(0, home), Sold: M(0, home), Dividends: M(0, home), Contributions: M(0, home)}

	for e := range l.Between(period) {
		line := ActivityLine{Date: e.When(), Account: e.AccountID()}
		var (
			native   Money
			recorded decimal.Decimal
		)
		switch e := e.(type) {
		case Trade:
			line.Kind, line.Instrument = ActivityBuy, instrumentLabel(reg, e.Instrument(), e.Symbol)
			if e.Quantity.IsNegative() {
				line.Kind = ActivitySell
			}
			line.Quantity, line.Price = e.Quantity.Abs(), e.Price
			native, recorded = e.Amount().Abs(), e.Rate
		case Dividend:
			line.Kind, line.Instrument = ActivityDividend, instrumentLabel(reg, e.Instrument(), e.Symbol)
			native, recorded = e.Amount, e.Rate
		case Contribution:
			line.Kind = ActivityContribution
			if e.Symbol != "" {
				line.Instrument = instrumentLabel(reg, e.Instrument(), e.Symbol)
			}
			native, recorded = e.Amount, e.Rate
		default:
			continue
		}
		amount, err := conv.toHome(native, e.When(), recorded)
		if err != nil {
			return ActivityLog{}, &ComputationError{Report: "activity", Account: e.AccountID(), Instrument: line.Instrument, Date: e.When(), Err: err}
		}
		line.Amount = amount
		switch line.Kind {
		case ActivityBuy:
			a.Bought = a.Bought.Add(amount)
		case ActivitySell:
			a.Sold = a.Sold.Add(amount)
		case ActivityDividend:
			a.Dividends = a.Dividends.Add(amount)
		case ActivityContribution:
			a.Contributions = a.Contributions.Add(amount)
		}
		a.Lines = append(a.Lines, line)
	}
	slices.Reverse(a.Lines)
	return a, nil
}
