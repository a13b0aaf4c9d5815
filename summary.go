package assets

import (
	"github.com/etnz/assets/date"
	"github.com/shopspring/decimal"
)

// AccountSummary is the performance of an account, in the home currency.
type AccountSummary struct {
	Account   string `json:"account"`
	Label     string `json:"label"`
	Invested  Money  `json:"invested"`
	Valuation Money  `json:"valuation"`
	Profit    Money  `json:"profit"`
	// ProfitRate is Profit / Invested, nil when nothing was invested.
	ProfitRate *decimal.Decimal `json:"profit_rate"`
	Weight     decimal.Decimal  `json:"weight"`
	Dividends  Money            `json:"dividends"`
	Estimated  bool             `json:"estimated,omitempty"`
}

// SummaryTable is the account summary with its totals row.
type SummaryTable struct {
	AsOf  date.Date        `json:"as_of"`
	Rows  []AccountSummary `json:"rows"`
	Total AccountSummary   `json:"total"`
}

// profitRate returns profit / invested, or nil when invested is zero.
func profitRate(profit, invested Money) *decimal.Decimal {
	if invested.IsZero() {
		return nil
	}
	r := profit.Ratio(invested)
	return &r
}

// Summarize aggregates the ledger and the valuation series into one row per
// account with a non zero valuation, plus a totals row.
//
// Contributions and dividends are converted at the rate of their own day.
// Only positive dividends count, as in the dividend pivot.
// The totals row sums the rows and recomputes the profit rate from the
// summed invested and profit.
func Summarize(reg *Registry, l *Ledger, q *Quotes, valuations []ValuationSeries, asOf date.Date) (SummaryTable, error) {
	conv := converter{q: q}
	home := q.Home()
	zero := M(0, home)

	invested := make(map[string]Money)
	for c := range l.Contributions() {
		amount, err := conv.toHome(c.Amount, c.Date, c.Rate)
		if err != nil {
			return SummaryTable{}, &ComputationError{Report: "summary", Account: c.Account, Date: c.Date, Err: err}
		}
		invested[c.Account] = zero.Add(invested[c.Account]).Add(amount)
	}
	dividends := make(map[string]Money)
	for d := range l.Dividends() {
		if !d.Amount.IsPositive() {
			continue
		}
		amount, err := conv.toHome(d.Amount, d.Date, d.Rate)
		if err != nil {
			return SummaryTable{}, &ComputationError{Report: "summary", Account: d.Account, Instrument: d.Symbol, Date: d.Date, Err: err}
		}
		dividends[d.Account] = zero.Add(dividends[d.Account]).Add(amount)
	}

	t := SummaryTable{AsOf: asOf}
	total := zero
	for _, v := range valuations {
		if v.Latest().IsZero() {
			continue
		}
		acc, _ := reg.Account(v.Account)
		row := AccountSummary{
			Account:   acc.ID,
			Label:     acc.Label,
			Invested:  zero.Add(invested[acc.ID]),
			Valuation: v.Latest(),
			Dividends: zero.Add(dividends[acc.ID]),
			Estimated: v.Estimated[len(v.Estimated)-1],
		}
		row.Profit = row.Valuation.Sub(row.Invested)
		row.ProfitRate = profitRate(row.Profit, row.Invested)
		total = total.Add(row.Valuation)
		t.Rows = append(t.Rows, row)
	}

	t.Total = AccountSummary{Account: "total", Label: "Total", Invested: zero, Valuation: zero, Profit: zero, Dividends: zero}
	for i := range t.Rows {
		row := &t.Rows[i]
		if !total.IsZero() {
			row.Weight = row.Valuation.Ratio(total)
		}
		t.Total.Invested = t.Total.Invested.Add(row.Invested)
		t.Total.Valuation = t.Total.Valuation.Add(row.Valuation)
		t.Total.Profit = t.Total.Profit.Add(row.Profit)
		t.Total.Dividends = t.Total.Dividends.Add(row.Dividends)
		t.Total.Estimated = t.Total.Estimated || row.Estimated
	}
	t.Total.ProfitRate = profitRate(t.Total.Profit, t.Total.Invested)
	if len(t.Rows) > 0 {
		t.Total.Weight = decimal.NewFromInt(1)
	}
	return t, nil
}
