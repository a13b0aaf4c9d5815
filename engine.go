package assets

import (
	"github.com/etnz/assets/date"
)

// Engine replays a ledger into point in time reports.
//
// Run is a pure function of its inputs: the ledger, the quotes and the as-of
// date. Nothing is cached between runs.
type Engine struct {
	Registry *Registry
	Start    date.Date // first month end of the evaluation calendar
}

// Report is everything computed for one as-of date.
//
// Positions and valuations are always present. Every sub-report is an Outcome:
// a failing sub-report does not prevent its siblings.
type Report struct {
	AsOf       date.Date
	Calendar   []date.Date
	Positions  []Position
	Valuations []ValuationSeries

	Summary   Outcome[SummaryTable]
	Holdings  Outcome[HoldingsTable]
	Dividends Outcome[DividendPivot]
	Activity  Outcome[ActivityLog]
	Prices    Outcome[PriceTable]
}

// Month returns the month reported on.
func (r *Report) Month() date.Range { return date.NewRange(r.AsOf, date.Monthly) }

// Errors returns the errors of the sub-reports that failed.
func (r *Report) Errors() []error {
	var errs []error
	for _, err := range []error{r.Summary.Err, r.Holdings.Err, r.Dividends.Err, r.Activity.Err, r.Prices.Err} {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Run computes the report on asOf.
//
// The ledger and the quotes are truncated to asOf first, so that a report
// never depends on anything recorded later. A valuation that cannot be
// computed fails the whole run, usually with a QuoteFetchError. Trades of
// symbols without a ticker are left out of positions and valuations.
func (e Engine) Run(l *Ledger, q *Quotes, asOf date.Date) (*Report, error) {
	l, q = l.Until(asOf), q.Until(asOf)
	r := &Report{AsOf: asOf, Calendar: date.Calendar(e.Start, asOf)}

	priced := l.Priced()
	held := HeldQuantities(priced)
	valuations, err := Valuer{Registry: e.Registry, Quotes: q, Calendar: r.Calendar}.Value(l, held)
	if err != nil {
		return nil, err
	}
	r.Valuations = valuations

	positions, costErr := TrackCostBasis(priced, q)
	r.Positions = SortedPositions(positions)

	r.Summary = outcome(Summarize(e.Registry, l, q, valuations, asOf))
	if costErr != nil {
		r.Holdings = Outcome[HoldingsTable]{Err: costErr}
	} else {
		r.Holdings = outcome(Holdings(e.Registry, l, q, positions, asOf))
	}
	r.Dividends = outcome(Dividends(e.Registry, l, q, asOf))
	r.Activity = outcome(Activity(e.Registry, l, q, r.Month()))
	r.Prices = outcome(Prices(e.Registry, l, q, r.Calendar), nil)
	return r, nil
}
