package assets

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/etnz/assets/date"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Pipeline loads quotes, replays the ledger month by month and publishes the
// reports.
type Pipeline struct {
	Config    *Config
	Registry  *Registry
	Provider  Provider
	Publisher *Publisher
	Log       zerolog.Logger
	// Now returns the current time, time.Now when nil.
	Now func() time.Time
	// Artifacts, when set, returns additional artifacts published with every report.
	Artifacts func(*Report) []Artifact
}

// MonthResult is the outcome of one month of an update.
type MonthResult struct {
	AsOf   date.Date
	Report *Report // nil when the month failed
	Err    error
}

func (p *Pipeline) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

// AsOfDates returns the as-of date of every month from the start month to the
// month of the latest ledger event: the month end, or today for the current
// month. Events dated after today do not add months. Only the latest is returned unless full is set.
func (p *Pipeline) AsOfDates(l *Ledger, full bool) ([]date.Date, error) {
	start, err := p.Config.StartDate()
	if err != nil {
		return nil, &ConfigError{Key: "start", Err: err}
	}
	span, ok := l.Span()
	if !ok {
		return nil, fmt.Errorf("empty ledger: %w", ErrNoData)
	}
	today := date.FromTime(p.now())
	last := span.To
	if last.After(today) {
		last = today
	}
	var dates []date.Date
	for _, m := range date.Months(start, last) {
		asOf := m.EndOf(date.Monthly)
		if asOf.After(today) {
			asOf = today
		}
		if asOf.Before(start) {
			continue
		}
		dates = append(dates, asOf)
	}
	if len(dates) == 0 {
		return nil, fmt.Errorf("no month between %s and %s: %w", start, span.To, ErrNoData)
	}
	if !full {
		dates = dates[len(dates)-1:]
	}
	return dates, nil
}

// fetchScope returns what must be fetched to evaluate l up to asOf.
func fetchScope(l *Ledger, home string, start, asOf date.Date) (tickers, currencies []string, r date.Range) {
	seenT, seenC := make(map[string]bool), map[string]bool{home: true}
	addCurrency := func(m Money) {
		if c := m.Currency(); c != "" && !seenC[c] {
			seenC[c] = true
			currencies = append(currencies, c)
		}
	}
	for e := range l.Events() {
		switch e := e.(type) {
		case Trade:
			if k := e.Ticker; k != "" && !seenT[k] {
				seenT[k] = true
				tickers = append(tickers, k)
			}
			addCurrency(e.Price)
		case Dividend:
			addCurrency(e.Amount)
		case Contribution:
			addCurrency(e.Amount)
		case Valuation:
			addCurrency(e.Amount)
		}
	}
	slices.Sort(tickers)
	slices.Sort(currencies)

	span, _ := l.Span()
	from := span.From
	if start.Before(from) {
		from = start
	}
	// a week of margin so that a trade on a holiday still finds a previous close.
	return tickers, currencies, date.Range{From: from.Add(-7), To: asOf}
}

// Update recomputes and publishes the latest month, or every month when full
// is set.
//
// Quotes are fetched once for all months. A month that cannot be valued is
// logged and skipped, the others proceed. The latest month, when it succeeds,
// is also published under the latest names together with the build info.
// The returned error joins the failures of every skipped month.
func (p *Pipeline) Update(ctx context.Context, l *Ledger, full bool) ([]MonthResult, error) {
	dates, err := p.AsOfDates(l, full)
	if err != nil {
		return nil, err
	}
	start, _ := p.Config.StartDate()
	quotes := p.fetch(ctx, l, start, dates[len(dates)-1])

	engine := Engine{Registry: p.Registry, Start: start}
	results := make([]MonthResult, len(dates))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, p.Config.Parallelism))
	for i, asOf := range dates {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = p.month(engine, l, quotes, asOf)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}

	var errs []error
	for _, res := range results {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	if latest := results[len(results)-1]; latest.Err == nil {
		if err := p.Publisher.PublishLatest(latest.AsOf, p.artifacts(latest.Report), p.now()); err != nil {
			errs = append(errs, err)
		} else {
			p.Log.Info().Str("month", latest.AsOf.Format("2006-01")).Msg("latest reports published")
		}
	}
	return results, errors.Join(errs...)
}

// fetch loads, once, the quotes needed to evaluate l up to asOf.
// Missing series are logged, the months that need them will fail.
func (p *Pipeline) fetch(ctx context.Context, l *Ledger, start, asOf date.Date) *Quotes {
	for _, symbol := range l.Unresolved() {
		p.Log.Warn().Str("symbol", symbol).Msg("symbol has no ticker, left out of valuations")
	}
	tickers, currencies, span := fetchScope(l, p.Registry.Home(), start, asOf)
	p.Log.Info().Int("tickers", len(tickers)).Strs("currencies", currencies).Stringer("range", span).Msg("fetching quotes")
	quotes, err := FetchQuotes(ctx, p.Provider, p.Registry.Home(), tickers, currencies, span)
	if err != nil {
		p.Log.Warn().Err(err).Msg("some quotes are missing")
	}
	return quotes
}

// Report computes the report on asOf without publishing anything.
func (p *Pipeline) Report(ctx context.Context, l *Ledger, asOf date.Date) (*Report, error) {
	start, err := p.Config.StartDate()
	if err != nil {
		return nil, &ConfigError{Key: "start", Err: err}
	}
	if asOf.Before(start) {
		start = asOf
	}
	quotes := p.fetch(ctx, l, start, asOf)
	return Engine{Registry: p.Registry, Start: start}.Run(l, quotes, asOf)
}

// month computes and publishes the report on asOf.
func (p *Pipeline) month(engine Engine, l *Ledger, quotes *Quotes, asOf date.Date) MonthResult {
	log := p.Log.With().Str("month", asOf.Format("2006-01")).Logger()
	res := MonthResult{AsOf: asOf}

	report, err := engine.Run(l, quotes, asOf)
	if err != nil {
		log.Warn().Err(err).Msg("month skipped")
		res.Err = fmt.Errorf("month %s: %w", asOf.Format("2006-01"), err)
		return res
	}
	for _, err := range report.Errors() {
		log.Warn().Err(err).Msg("sub-report skipped")
	}
	for _, v := range report.Valuations {
		if v.IsEstimated() {
			log.Info().Str("account", v.Account).Msg("no reported valuation, using contributions")
		}
	}
	if err := p.Publisher.PublishMonth(asOf, p.artifacts(report)); err != nil {
		log.Error().Err(err).Msg("publication failed")
		res.Err = err
		return res
	}
	res.Report = report
	log.Debug().Int("positions", len(report.Positions)).Msg("month published")
	return res
}

func (p *Pipeline) artifacts(r *Report) []Artifact {
	artifacts := ReportArtifacts(r)
	if p.Artifacts != nil {
		artifacts = append(artifacts, p.Artifacts(r)...)
	}
	return artifacts
}
