// Package yahoo fetches daily quotes from Yahoo Finance.
package yahoo

import (
	"context"
	"errors"
	"fmt"

	"github.com/etnz/assets"
	"github.com/etnz/assets/date"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/wnjoon/go-yfinance/pkg/models"
	"github.com/wnjoon/go-yfinance/pkg/multi"
	"github.com/wnjoon/go-yfinance/pkg/ticker"
)

// source is the part of Yahoo Finance the provider talks to.
type source interface {
	download(symbols []string, period string) (map[string][]models.Bar, map[string]error, error)
	history(symbol, period string) ([]models.Bar, error)
}

// Provider implements assets.Provider on Yahoo Finance.
//
// Yahoo only serves fixed lookback periods, the smallest one covering the
// requested range is downloaded and then trimmed.
type Provider struct {
	log   zerolog.Logger
	src   source
	today func() date.Date
}

// New returns a Yahoo Finance provider.
func New(log zerolog.Logger) *Provider {
	return &Provider{
		log:   log.With().Str("client", "yahoo").Logger(),
		src:   yfinance{},
		today: date.Today,
	}
}

// lookbacks are the periods Yahoo accepts, shortest first, with their length in months.
var lookbacks = []struct {
	period string
	months int
}{
	{"1mo", 1},
	{"3mo", 3},
	{"6mo", 6},
	{"1y", 12},
	{"2y", 24},
	{"5y", 60},
	{"10y", 120},
}

// period returns the shortest lookback from today that reaches from.
func period(from, today date.Date) string {
	for _, l := range lookbacks {
		if !from.Before(monthsBefore(today, l.months)) {
			return l.period
		}
	}
	return "max"
}

// monthsBefore returns the same day n months before d, or the last day of
// that month when it is shorter.
func monthsBefore(d date.Date, n int) date.Date {
	end := d.StartOf(date.Monthly).AddMonth(-n).EndOf(date.Monthly)
	if d.Day() < end.Day() {
		return date.New(end.Year(), end.Month(), d.Day())
	}
	return end
}

// FxSymbol is the Yahoo symbol of the base/quote exchange rate, like USDKRW=X.
func FxSymbol(base, quote string) string { return base + quote + "=X" }

// AdjustedClose implements assets.Provider with a single batch download.
func (p *Provider) AdjustedClose(ctx context.Context, tickers []string, r date.Range) (map[string]*assets.Series, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make(map[string]*assets.Series, len(tickers))
	if len(tickers) == 0 {
		return out, nil
	}
	data, failures, err := p.src.download(tickers, period(r.From, p.today()))
	if err != nil {
		return nil, fmt.Errorf("failed to download quotes: %w", err)
	}
	var errs []error
	for _, t := range tickers {
		if err, ok := failures[t]; ok {
			p.log.Warn().Err(err).Str("symbol", t).Msg("Failed to get quotes for symbol")
			errs = append(errs, fmt.Errorf("%s: %w", t, err))
			continue
		}
		if bars, ok := data[t]; ok {
			out[t] = series(bars, r, true)
		}
	}
	return out, errors.Join(errs...)
}

// FxRate implements assets.Provider.
func (p *Provider) FxRate(ctx context.Context, base, quote string, r date.Range) (*assets.Series, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	symbol := FxSymbol(base, quote)
	bars, err := p.src.history(symbol, period(r.From, p.today()))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", symbol, err)
	}
	return series(bars, r, false), nil
}

// series keeps the bars within r. Adjusted closes are used when requested
// and available.
func series(bars []models.Bar, r date.Range, adjusted bool) *assets.Series {
	s := new(assets.Series)
	for _, b := range bars {
		day := date.FromTime(b.Date)
		if !r.Contains(day) {
			continue
		}
		v := b.Close
		if adjusted && b.AdjClose > 0 {
			v = b.AdjClose
		}
		if v <= 0 {
			continue
		}
		s.Append(day, decimal.NewFromFloat(v))
	}
	return s
}

// yfinance is the live source.
type yfinance struct{}

func (yfinance) download(symbols []string, period string) (map[string][]models.Bar, map[string]error, error) {
	params := models.DefaultDownloadParams()
	params.Symbols = symbols
	params.Period = period
	params.Interval = "1d"

	result, err := multi.Download(symbols, &params)
	if err != nil {
		return nil, nil, err
	}
	return result.Data, result.Errors, nil
}

func (yfinance) history(symbol, period string) ([]models.Bar, error) {
	t, err := ticker.New(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticker: %w", err)
	}
	defer t.Close()

	return t.History(models.HistoryParams{
		Period:     period,
		Interval:   "1d",
		AutoAdjust: true,
	})
}

var _ assets.Provider = (*Provider)(nil)
