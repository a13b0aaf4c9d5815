package eodhd

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/etnz/assets"
	"github.com/etnz/assets/date"
	"github.com/shopspring/decimal"
)

// exchanges maps ticker suffixes to EODHD exchange codes.
var exchanges = map[string]string{
	".KS": ".KO",
	".KQ": ".KQ",
	".T":  ".TSE",
	".L":  ".LSE",
}

// Symbol converts a canonical ticker into an EODHD code.
// Tickers without an exchange suffix are US listed.
func Symbol(ticker string) string {
	i := strings.LastIndex(ticker, ".")
	if i < 0 {
		return ticker + ".US"
	}
	if code, ok := exchanges[ticker[i:]]; ok {
		return ticker[:i] + code
	}
	return ticker
}

// Bar is a daily observation.
type Bar struct {
	Date          date.Date           `json:"date"`
	Close         decimal.NullDecimal `json:"close"`
	AdjustedClose decimal.NullDecimal `json:"adjusted_close"`
	Volume        int64               `json:"volume"`
}

// EOD returns the end of day bars of symbol over r, oldest first.
func (c *Client) EOD(ctx context.Context, symbol string, r date.Range) ([]Bar, error) {
	params := url.Values{}
	params.Set("period", "d")
	params.Set("order", "a")
	params.Set("from", r.From.String())
	params.Set("to", r.To.String())

	var bars []Bar
	if err := c.get(ctx, "/eod/"+symbol, params, &bars); err != nil {
		return nil, err
	}
	return bars, nil
}

// series collects a column of bars, skipping missing values.
func series(bars []Bar, value func(Bar) decimal.NullDecimal) *assets.Series {
	s := new(assets.Series)
	for _, b := range bars {
		if v := value(b); v.Valid && !b.Date.IsZero() {
			s.Append(b.Date, v.Decimal)
		}
	}
	return s
}

// AdjustedClose implements assets.Provider. Tickers are fetched one by one,
// failures are joined and do not prevent the others.
func (c *Client) AdjustedClose(ctx context.Context, tickers []string, r date.Range) (map[string]*assets.Series, error) {
	out := make(map[string]*assets.Series, len(tickers))
	var errs []error
	for _, ticker := range tickers {
		bars, err := c.EOD(ctx, Symbol(ticker), r)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", ticker, err))
			continue
		}
		out[ticker] = series(bars, func(b Bar) decimal.NullDecimal {
			if b.AdjustedClose.Valid {
				return b.AdjustedClose
			}
			return b.Close
		})
	}
	return out, errors.Join(errs...)
}

// FxRate implements assets.Provider using the close of the {base}{quote}.FOREX pair.
func (c *Client) FxRate(ctx context.Context, base, quote string, r date.Range) (*assets.Series, error) {
	bars, err := c.EOD(ctx, base+quote+".FOREX", r)
	if err != nil {
		return nil, fmt.Errorf("%s%s: %w", base, quote, err)
	}
	return series(bars, func(b Bar) decimal.NullDecimal { return b.Close }), nil
}

var _ assets.Provider = (*Client)(nil)
