package quotestore

import (
	"context"

	"github.com/etnz/assets"
	"github.com/etnz/assets/date"
	"github.com/rs/zerolog"
)

// Recorder is a provider that saves every series fetched by Provider into
// Store. A failure to record is logged and otherwise ignored.
type Recorder struct {
	Provider assets.Provider
	Store    *Store
	Log      zerolog.Logger
}

// AdjustedClose implements assets.Provider.
func (r *Recorder) AdjustedClose(ctx context.Context, tickers []string, rg date.Range) (map[string]*assets.Series, error) {
	prices, err := r.Provider.AdjustedClose(ctx, tickers, rg)
	for t, s := range prices {
		r.save(ctx, KindPrice, t, s)
	}
	return prices, err
}

// FxRate implements assets.Provider.
func (r *Recorder) FxRate(ctx context.Context, base, quote string, rg date.Range) (*assets.Series, error) {
	s, err := r.Provider.FxRate(ctx, base, quote, rg)
	if err != nil {
		return nil, err
	}
	r.save(ctx, KindFx, base+quote, s)
	return s, nil
}

func (r *Recorder) save(ctx context.Context, kind, symbol string, s *assets.Series) {
	if s.Len() == 0 {
		return
	}
	if err := r.Store.Save(ctx, kind, symbol, s); err != nil {
		r.Log.Warn().Err(err).Str("kind", kind).Str("symbol", symbol).Msg("failed to record quotes")
		return
	}
	r.Log.Debug().Str("kind", kind).Str("symbol", symbol).Int("count", s.Len()).Msg("recorded quotes")
}

var _ assets.Provider = (*Recorder)(nil)
