// Package quotestore records daily quotes in a sqlite database, and replays
// them as an offline quote provider.
package quotestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/etnz/assets"
	"github.com/etnz/assets/date"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Kinds of recorded series.
const (
	KindPrice = "price" // adjusted close, by ticker
	KindFx    = "fx"    // exchange rate, by currency pair like USDKRW
)

// ErrNotRecorded reports a series absent from the store.
var ErrNotRecorded = errors.New("not recorded")

const schema = `
CREATE TABLE IF NOT EXISTS quotes (
	kind   TEXT NOT NULL,
	symbol TEXT NOT NULL,
	day    TEXT NOT NULL,
	value  TEXT NOT NULL,
	PRIMARY KEY (kind, symbol, day)
)`

// Store is a sqlite quote store.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens, and creates if needed, the store at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open quote store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create quote store schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Path returns the database file.
func (s *Store) Path() string { return s.path }

// Save records every observation of series, replacing existing ones.
func (s *Store) Save(ctx context.Context, kind, symbol string, series *assets.Series) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO quotes (kind, symbol, day, value) VALUES (?, ?, ?, ?)
		ON CONFLICT (kind, symbol, day) DO UPDATE SET value = excluded.value`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for day, v := range series.Values() {
		if _, err := stmt.ExecContext(ctx, kind, symbol, day.String(), v.String()); err != nil {
			return fmt.Errorf("save %s %s on %s: %w", kind, symbol, day, err)
		}
	}
	return tx.Commit()
}

// Load returns the observations of symbol within r. A zero r.From or r.To
// leaves that side open.
func (s *Store) Load(ctx context.Context, kind, symbol string, r date.Range) (*assets.Series, error) {
	from, to := "0000-00-00", "9999-99-99"
	if !r.From.IsZero() {
		from = r.From.String()
	}
	if !r.To.IsZero() {
		to = r.To.String()
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT day, value FROM quotes WHERE kind = ? AND symbol = ? AND day >= ? AND day <= ? ORDER BY day`,
		kind, symbol, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	series := new(assets.Series)
	for rows.Next() {
		var day, value string
		if err := rows.Scan(&day, &value); err != nil {
			return nil, err
		}
		d, err := date.Parse(day)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", kind, symbol, err)
		}
		v, err := decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("%s %s on %s: %w", kind, symbol, day, err)
		}
		series.Append(d, v)
	}
	return series, rows.Err()
}

// Symbols lists the recorded symbols of kind.
func (s *Store) Symbols(ctx context.Context, kind string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT symbol FROM quotes WHERE kind = ? ORDER BY symbol`, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var symbols []string
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, err
		}
		symbols = append(symbols, symbol)
	}
	return symbols, rows.Err()
}

// AdjustedClose implements assets.Provider by replaying recorded prices.
func (s *Store) AdjustedClose(ctx context.Context, tickers []string, r date.Range) (map[string]*assets.Series, error) {
	out := make(map[string]*assets.Series, len(tickers))
	var errs []error
	for _, t := range tickers {
		series, err := s.Load(ctx, KindPrice, t, r)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", t, err))
			continue
		}
		if series.Len() == 0 {
			errs = append(errs, fmt.Errorf("%s: %w", t, ErrNotRecorded))
			continue
		}
		out[t] = series
	}
	return out, errors.Join(errs...)
}

// FxRate implements assets.Provider by replaying recorded rates.
func (s *Store) FxRate(ctx context.Context, base, quote string, r date.Range) (*assets.Series, error) {
	series, err := s.Load(ctx, KindFx, base+quote, r)
	if err != nil {
		return nil, err
	}
	if series.Len() == 0 {
		return nil, fmt.Errorf("%s%s: %w", base, quote, ErrNotRecorded)
	}
	return series, nil
}

var _ assets.Provider = (*Store)(nil)
