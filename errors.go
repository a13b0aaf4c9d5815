package assets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/etnz/assets/date"
)

// ErrNoData reports a sub-report that had nothing to compute.
var ErrNoData = errors.New("no data")

// ParseError reports a ledger row that could not be decoded.
// The row is skipped, loading continues.
type ParseError struct {
	Row     int    // 1-based line of the row, header included
	Account string // account column, when it could be read
	Field   string // offending column
	Value   string // raw text of the offending column
	Err     error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "row %d", e.Row)
	if e.Account != "" {
		fmt.Fprintf(&b, " (account %s)", e.Account)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, ": invalid %s %q", e.Field, e.Value)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

// ConfigError reports an unusable configuration or registry.
// Nothing is computed when one is returned.
type ConfigError struct {
	Path string // file, if any
	Key  string // offending entry, if any
	Err  error
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("config")
	if e.Path != "" {
		fmt.Fprintf(&b, " %s", e.Path)
	}
	if e.Key != "" {
		fmt.Fprintf(&b, " [%s]", e.Key)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *ConfigError) Unwrap() error { return e.Err }

// QuoteFetchError reports missing price or exchange rate data.
// It aborts the evaluation of the month being computed.
type QuoteFetchError struct {
	Symbol string // ticker or currency pair
	Range  date.Range
	Err    error
}

func (e *QuoteFetchError) Error() string {
	return fmt.Sprintf("quotes for %s over %s: %v", e.Symbol, e.Range, e.Err)
}

func (e *QuoteFetchError) Unwrap() error { return e.Err }

// ComputationError reports a sub-report that could not be produced.
// Sibling sub-reports are unaffected.
type ComputationError struct {
	Report     string
	Account    string
	Instrument string
	Date       date.Date
	Err        error
}

func (e *ComputationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s", e.Report)
	if !e.Date.IsZero() {
		fmt.Fprintf(&b, " on %s", e.Date)
	}
	if e.Account != "" {
		fmt.Fprintf(&b, " account %s", e.Account)
	}
	if e.Instrument != "" {
		fmt.Fprintf(&b, " instrument %s", e.Instrument)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *ComputationError) Unwrap() error { return e.Err }

// Outcome is the result of one sub-report: either a value, possibly empty,
// or the error that prevented computing it.
type Outcome[T any] struct {
	Value T
	Err   error
}

func outcome[T any](v T, err error) Outcome[T] { return Outcome[T]{Value: v, Err: err} }

// OK reports whether the sub-report was computed.
func (o Outcome[T]) OK() bool { return o.Err == nil }
