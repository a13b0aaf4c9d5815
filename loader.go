package assets

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/assets/date"
	"github.com/shopspring/decimal"
)

// column is a ledger column role.
type column int

const (
	colAccount column = iota
	colDate
	colSymbol
	colPrice
	colQuantity
	colDividend
	colContribution
	colRate
	colValuation
)

var columnNames = [...]string{"account", "date", "symbol", "price", "quantity", "dividend", "contribution", "fx", "valuation"}

func (c column) String() string { return columnNames[c] }

// headerAliases maps accepted header labels to column roles.
// Ledgers are written either with English or with Korean headers.
var headerAliases = map[string]column{
	"account":      colAccount,
	"계좌":           colAccount,
	"date":         colDate,
	"일자":           colDate,
	"symbol":       colSymbol,
	"종목":           colSymbol,
	"price":        colPrice,
	"단가":           colPrice,
	"quantity":     colQuantity,
	"qty":          colQuantity,
	"수량":           colQuantity,
	"dividend":     colDividend,
	"배당":           colDividend,
	"contribution": colContribution,
	"투자금":          colContribution,
	"fx":           colRate,
	"환율":           colRate,
	"valuation":    colValuation,
	"평가금":          colValuation,
}

// header maps column roles to their position in a row.
type header map[column]int

func newHeader(labels []string) (header, error) {
	h := make(header)
	for i, label := range labels {
		label = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(label, "\ufeff")))
		if c, ok := headerAliases[label]; ok {
			if _, dup := h[c]; !dup {
				h[c] = i
			}
		}
	}
	for _, required := range []column{colAccount, colDate} {
		if _, ok := h[required]; !ok {
			return nil, fmt.Errorf("ledger header %q has no %s column", labels, required)
		}
	}
	return h, nil
}

// get returns the trimmed cell of column c, or "" when the row has none.
func (h header) get(record []string, c column) string {
	i, ok := h[c]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// Decoder turns ledger rows into events.
type Decoder struct {
	Registry *Registry
}

// DecodeLedger reads a CSV ledger.
//
// Rows that cannot be decoded are skipped and returned as ParseErrors; err is
// only set when the input itself is unreadable.
func (d Decoder) DecodeLedger(in io.Reader) (l *Ledger, rejected []*ParseError, err error) {
	r := csv.NewReader(bufio.NewReader(in))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	labels, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("cannot read ledger header: %w", err)
	}
	h, err := newHeader(labels)
	if err != nil {
		return nil, nil, err
	}
	var events []Event
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row, _ := r.FieldPos(0)
		if err != nil {
			rejected = append(rejected, &ParseError{Row: row, Err: err})
			continue
		}
		evs, perr := d.decodeRow(row, h, record)
		if perr != nil {
			rejected = append(rejected, perr)
			continue
		}
		events = append(events, evs...)
	}
	return NewLedger(events...), rejected, nil
}

// DecodeMarkdownLedger reads the last table of a markdown document as a ledger.
func (d Decoder) DecodeMarkdownLedger(in io.Reader) (*Ledger, []*ParseError, error) {
	src, err := io.ReadAll(in)
	if err != nil {
		return nil, nil, err
	}
	rows, err := LastMarkdownTable(src)
	if err != nil {
		return nil, nil, err
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, nil, err
	}
	return d.DecodeLedger(&buf)
}

// LoadLedger reads the ledger at path, as markdown when its extension is .md
// and as CSV otherwise.
func (d Decoder) LoadLedger(path string) (*Ledger, []*ParseError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	if strings.EqualFold(filepath.Ext(path), ".md") {
		return d.DecodeMarkdownLedger(f)
	}
	return d.DecodeLedger(f)
}

// cleanNumber parses a locale formatted number such as "1,234.5".
// An empty cell is reported as not present.
func cleanNumber(s string) (v decimal.Decimal, present bool, err error) {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" || s == "-" {
		return v, false, nil
	}
	v, err = decimal.NewFromString(s)
	return v, err == nil, err
}

// decodeRow returns the events encoded in a single ledger row.
//
// A row may carry a trade (quantity and price), a dividend, a contribution and
// a valuation snapshot; each populated role yields its own event.
func (d Decoder) decodeRow(row int, h header, record []string) ([]Event, *ParseError) {
	account := h.get(record, colAccount)
	fail := func(c column, err error) *ParseError {
		return &ParseError{Row: row, Account: account, Field: c.String(), Value: h.get(record, c), Err: err}
	}

	nums := make(map[column]decimal.Decimal)
	for _, c := range []column{colPrice, colQuantity, colDividend, colContribution, colRate, colValuation} {
		v, ok, err := cleanNumber(h.get(record, c))
		if err != nil {
			return nil, fail(c, errors.New("not a number"))
		}
		if ok {
			nums[c] = v
		}
	}
	if len(nums) == 0 && account == "" && h.get(record, colDate) == "" {
		return nil, nil // blank row
	}
	if account == "" {
		return nil, fail(colAccount, errors.New("missing account"))
	}
	on, err := date.Parse(h.get(record, colDate))
	if err != nil {
		return nil, fail(colDate, err)
	}

	acc, _ := d.Registry.Account(account)
	base := baseEvent{Date: on, Account: account, Row: row, Rate: nums[colRate]}
	symbol := h.get(record, colSymbol)
	sec := secEvent{baseEvent: base, Symbol: symbol}
	tradeCurrency := acc.Currency
	if inst, ok := d.Registry.Resolve(symbol); ok && symbol != "" {
		sec.Ticker = inst.Ticker
		tradeCurrency = inst.Currency
	}

	var events []Event
	qty, hasQty := nums[colQuantity]
	price, hasPrice := nums[colPrice]
	if hasQty && hasPrice && !qty.IsZero() {
		if symbol == "" {
			return nil, fail(colSymbol, errors.New("trade without symbol"))
		}
		t := Trade{secEvent: sec, Quantity: Q(qty), Price: M(price, tradeCurrency)}
		t.Type = EvTrade
		events = append(events, t)
	}
	if v, ok := nums[colDividend]; ok && !v.IsZero() {
		e := Dividend{secEvent: sec, Amount: M(v, acc.Currency)}
		e.Type = EvDividend
		events = append(events, e)
	}
	if v, ok := nums[colContribution]; ok && !v.IsZero() {
		e := Contribution{secEvent: sec, Amount: M(v, acc.Currency)}
		e.Type = EvContribution
		events = append(events, e)
	}
	if v, ok := nums[colValuation]; ok {
		e := Valuation{secEvent: sec, Amount: M(v, acc.Currency)}
		e.Type = EvValuation
		events = append(events, e)
	}
	return events, nil
}
