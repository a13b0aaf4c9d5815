package assets

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeLedger(t *testing.T) {
	reg := newTestRegistry(t)
	input := `account,date,symbol,price,quantity,dividend,contribution,fx,valuation
kr,2022.01.03,Samsung,"78,000",10,,,,
kr,2022/1/4,,,,,"1,000,000",,
usa,2022-01-05,AAPL,180.5,2,,,,
usa,2022-02-10,AAPL,,,0.44,,1190,
kr,bad-date,Samsung,1,1,,,,
kr,2022-01-06,Samsung,abc,1,,,,
sema,2022-01-31,Fund,,,,"500,000",,"510,000"
,,,,,,,,
`
	l, rejected, err := Decoder{Registry: reg}.DecodeLedger(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, rejected, 2)
	assert.Equal(t, 6, rejected[0].Row)
	assert.Equal(t, "kr", rejected[0].Account)
	assert.Equal(t, "date", rejected[0].Field)
	assert.Equal(t, 7, rejected[1].Row)
	assert.Equal(t, "price", rejected[1].Field)
	assert.Equal(t, "abc", rejected[1].Value)

	events := make([]Event, 0, l.Len())
	for e := range l.Events() {
		events = append(events, e)
	}
	require.Len(t, events, 6)

	buy, ok := events[0].(Trade)
	require.True(t, ok, "first event is %T", events[0])
	assert.Equal(t, "005930.KS", buy.Ticker)
	assert.Equal(t, "Samsung", buy.Symbol)
	assert.True(t, buy.Quantity.Equal(Q(10)))
	assert.True(t, buy.Price.Equal(KRW(78000)), "price %v", buy.Price)
	assert.Equal(t, d("2022-01-03"), buy.When())
	assert.Equal(t, 2, buy.Line())

	contrib, ok := events[1].(Contribution)
	require.True(t, ok)
	assert.True(t, contrib.Amount.Equal(KRW(1000000)))
	assert.Equal(t, d("2022-01-04"), contrib.Date)

	apple, ok := events[2].(Trade)
	require.True(t, ok)
	assert.True(t, apple.Price.Equal(USD(180.5)), "USD instruments trade in USD")

	assert.Equal(t, EvContribution, events[3].What())
	assert.Equal(t, EvValuation, events[4].What())
	snap := events[4].(Valuation)
	assert.Equal(t, "Fund", snap.Instrument(), "unknown symbols are tracked by their label")

	div, ok := events[5].(Dividend)
	require.True(t, ok)
	assert.True(t, div.Amount.Equal(USD(0.44)), "dividends are in the account currency")
	assert.True(t, div.Rate.Equal(dec(1190)))
	assert.True(t, snap.Amount.Equal(KRW(510000)))
}

func TestDecodeLedgerKoreanHeaders(t *testing.T) {
	reg := newTestRegistry(t)
	input := "\ufeff계좌,일자,종목,단가,수량,배당,투자금,환율,평가금\n" +
		"kr,2022. 1. 3.,Samsung,\"78,000\",10,,,,\n" +
		"kr,2022. 2. 3.,Samsung,\"80,000\",-4,,,,\n"

	l := decodeLedger(t, reg, input)
	var trades []Trade
	for tr := range l.Trades() {
		trades = append(trades, tr)
	}
	require.Len(t, trades, 2)
	assert.Equal(t, d("2022-02-03"), trades[1].Date)
	assert.True(t, trades[1].Quantity.Equal(Q(-4)))
	assert.True(t, trades[1].Amount().Equal(KRW(-320000)))
}

func TestDecodeLedgerMissingColumn(t *testing.T) {
	_, _, err := Decoder{Registry: newTestRegistry(t)}.DecodeLedger(strings.NewReader("symbol,price\nAAPL,1\n"))
	assert.Error(t, err)
}

func TestDecodeLedgerTradeWithoutSymbol(t *testing.T) {
	input := "account,date,symbol,price,quantity\nkr,2022-01-03,,100,1\n"
	l, rejected, err := Decoder{Registry: newTestRegistry(t)}.DecodeLedger(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 0, l.Len())
	require.Len(t, rejected, 1)
	var perr *ParseError
	require.True(t, errors.As(error(rejected[0]), &perr))
	assert.Equal(t, "symbol", perr.Field)
}

func TestDecodeMarkdownLedger(t *testing.T) {
	input := `---
title: Trading records
---
# Trading records

| account | date | symbol | price | quantity |
|---|---|---|---|---|
| kr | 2022-01-03 | Samsung | 78,000 | 10 |
| usa | 2022-01-05 | AAPL | 180 | 2 |
`
	dir := t.TempDir()
	path := filepath.Join(dir, "records.md")
	require.NoError(t, os.WriteFile(path, []byte(input), 0o644))

	l, rejected, err := Decoder{Registry: newTestRegistry(t)}.LoadLedger(path)
	require.NoError(t, err)
	assert.Empty(t, rejected)
	assert.Equal(t, 2, l.Len())
	assert.Equal(t, []string{"kr", "usa"}, l.Accounts())
}

func TestCleanNumber(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		present bool
		wantErr bool
	}{
		{"1,234.5", "1234.5", true, false},
		{" 1 000 ", "1000", true, false},
		{"", "0", false, false},
		{"-", "0", false, false},
		{"-12", "-12", true, false},
		{"12a", "0", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, present, err := cleanNumber(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.present, present)
			assert.Equal(t, tt.want, got.String())
		})
	}
}
