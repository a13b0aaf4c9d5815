package assets

import (
	"testing"

	"github.com/etnz/assets/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDividendWindow(t *testing.T) {
	w := DividendWindow(d("2022-12-15"))
	assert.Equal(t, date.Range{From: d("2021-12-01"), To: d("2022-12-15")}, w)
}

func TestDividends(t *testing.T) {
	reg := newTestRegistry(t)
	l := decodeLedger(t, reg, `
account,date,symbol,dividend,fx
usa,2021-11-15,AAPL,5,
usa,2022-01-10,AAPL,1,
usa,2022-01-20,AAPL,0.5,
usa,2022-02-10,MSFT,-1,
usa,2022-03-10,AAPL,2,
kr,2022-03-11,Samsung,361,
usa,2022-03-12,MSFT,1,1100
`)
	q := NewQuotes("KRW")
	q.SetRate("USD", series("2022-01-01", 1000.0, "2022-03-01", 1200.0))

	p, err := Dividends(reg, l, q, d("2022-12-31"))
	require.NoError(t, err)
	require.False(t, p.Empty())

	assert.Equal(t, []date.Date{d("2022-01-01"), d("2022-03-01")}, p.Months)
	assert.Equal(t, []string{"AAPL", "MSFT", "Samsung"}, p.Instruments)

	assertMoney(t, KRW(1500), p.Cells[0][0])
	assertMoney(t, KRW(0), p.Cells[0][1])
	assertMoney(t, KRW(0), p.Cells[0][2])
	// converted at the rate of their own day, or the recorded one.
	assertMoney(t, KRW(2400), p.Cells[1][0])
	assertMoney(t, KRW(1100), p.Cells[1][1])
	assertMoney(t, KRW(361), p.Cells[1][2])

	assertMoney(t, KRW(3861), p.MonthTotal(1))
	assertMoney(t, KRW(3900), p.InstrumentTotal(0))
}

func TestDividendsTwoMonths(t *testing.T) {
	reg := newTestRegistry(t)
	l := decodeLedger(t, reg, `
account,date,symbol,dividend
kr,2022-01-10,Samsung,100
kr,2022-02-10,Samsung,-100
usa,2022-02-10,MSFT,-3
kr,2022-03-10,Samsung,200
`)
	p, err := Dividends(reg, l, NewQuotes("KRW"), d("2022-12-31"))
	require.NoError(t, err)

	// only months 1 and 3 have income, MSFT never paid anything.
	assert.Len(t, p.Months, 2)
	assert.Equal(t, []string{"Samsung"}, p.Instruments)
}

func TestDividendsEmpty(t *testing.T) {
	reg := newTestRegistry(t)
	l := decodeLedger(t, reg, `
account,date,symbol,dividend
kr,2020-01-10,Samsung,100
`)
	p, err := Dividends(reg, l, NewQuotes("KRW"), d("2022-12-31"))
	require.NoError(t, err, "no income is an empty pivot, not a failure")
	assert.True(t, p.Empty())
	assert.Empty(t, p.Instruments)
}
