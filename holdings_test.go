package assets

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoldings(t *testing.T) {
	reg := newTestRegistry(t)
	l := decodeLedger(t, reg, fixture)
	q := fixtureQuotes()
	asOf := d("2022-03-31")
	positions, err := TrackCostBasis(l, q)
	require.NoError(t, err)

	h, err := Holdings(reg, l, q, positions, asOf)
	require.NoError(t, err)
	require.Len(t, h.Rows, 3)

	fund, apple, samsung := h.Rows[0], h.Rows[1], h.Rows[2]

	assert.Equal(t, "Fund", fund.Label)
	assert.True(t, fund.Reported)
	assertMoney(t, KRW(550000), fund.Valuation)
	assertMoney(t, KRW(500000), fund.Cost)
	require.NotNil(t, fund.Return)
	assert.True(t, fund.Return.Equal(dec(0.1)))
	assert.Nil(t, fund.DayChange)

	assert.Equal(t, "AAPL", apple.Label)
	assertMoney(t, KRW(60*1200), apple.Price)
	assertMoney(t, KRW(144000), apple.Valuation)
	assertMoney(t, KRW(100000), apple.Cost)
	require.NotNil(t, apple.DayChange)
	assert.True(t, apple.DayChange.Equal(dec(0.2)), "got %s", apple.DayChange)

	assert.Equal(t, "Samsung", samsung.Label)
	assertMoney(t, KRW(1200), samsung.Valuation)
	assertMoney(t, KRW(200), samsung.Profit)
	require.NotNil(t, samsung.DayChange)
	assert.Equal(t, "0.0909", samsung.DayChange.StringFixed(4))

	assertMoney(t, KRW(695200), h.Total.Valuation)
	assertMoney(t, KRW(601000), h.Total.Cost)
}

func TestHoldingsEmpty(t *testing.T) {
	reg := newTestRegistry(t)
	l := decodeLedger(t, reg, `
account,date,symbol,price,quantity,dividend
usa,2022-01-04,AAPL,50,2,
usa,2022-02-04,AAPL,55,-2,
usa,2022-03-04,AAPL,,,1
`)
	q := fixtureQuotes()
	positions, err := TrackCostBasis(l, q)
	require.NoError(t, err)

	_, err = Holdings(reg, l, q, positions, d("2022-03-31"))
	var cerr *ComputationError
	require.True(t, errors.As(err, &cerr), "got %v", err)
	assert.Equal(t, "holdings", cerr.Report)
	assert.True(t, errors.Is(err, ErrNoData))
}
