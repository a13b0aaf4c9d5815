package assets

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackCostBasis(t *testing.T) {
	reg := newTestRegistry(t)
	q := NewQuotes("KRW")
	key := PositionKey{Account: "kr", Instrument: "005930.KS"}

	tests := []struct {
		name     string
		ledger   string
		quantity float64
		cost     float64
	}{
		{
			name: "buy",
			ledger: `
account,date,symbol,price,quantity
kr,2022-01-01,Samsung,100,10`,
			quantity: 10, cost: 1000,
		},
		{
			name: "partial sell at the average cost",
			ledger: `
account,date,symbol,price,quantity
kr,2022-01-01,Samsung,100,10
kr,2022-02-09,Samsung,150,-4`,
			quantity: 6, cost: 600,
		},
		{
			name: "weighted average",
			ledger: `
account,date,symbol,price,quantity
kr,2022-01-01,Samsung,100,10
kr,2022-01-02,Samsung,200,10
kr,2022-01-03,Samsung,300,-5`,
			quantity: 15, cost: 2250,
		},
		{
			name: "sell everything closes the position",
			ledger: `
account,date,symbol,price,quantity
kr,2022-01-01,Samsung,100,10
kr,2022-01-02,Samsung,150,-10`,
			quantity: 0, cost: 0,
		},
		{
			name: "oversell resets",
			ledger: `
account,date,symbol,price,quantity
kr,2022-01-01,Samsung,100,10
kr,2022-01-02,Samsung,150,-12`,
			quantity: 0, cost: 0,
		},
		{
			name: "reopen after close",
			ledger: `
account,date,symbol,price,quantity
kr,2022-01-01,Samsung,100,10
kr,2022-01-02,Samsung,150,-12
kr,2022-01-03,Samsung,80,3`,
			quantity: 3, cost: 240,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			positions, err := TrackCostBasis(decodeLedger(t, reg, tt.ledger), q)
			require.NoError(t, err)
			p := positions[key]
			require.NotNil(t, p)
			assert.True(t, p.Quantity.Equal(Q(tt.quantity)), "quantity: got %s, want %v", p.Quantity, tt.quantity)
			assert.True(t, p.Cost.Equal(KRW(tt.cost)), "cost: got %s, want %v", p.Cost, tt.cost)
			assert.False(t, p.Cost.IsNegative())
		})
	}
}

func TestTrackCostBasisForeignCurrency(t *testing.T) {
	reg := newTestRegistry(t)
	q := NewQuotes("KRW")
	q.SetRate("USD", series("2022-01-01", 1000.0, "2022-01-05", 1200.0))

	l := decodeLedger(t, reg, `
account,date,symbol,price,quantity,fx
usa,2022-01-03,AAPL,100,1,
usa,2022-01-06,AAPL,100,1,
usa,2022-01-07,AAPL,100,1,1300
`)
	positions, err := TrackCostBasis(l, q)
	require.NoError(t, err)
	p := positions[PositionKey{Account: "usa", Instrument: "AAPL"}]
	require.NotNil(t, p)
	// each buy is converted at the rate of its own day, or at the recorded one.
	assert.True(t, p.Cost.Equal(KRW(100000+120000+130000)), "got %s", p.Cost)
	assert.Equal(t, "USD", p.Currency)
	assert.Equal(t, "116667", p.AverageCost().Round().Amount().String(), "won have no minor unit")
}

func TestTrackCostBasisMissingRate(t *testing.T) {
	reg := newTestRegistry(t)
	l := decodeLedger(t, reg, `
account,date,symbol,price,quantity
usa,2022-01-03,AAPL,100,1
kr,2022-01-03,Samsung,100,1
`)
	positions, err := TrackCostBasis(l, NewQuotes("KRW"))
	var cerr *ComputationError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "usa", cerr.Account)
	var qerr *QuoteFetchError
	assert.True(t, errors.As(err, &qerr))

	assert.NotContains(t, positions, PositionKey{Account: "usa", Instrument: "AAPL"})
	assert.Contains(t, positions, PositionKey{Account: "kr", Instrument: "005930.KS"})
}

func TestAverageCostEmpty(t *testing.T) {
	p := Position{Cost: KRW(0)}
	assert.True(t, p.AverageCost().IsZero())
}
