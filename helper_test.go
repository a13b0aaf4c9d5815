package assets

import (
	"strings"
	"testing"

	"github.com/etnz/assets/date"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// KRW is a helper for test to create won money from const
func KRW(v float64) Money { return M(v, "KRW") }

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// d is a helper for test to parse a date
func d(s string) date.Date { return date.MustParse(s) }

// dec is a helper for test to create a decimal from const
func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

const testRegistry = `
accounts:
  - id: kr
    label: Korean stocks
    items:
      - [Samsung Electronics, Samsung, "KRX:005930"]
  - id: usa
    label: US stocks
    currency: USD
    items:
      - [Apple, AAPL, AAPL]
      - [Microsoft, MSFT, MSFT]
  - id: sema
    label: Pension
    valuation: reported
    items:
      - [Pension fund, Fund, ""]
`

// newTestRegistry returns a registry with a KRW account, a USD account and
// an externally valued account.
func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := DecodeRegistry(strings.NewReader(testRegistry), "KRW")
	require.NoError(t, err)
	return r
}

// decodeLedger decodes a CSV ledger and fails on rejected rows.
func decodeLedger(t *testing.T, reg *Registry, csv string) *Ledger {
	t.Helper()
	l, rejected, err := Decoder{Registry: reg}.DecodeLedger(strings.NewReader(strings.TrimSpace(csv)))
	require.NoError(t, err)
	require.Empty(t, rejected)
	return l
}

// series is a helper for test to build a series from date, value pairs.
func series(points ...any) *Series {
	s := new(Series)
	for i := 0; i+1 < len(points); i += 2 {
		s.Append(d(points[i].(string)), dec(points[i+1].(float64)))
	}
	return s
}

// fixture is a ledger across the three test accounts:
//   - kr holds 10 Samsung bought at 100 for 1,000 contributed;
//   - usa holds 2 AAPL bought at 50 USD for 100 USD contributed, and receives a dividend;
//   - sema is externally valued, 500,000 contributed, reported at 550,000 from February.
const fixture = `
account,date,symbol,price,quantity,dividend,contribution,fx,valuation
kr,2022-01-03,,,,,"1,000",,
kr,2022-01-03,Samsung,100,10,,,,
usa,2022-01-04,,,,,100,,
usa,2022-01-04,AAPL,50,2,,,,
sema,2022-01-05,Fund,,,,"500,000",,
sema,2022-02-28,Fund,,,,,,"550,000"
usa,2022-03-15,AAPL,,,1,,,
`

// fixtureQuotes returns the quotes of the fixture ledger.
func fixtureQuotes() *Quotes {
	q := NewQuotes("KRW")
	q.SetPrices("005930.KS", series("2022-01-03", 100.0, "2022-03-30", 110.0, "2022-03-31", 120.0))
	q.SetPrices("AAPL", series("2022-01-04", 50.0, "2022-03-31", 60.0))
	q.SetRate("USD", series("2022-01-01", 1000.0, "2022-03-01", 1200.0))
	return q
}

// assertMoney asserts that got equals want, ignoring the decimal representation.
func assertMoney(t *testing.T, want, got Money, msgAndArgs ...any) {
	t.Helper()
	if !want.Equal(got) {
		assert.Fail(t, "money differ: got "+got.Amount().String()+" "+got.Currency()+", want "+want.Amount().String()+" "+want.Currency(), msgAndArgs...)
	}
}
