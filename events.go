package assets

import (
	"github.com/etnz/assets/date"
	"github.com/shopspring/decimal"
)

// EventType identifies the variant of an Event.
type EventType string

// Event types produced by the ledger loader.
const (
	EvTrade        EventType = "trade"
	EvDividend     EventType = "dividend"
	EvContribution EventType = "contribution"
	EvValuation    EventType = "valuation"
)

// Event is an immutable fact recorded in the ledger.
//
// It is one of Trade, Dividend, Contribution or Valuation; a single ledger row
// may yield several events, one per populated role.
type Event interface {
	What() EventType   // What returns the variant of the event.
	When() date.Date   // When returns the day the event occurred.
	AccountID() string // AccountID returns the account the event belongs to.
	Line() int         // Line returns the ledger row the event was read from.
}

type baseEvent struct {
	Type    EventType
	Date    date.Date
	Account string
	Row     int
	// Rate is the exchange rate to the home currency recorded on the row.
	// Zero when the row carries none.
	Rate decimal.Decimal
}

func (e baseEvent) What() EventType   { return e.Type }
func (e baseEvent) When() date.Date   { return e.Date }
func (e baseEvent) AccountID() string { return e.Account }
func (e baseEvent) Line() int         { return e.Row }

// secEvent is the component of events about an instrument.
type secEvent struct {
	baseEvent
	Symbol string // label used in the ledger
	Ticker string // canonical ticker, empty when the registry does not know Symbol
}

// Instrument returns the key positions are tracked under: the canonical
// ticker, or the ledger symbol when the registry does not know it.
func (e secEvent) Instrument() string {
	if e.Ticker != "" {
		return e.Ticker
	}
	return e.Symbol
}

// Trade is a buy (positive quantity) or a sell (negative quantity).
type Trade struct {
	secEvent
	Quantity Quantity
	Price    Money // unit price in the trading currency
}

// Amount returns the signed cash value of the trade, positive for buys.
func (t Trade) Amount() Money { return t.Price.Mul(t.Quantity) }

// Dividend is a cash distribution received for an instrument.
type Dividend struct {
	secEvent
	Amount Money
}

// Contribution is cash paid into an account.
// Symbol is set when the ledger attributes the contribution to an instrument.
type Contribution struct {
	secEvent
	Amount Money
}

// Valuation is an externally reported value of a holding on a given day.
type Valuation struct {
	secEvent
	Amount Money
}
