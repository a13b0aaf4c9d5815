package assets

import (
	"iter"
	"slices"

	"github.com/etnz/assets/date"
)

// Ledger is an immutable, chronologically ordered list of events.
//
// Events on the same day keep the order of the rows they were read from.
type Ledger struct {
	events []Event
}

// NewLedger returns a ledger holding events in chronological order.
func NewLedger(events ...Event) *Ledger {
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(a, b Event) int {
		if c := a.When().Compare(b.When()); c != 0 {
			return c
		}
		return a.Line() - b.Line()
	})
	return &Ledger{events: sorted}
}

// Len returns the number of events.
func (l *Ledger) Len() int { return len(l.events) }

// Events iterates over all events in chronological order.
func (l *Ledger) Events() iter.Seq[Event] { return slices.Values(l.events) }

// Until returns the ledger restricted to events on or before on.
func (l *Ledger) Until(on date.Date) *Ledger {
	n, _ := slices.BinarySearchFunc(l.events, on, func(e Event, on date.Date) int {
		if e.When().After(on) {
			return 1
		}
		return -1
	})
	return &Ledger{events: l.events[:n:n]}
}

// Between returns the events within r.
func (l *Ledger) Between(r date.Range) iter.Seq[Event] {
	return func(yield func(Event) bool) {
		for _, e := range l.events {
			if e.When().After(r.To) {
				return
			}
			if e.When().Before(r.From) {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Span returns the range from the first to the last event.
func (l *Ledger) Span() (r date.Range, ok bool) {
	if len(l.events) == 0 {
		return r, false
	}
	return date.Range{From: l.events[0].When(), To: l.events[len(l.events)-1].When()}, true
}

// Accounts returns every account referenced by the ledger, in order of first appearance.
func (l *Ledger) Accounts() []string {
	var accounts []string
	seen := make(map[string]bool)
	for _, e := range l.events {
		if !seen[e.AccountID()] {
			seen[e.AccountID()] = true
			accounts = append(accounts, e.AccountID())
		}
	}
	return accounts
}

// Unresolved returns the ledger symbols that the registry could not map to an instrument.
func (l *Ledger) Unresolved() []string {
	var symbols []string
	seen := make(map[string]bool)
	for t := range eventsOf[Trade](l) {
		if t.Ticker == "" && !seen[t.Symbol] {
			seen[t.Symbol] = true
			symbols = append(symbols, t.Symbol)
		}
	}
	return symbols
}

// Priced returns the ledger without the trades of symbols that have no
// ticker. Those cannot be quoted: they are left out of quantities, cost basis
// and market valuation, while their dividends and contributions still count.
func (l *Ledger) Priced() *Ledger {
	events := slices.DeleteFunc(slices.Clone(l.events), func(e Event) bool {
		t, ok := e.(Trade)
		return ok && t.Ticker == ""
	})
	return &Ledger{events: events}
}

func (l *Ledger) Trades() iter.Seq[Trade]               { return eventsOf[Trade](l) }
func (l *Ledger) Dividends() iter.Seq[Dividend]         { return eventsOf[Dividend](l) }
func (l *Ledger) Contributions() iter.Seq[Contribution] { return eventsOf[Contribution](l) }
func (l *Ledger) Valuations() iter.Seq[Valuation]       { return eventsOf[Valuation](l) }

// eventsOf iterates over the events of variant T.
func eventsOf[T Event](l *Ledger) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, e := range l.events {
			if t, ok := e.(T); ok {
				if !yield(t) {
					return
				}
			}
		}
	}
}
