package date

import "fmt"

// Period is a calendar granularity.
type Period int

const (
	Daily Period = iota
	Monthly
	Yearly
)

var periodNames = [...]string{"day", "month", "year"}

// periodLayouts name a whole period, used by Range.Identifier.
var periodLayouts = [...]string{DateFormat, "2006-01", "2006"}

func (p Period) valid() bool { return p >= Daily && p <= Yearly }

func (p Period) String() string {
	if !p.valid() {
		return fmt.Sprintf("Period(%d)", int(p))
	}
	return periodNames[p]
}

// Layout returns the time layout naming a whole period.
func (p Period) Layout() string {
	if !p.valid() {
		panic(fmt.Sprintf("unknown period %d", int(p)))
	}
	return periodLayouts[p]
}
