package date

import "fmt"

// Range represents a range of dates, both boundaries included.
type Range struct{ From, To Date }

// NewRange return the period containing d.
func NewRange(d Date, period Period) Range {
	return Range{From: d.StartOf(period), To: d.EndOf(period)}
}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && !date.After(r.To) }

// Extend returns the smallest range containing both r and on.
// The zero Range extends to the single day on.
func (r Range) Extend(on Date) Range {
	if r.From.IsZero() || on.Before(r.From) {
		r.From = on
	}
	if r.To.IsZero() || on.After(r.To) {
		r.To = on
	}
	return r
}

// Identifier names the range: "2006-01-02" for a day, "2006-01" for a whole
// month, "2006" for a whole year, "<from>_<to>" otherwise.
func (r Range) Identifier() string {
	for _, p := range []Period{Daily, Monthly, Yearly} {
		if r == NewRange(r.From, p) {
			return r.From.Format(p.Layout())
		}
	}
	return fmt.Sprintf("%s_%s", r.From, r.To)
}

func (r Range) String() string { return r.Identifier() }
