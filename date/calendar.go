package date

// MonthEnds returns the last day of every month between from and to, keeping
// only dates within [from, to].
func MonthEnds(from, to Date) []Date {
	var ends []Date
	if to.Before(from) {
		return ends
	}
	for m := from.StartOf(Monthly); !m.After(to); m = m.AddMonth(1) {
		end := m.EndOf(Monthly)
		if end.Before(from) || end.After(to) {
			continue
		}
		ends = append(ends, end)
	}
	return ends
}

// Months returns the first day of every month from the month of from to the
// month of to, both included.
func Months(from, to Date) []Date {
	var months []Date
	for m := from.StartOf(Monthly); !m.After(to); m = m.AddMonth(1) {
		months = append(months, m)
	}
	return months
}

// Calendar returns the evaluation calendar: every month end from start up to
// asOf, followed by asOf itself when it is not already a month end.
//
// The calendar is never empty: when start is after asOf it is just [asOf].
func Calendar(start, asOf Date) []Date {
	cal := MonthEnds(start, asOf)
	if n := len(cal); n == 0 || cal[n-1] != asOf {
		cal = append(cal, asOf)
	}
	return cal
}
