package date

// Aligned is a History reindexed onto a calendar.
//
// Values[i] is the most recent observation on or before Index[i]. When no
// such observation exists Known[i] is false and Values[i] is the zero value.
type Aligned[T any] struct {
	Index  []Date
	Values []T
	Known  []bool
}

// Align reindexes h onto index using forward fill only.
//
// Values are never filled backward and never interpolated: a calendar date
// that precedes the first observation of h is unknown. index must be sorted.
// Every price, rate and quantity series is evaluated through this function.
func Align[T any](h *History[T], index []Date) Aligned[T] {
	a := Aligned[T]{
		Index:  index,
		Values: make([]T, len(index)),
		Known:  make([]bool, len(index)),
	}
	if h.Len() == 0 {
		return a
	}
	// single merge pass: both h.days and index are sorted.
	j := -1
	for i, on := range index {
		for j+1 < len(h.days) && !h.days[j+1].After(on) {
			j++
		}
		if j >= 0 {
			a.Values[i], a.Known[i] = h.values[j], true
		}
	}
	return a
}

// At returns the value aligned at position i, and whether it was observed.
func (a Aligned[T]) At(i int) (T, bool) { return a.Values[i], a.Known[i] }

// Last returns the value aligned on the last calendar date.
func (a Aligned[T]) Last() (value T, ok bool) {
	if len(a.Index) == 0 {
		return value, false
	}
	return a.At(len(a.Index) - 1)
}
