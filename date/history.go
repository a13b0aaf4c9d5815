package date

import (
	"iter"
	"slices"
)

// History stores a chronological series of values, each associated with a specific date.
// It ensures that dates are unique and the series is always sorted.
type History[T any] struct {
	days   []Date
	values []T
}

// search returns the position of day, and whether it is already present.
func (h *History[T]) search(day Date) (int, bool) {
	return slices.BinarySearchFunc(h.days, day, Date.Compare)
}

// Len returns the number of items in the history.
func (h *History[T]) Len() int {
	if h == nil {
		return 0
	}
	return len(h.days)
}

// Append adds a point to the history.
//
// Existing value at that date is overwritten.
func (h *History[T]) Append(on Date, v T) *History[T] {
	i, found := h.search(on)
	if found {
		h.values[i] = v
		return h
	}
	h.days = slices.Insert(h.days, i, on)
	h.values = slices.Insert(h.values, i, v)
	return h
}

// Merge adds a point to the history, combining it with the value already
// recorded at that date, if any.
func (h *History[T]) Merge(on Date, v T, combine func(old, v T) T) *History[T] {
	if i, found := h.search(on); found {
		h.values[i] = combine(h.values[i], v)
		return h
	}
	return h.Append(on, v)
}

// First returns the earliest date and value in the history.
func (h *History[T]) First() (day Date, value T) {
	if h.Len() == 0 {
		return Date{}, value
	}
	return h.days[0], h.values[0]
}

// Latest returns the latest date and value in the history.
// If the history is empty, it returns zero value.
func (h *History[T]) Latest() (day Date, value T) {
	last := h.Len() - 1
	if last < 0 {
		return Date{}, value
	}
	return h.days[last], h.values[last]
}

// Values returns an iterator over all date/value pairs in the history, in chronological order.
func (h *History[T]) Values() iter.Seq2[Date, T] {
	return func(yield func(Date, T) bool) {
		if h == nil {
			return
		}
		for i, on := range h.days {
			if !yield(on, h.values[i]) {
				return
			}
		}
	}
}

// Get returns the value at 'day' and true or zero value and false.
func (h *History[T]) Get(day Date) (value T, ok bool) {
	if h.Len() == 0 {
		return value, false
	}
	if i, found := h.search(day); found {
		return h.values[i], true
	}
	return value, false
}

// asOf returns the index of the last point on or before day, or -1.
func (h *History[T]) asOf(day Date) int {
	if h.Len() == 0 {
		return -1
	}
	i, found := h.search(day)
	if found {
		return i
	}
	return i - 1
}

// ValueAsOf returns the value on a given day, or the most recent value before it.
// It returns the value and true if found, otherwise it returns the zero value and false.
func (h *History[T]) ValueAsOf(day Date) (value T, ok bool) {
	i := h.asOf(day)
	if i < 0 {
		return value, false
	}
	return h.values[i], true
}

// PriorAsOf returns the observation preceding the one ValueAsOf(day) would return.
func (h *History[T]) PriorAsOf(day Date) (value T, ok bool) {
	i := h.asOf(day) - 1
	if i < 0 {
		return value, false
	}
	return h.values[i], true
}

// Until returns a view of the history restricted to points on or before day.
//
// The view shares memory with h and must not be appended to.
func (h *History[T]) Until(day Date) *History[T] {
	n := h.asOf(day) + 1
	if n <= 0 {
		return new(History[T])
	}
	return &History[T]{days: h.days[:n:n], values: h.values[:n:n]}
}
