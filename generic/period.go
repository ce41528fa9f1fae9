package generic

import "fmt"

// =============================================================================
// YEAR RANGE - Inclusive span of calendar years
// =============================================================================

// Open ends for ranges such as "up to 1980" or "from 2011 on".
const (
	MinYear Year = -1 << 31
	MaxYear Year = 1<<31 - 1
)

// YearRange is the inclusive span [From, To].
//
// Examples:
//   - Founding period:    {1972, 1980}
//   - Everything to 1990: {MinYear, 1990}
//   - 2011 onward:        {2011, MaxYear}
type YearRange struct {
	From Year
	To   Year
}

// Span is shorthand for YearRange{from, to}.
func Span(from, to Year) YearRange { return YearRange{From: from, To: to} }

// Contains returns true if y is within [From, To].
func (r YearRange) Contains(y Year) bool {
	return y >= r.From && y <= r.To
}

// Valid reports whether the range is non-empty.
func (r YearRange) Valid() bool { return r.From <= r.To }

// Len returns the number of years in the range.
func (r YearRange) Len() int {
	if !r.Valid() {
		return 0
	}
	return int(r.To-r.From) + 1
}

// Overlaps reports whether the two ranges share at least one year.
func (r YearRange) Overlaps(o YearRange) bool {
	return r.From <= o.To && o.From <= r.To
}

// String returns a string representation of the range.
func (r YearRange) String() string {
	switch {
	case r.From == MinYear && r.To == MaxYear:
		return "[all years]"
	case r.From == MinYear:
		return fmt.Sprintf("[..%d]", r.To)
	case r.To == MaxYear:
		return fmt.Sprintf("[%d..]", r.From)
	default:
		return fmt.Sprintf("[%d, %d]", r.From, r.To)
	}
}
