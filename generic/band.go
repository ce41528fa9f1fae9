/*
band.go - Piecewise year tables

PURPOSE:
  A BandTable maps contiguous year ranges to one number: a growth rate, a
  level multiplier, or a base ratio. It replaces chains of literal year
  comparisons with a sorted, inspectable value that can be unit-tested
  independently of noise.

TOTALITY:
  Lookup never fails. A year that falls outside every band resolves to the
  table's explicit Default, and the caller is told so (ok == false) so it can
  surface a data-completeness warning. A complete table never hits Default
  inside the configured range.

COVERAGE:
  Coverage(r) walks the range and reports gaps (years resolved by Default)
  and overlaps (years claimed by more than one band). Overlapping bands
  resolve to the first matching band.

EXAMPLE:
  rates := BandTable{
      Name: "members.growth",
      Bands: []Band{
          {Span(1972, 1980), 0.05},
          {Span(1981, 1987), 0.15},
          {Span(1988, MaxYear), 0.08},
      },
      Default: 0.08,
  }
  rate, ok := rates.Lookup(1985) // 0.15, true

SEE ALSO:
  - period.go: YearRange
  - yearset.go: Membership-list multipliers
  - synth.go: Consumers of band tables
*/
package generic

// =============================================================================
// BAND - One year range, one value
// =============================================================================

// Band maps every year of Years to Value.
type Band struct {
	Years YearRange
	Value float64
}

// Upto is a band covering every year up to and including to.
func Upto(to Year, v float64) Band { return Band{Years: Span(MinYear, to), Value: v} }

// Between is a band covering [from, to].
func Between(from, to Year, v float64) Band { return Band{Years: Span(from, to), Value: v} }

// Since is a band covering from and every later year.
func Since(from Year, v float64) Band { return Band{Years: Span(from, MaxYear), Value: v} }

// =============================================================================
// BAND TABLE - Total function year -> value
// =============================================================================

// BandTable is an ordered list of bands with an explicit default.
type BandTable struct {
	Name    string
	Bands   []Band
	Default float64
}

// Constant returns a table with no bands: every lookup resolves to v and is
// considered covered.
func Constant(name string, v float64) BandTable {
	return BandTable{Name: name, Bands: []Band{{Years: Span(MinYear, MaxYear), Value: v}}, Default: v}
}

// Lookup returns the value of the first band containing y. When no band
// contains y it returns Default and ok == false.
func (t BandTable) Lookup(y Year) (v float64, ok bool) {
	for _, b := range t.Bands {
		if b.Years.Contains(y) {
			return b.Value, true
		}
	}
	return t.Default, false
}

// At returns the resolved value for y, ignoring coverage.
func (t BandTable) At(y Year) float64 {
	v, _ := t.Lookup(y)
	return v
}

// Coverage describes how a table covers a year range.
type Coverage struct {
	Table    string
	Range    YearRange
	Gaps     []YearRange
	Overlaps []YearRange
}

// Complete reports whether every year is claimed by exactly one band.
func (c Coverage) Complete() bool { return len(c.Gaps) == 0 && len(c.Overlaps) == 0 }

// Coverage checks the table against r.
// Complexity: O(len(r) * len(Bands)).
func (t BandTable) Coverage(r YearRange) Coverage {
	cov := Coverage{Table: t.Name, Range: r}
	if !r.Valid() {
		return cov
	}

	var gap, overlap *YearRange
	flush := func(open **YearRange, into *[]YearRange) {
		if *open != nil {
			*into = append(*into, **open)
			*open = nil
		}
	}
	extend := func(open **YearRange, y Year) {
		if *open == nil {
			*open = &YearRange{From: y, To: y}
			return
		}
		(*open).To = y
	}

	for y := r.From; y <= r.To; y++ {
		hits := 0
		for _, b := range t.Bands {
			if b.Years.Contains(y) {
				hits++
			}
		}
		switch {
		case hits == 0:
			extend(&gap, y)
			flush(&overlap, &cov.Overlaps)
		case hits > 1:
			extend(&overlap, y)
			flush(&gap, &cov.Gaps)
		default:
			flush(&gap, &cov.Gaps)
			flush(&overlap, &cov.Overlaps)
		}
		if y == MaxYear {
			break
		}
	}
	flush(&gap, &cov.Gaps)
	flush(&overlap, &cov.Overlaps)
	return cov
}
