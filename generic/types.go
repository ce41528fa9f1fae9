/*
Package generic provides the core synthetic history engine.

PURPOSE:
  This package contains domain-agnostic types and algorithms for generating
  row-per-year histories. Whether modelling a party's finances, a union's
  membership or a charity's fundraising, the same engine handles year ranges,
  band tables, seeded noise, table assembly and event overlays.

KEY CONCEPTS IN THIS FILE (types.go):
  - Year / Years: the calendar index every series is aligned with
  - Series: one generated value per year
  - Attribute: a typed column name with display metadata
  - Amount: a decimal quantity with a unit (used by reporting)

DESIGN PRINCIPLES:
  1. Independence: no series reads another series' values
  2. Determinism: randomness is injected, never drawn from global state
  3. Purity: overlays return new tables, inputs are never mutated
  4. Totality: every year resolves to a value, out-of-band years through an
     explicit default that is reported as a warning

USAGE:
  years, err := generic.NewYears(1972, 2025)
  series, warnings := curve.Synthesize(generic.Input{Years: years, Rand: rng})

SEE ALSO:
  - band.go: Band tables and coverage checks
  - synth.go: Synthesizer interface and implementations
  - table.go: Table assembly
  - overlay.go: Event rules
  - engine.go: The full pipeline
*/
package generic

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// YEARS - The index every series is aligned with
// =============================================================================

// Year is a calendar year.
type Year int

func (y Year) String() string { return fmt.Sprintf("%d", int(y)) }

// Years is a strictly increasing sequence of consecutive calendar years.
type Years []Year

// NewYears returns [start..end]. The result always has end-start+1 entries.
func NewYears(start, end Year) (Years, error) {
	if end < start {
		return nil, fmt.Errorf("%w: %d-%d", ErrInvalidRange, start, end)
	}
	years := make(Years, 0, int(end-start)+1)
	for y := start; y <= end; y++ {
		years = append(years, y)
	}
	return years, nil
}

// First returns the first year, or 0 for an empty sequence.
func (ys Years) First() Year {
	if len(ys) == 0 {
		return 0
	}
	return ys[0]
}

// Last returns the last year, or 0 for an empty sequence.
func (ys Years) Last() Year {
	if len(ys) == 0 {
		return 0
	}
	return ys[len(ys)-1]
}

// Index returns the position of year y, or -1 if y is outside the sequence.
func (ys Years) Index(y Year) int {
	if len(ys) == 0 || y < ys[0] || y > ys[len(ys)-1] {
		return -1
	}
	return int(y - ys[0])
}

// Series is one value per year, positionally aligned with Years.
type Series []float64

// =============================================================================
// ATTRIBUTE - Column identity and metadata
// =============================================================================

// Attribute is the stable column name of a generated series.
type Attribute string

func (a Attribute) String() string { return string(a) }

// Category groups attributes the way the report groups them.
type Category string

const (
	CategoryOrganization Category = "organization"
	CategoryRevenue      Category = "revenue"
	CategoryExpense      Category = "expense"
	CategoryIndicator    Category = "indicator"
	CategoryInvestment   Category = "investment"
)

// Sign states which values a column may legitimately hold.
type Sign string

const (
	// SignMagnitude columns model sizes and amounts. Individual noisy draws
	// may dip below zero, their mean over many runs may not.
	SignMagnitude Sign = "magnitude"

	// SignSigned columns model balances that are negative by construction.
	SignSigned Sign = "signed"
)

// AttributeInfo describes a column.
type AttributeInfo struct {
	Name     Attribute
	Label    string
	Unit     Unit
	Category Category
	Sign     Sign
}

// =============================================================================
// AMOUNT - Quantity with unit
// =============================================================================

type Amount struct {
	Value decimal.Decimal
	Unit  Unit
}

type Unit string

const (
	UnitMillionEUR Unit = "M€"
	UnitPeople     Unit = "people"
	UnitCount      Unit = "count"
	UnitSeats      Unit = "seats"
	UnitPercent    Unit = "%"
	UnitRatio      Unit = "ratio"
)

// String formats the amount with two decimals and its unit.
func (a Amount) String() string {
	if a.Unit == "" {
		return a.Value.StringFixed(2)
	}
	return a.Value.StringFixed(2) + " " + string(a.Unit)
}

// Ratio returns a/b as a percentage amount; zero when b is zero.
func Ratio(a, b Amount) Amount {
	if b.Value.IsZero() {
		return Amount{Value: decimal.Zero, Unit: UnitPercent}
	}
	return Amount{Value: a.Value.Div(b.Value).Mul(decimal.NewFromInt(100)), Unit: UnitPercent}
}
