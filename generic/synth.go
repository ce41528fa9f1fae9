/*
synth.go - Synthesizer interface and shared inputs

PURPOSE:
  A Synthesizer turns the year index into one Series. Implementations define
  the shape (trend curve, compounding level, literal lookup) while the engine
  owns scheduling, seeding and assembly.

CONTRACT:
  - len(output) == len(in.Years)
  - output depends only on in.Years, in.Bases, the synthesizer's own
    configuration and draws from in.Rand
  - no synthesizer reads another synthesizer's output
  - years resolved through a band table's Default are returned as Warnings

RANDOMNESS:
  in.Rand is owned by exactly one synthesizer for the duration of the call.
  A nil Rand means "no noise": every noise factor is 1.

BASES:
  Base values are expressed relative to the configuration's named scalars
  (organization size, budget) so changing a scalar scales every dependent
  series proportionally.

SEE ALSO:
  - curve.go: Curve, growth laws
  - series.go: Compound and Discrete synthesizers
  - engine.go: Seeding and scheduling
*/
package generic

import (
	"fmt"
	"math/rand"
)

// =============================================================================
// SYNTHESIZER
// =============================================================================

// Synthesizer generates one Series aligned with in.Years.
type Synthesizer interface {
	Synthesize(in Input) (Series, []Warning)

	// Tables returns the band tables the synthesizer resolves years through,
	// so their coverage can be checked without generating anything.
	Tables() []BandTable
}

// Input carries everything a synthesizer may depend on.
type Input struct {
	Attribute Attribute
	Years     Years
	Bases     Bases
	Rand      *rand.Rand
}

// Warning flags a year that was resolved through a table default.
type Warning struct {
	Attribute Attribute
	Table     string
	Year      Year
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: year %d outside every band of %s, default used", w.Attribute, w.Year, w.Table)
}

// =============================================================================
// BASES - Named scalars every base value is relative to
// =============================================================================

// BaseKey names one configuration scalar.
type BaseKey string

const (
	BaseAbsolute BaseKey = ""        // Factor is the base itself
	BaseMembers  BaseKey = "members" // organization size
	BaseBudget   BaseKey = "budget"  // annual budget, M€
)

// Bases holds the configured scalars.
type Bases struct {
	Members float64
	Budget  float64
}

// Base is Factor times the named scalar.
type Base struct {
	Of     BaseKey
	Factor float64
}

// OfBudget is shorthand for a share of the budget scalar.
func OfBudget(f float64) Base { return Base{Of: BaseBudget, Factor: f} }

// OfMembers is shorthand for a share of the organization-size scalar.
func OfMembers(f float64) Base { return Base{Of: BaseMembers, Factor: f} }

// Absolute is shorthand for a fixed base independent of configuration.
func Absolute(v float64) Base { return Base{Of: BaseAbsolute, Factor: v} }

// Resolve returns the base value under bs.
func (b Base) Resolve(bs Bases) float64 {
	switch b.Of {
	case BaseMembers:
		return b.Factor * bs.Members
	case BaseBudget:
		return b.Factor * bs.Budget
	default:
		return b.Factor
	}
}

// noise draws a multiplicative factor ~ Normal(1, sigma).
func noise(r *rand.Rand, sigma float64) float64 {
	if sigma == 0 || r == nil {
		return 1
	}
	return 1 + sigma*r.NormFloat64()
}
