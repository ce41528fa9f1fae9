package generic

import "math"

// =============================================================================
// GROWTH LAWS
// =============================================================================

// Growth returns the trend factor at position i (year y) of the sequence.
// covered is false when the factor came from a table default.
type Growth interface {
	Factor(i int, y Year) (f float64, covered bool)
	Tables() []BandTable
}

// Positional grows with the position in the sequence, not with prior values:
//
//	factor = 1 + rate(y) * (i / Per)
type Positional struct {
	Rates BandTable
	Per   float64
}

func (p Positional) Factor(i int, y Year) (float64, bool) {
	rate, ok := p.Rates.Lookup(y)
	per := p.Per
	if per == 0 {
		per = 1
	}
	return 1 + rate*(float64(i)/per), ok
}

func (p Positional) Tables() []BandTable { return []BandTable{p.Rates} }

// Anchored grows with the distance to an anchor year, flat before it:
//
//	factor = 1 + Rate * max(0, (y - From) / Per)
type Anchored struct {
	From Year
	Rate float64
	Per  float64 // defaults to 10 (one decade)
}

func (a Anchored) Factor(_ int, y Year) (float64, bool) {
	if y < a.From {
		return 1, true
	}
	per := a.Per
	if per == 0 {
		per = 10
	}
	return 1 + a.Rate*math.Max(0, float64(y-a.From)/per), true
}

func (a Anchored) Tables() []BandTable { return nil }

// =============================================================================
// CURVE - base * growth * multipliers * noise
// =============================================================================

// Curve is the generic trend synthesizer. A nil Growth is flat (factor 1).
type Curve struct {
	Base        Base
	Growth      Growth
	Multipliers []Multiplier
	Sigma       float64
}

// Synthesize implements Synthesizer.
func (c Curve) Synthesize(in Input) (Series, []Warning) {
	base := c.Base.Resolve(in.Bases)
	out := make(Series, len(in.Years))
	var warnings []Warning

	for i, y := range in.Years {
		growth := 1.0
		if c.Growth != nil {
			g, ok := c.Growth.Factor(i, y)
			if !ok {
				for _, t := range c.Growth.Tables() {
					warnings = append(warnings, Warning{Attribute: in.Attribute, Table: t.Name, Year: y})
				}
			}
			growth = g
		}

		multiplier := 1.0
		for _, m := range c.Multipliers {
			if t, isTable := m.(BandTable); isTable {
				v, ok := t.Lookup(y)
				if !ok {
					warnings = append(warnings, Warning{Attribute: in.Attribute, Table: t.Name, Year: y})
				}
				multiplier *= v
				continue
			}
			multiplier *= m.At(y)
		}

		out[i] = base * growth * multiplier * noise(in.Rand, c.Sigma)
	}
	return out, warnings
}

// Tables implements Synthesizer.
func (c Curve) Tables() []BandTable {
	var tables []BandTable
	if c.Growth != nil {
		tables = append(tables, c.Growth.Tables()...)
	}
	for _, m := range c.Multipliers {
		if t, ok := m.(BandTable); ok {
			tables = append(tables, t)
		}
	}
	return tables
}
