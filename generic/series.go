package generic

// =============================================================================
// COMPOUND - Running level that changes by a yearly rate
// =============================================================================

// Compound keeps a running level, starting at Base, and multiplies it by
// (1 + change) every year before applying noise to the emitted value:
//
//	level_i = level_{i-1} * (1 + Changes.At(y_i))
//	value_i = level_i * noise
//
// The feedback is confined to the synthesizer's own level; noise is never
// fed back.
type Compound struct {
	Base    Base
	Changes YearSet
	Sigma   float64
}

// Synthesize implements Synthesizer.
func (c Compound) Synthesize(in Input) (Series, []Warning) {
	level := c.Base.Resolve(in.Bases)
	out := make(Series, len(in.Years))
	for i, y := range in.Years {
		level *= 1 + c.Changes.At(y)
		out[i] = level * noise(in.Rand, c.Sigma)
	}
	return out, nil
}

// Tables implements Synthesizer.
func (c Compound) Tables() []BandTable { return nil }

// =============================================================================
// DISCRETE - Literal per-year results
// =============================================================================

// YearValues is an exact year -> value mapping; unlisted years are 0.
type YearValues struct {
	Name   string
	Values map[Year]float64
}

// Discrete sums one or more literal tables. It never draws noise: election
// results and seat counts are facts, not trends.
type Discrete struct {
	Results []YearValues
}

// Lookup returns the exact value for a single year.
func (d Discrete) Lookup(y Year) float64 {
	var v float64
	for _, t := range d.Results {
		v += t.Values[y]
	}
	return v
}

// Synthesize implements Synthesizer.
func (d Discrete) Synthesize(in Input) (Series, []Warning) {
	out := make(Series, len(in.Years))
	for i, y := range in.Years {
		out[i] = d.Lookup(y)
	}
	return out, nil
}

// Tables implements Synthesizer.
func (d Discrete) Tables() []BandTable { return nil }
