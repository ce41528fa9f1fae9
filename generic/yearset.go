package generic

// =============================================================================
// YEAR SETS - Multipliers keyed by membership in fixed year lists
// =============================================================================

// Multiplier is anything that resolves a year to a scale factor.
// BandTable and YearSet both implement it.
type Multiplier interface {
	At(y Year) float64
}

var (
	_ Multiplier = BandTable{}
	_ Multiplier = YearSet{}
)

// Tier is one list of special years sharing a factor.
type Tier struct {
	Label  string
	Years  []Year
	Factor float64
}

// Has reports whether y is listed in the tier.
func (t Tier) Has(y Year) bool {
	for _, v := range t.Years {
		if v == y {
			return true
		}
	}
	return false
}

// YearSet resolves a year to the factor of the first tier listing it, and to
// Default otherwise. Tier order matters when lists share years: a
// presidential year that is also a legislative year takes the presidential
// factor if that tier comes first.
type YearSet struct {
	Name    string
	Tiers   []Tier
	Default float64
}

// Special returns a single-tier set: factor for the listed years, 1 elsewhere.
func Special(name string, factor float64, years ...Year) YearSet {
	return YearSet{Name: name, Tiers: []Tier{{Label: name, Years: years, Factor: factor}}, Default: 1}
}

// Lookup returns the factor for y and whether a tier matched.
func (s YearSet) Lookup(y Year) (float64, bool) {
	for _, t := range s.Tiers {
		if t.Has(y) {
			return t.Factor, true
		}
	}
	return s.Default, false
}

// At returns the resolved factor for y.
func (s YearSet) At(y Year) float64 {
	f, _ := s.Lookup(y)
	return f
}
