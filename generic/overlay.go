/*
overlay.go - Historical event adjustments

PURPOSE:
  After synthesis, a hand-authored list of rules nudges specific cells to
  encode known inflection points (a founding year, a breakthrough election,
  a funding scandal). Each rule touches exactly one (year, attribute) cell.

OPERATIONS:
  multiply: cell = cell * Value (the common case)
  set:      cell = Value (a known ground-truth figure overriding the model)

PURITY:
  ApplyRules never mutates its input. It clones the table, applies every
  rule to the clone, and returns the clone together with a report of what
  was applied and what was skipped. Callers keep the raw table for audits.

FAILURE SEMANTICS:
  - Year outside the table: rule skipped, logged, listed in Skipped
  - Attribute not in the table: configuration error, nothing is returned
  - Unknown operation or non-finite value: configuration error

ORDERING:
  Rules are applied in slice order. Rules for the same year target distinct
  attributes, so their relative order does not change the result.

SEE ALSO:
  - table.go: Table
  - engine.go: Overlay runs only after every synthesizer has completed
*/
package generic

import (
	"fmt"
	"log"
	"math"
)

// =============================================================================
// RULE
// =============================================================================

// Op is the operation a rule performs on its cell.
type Op string

const (
	OpMultiply Op = "multiply"
	OpSet      Op = "set"
)

// Rule adjusts one cell. The zero Op means multiply.
type Rule struct {
	Year      Year
	Attribute Attribute
	Op        Op
	Value     float64
	Event     string // human label, e.g. "Founding"
}

// Multiply is shorthand for a multiplicative rule.
func Multiply(y Year, a Attribute, factor float64) Rule {
	return Rule{Year: y, Attribute: a, Op: OpMultiply, Value: factor}
}

// Set is shorthand for a replacing rule.
func Set(y Year, a Attribute, value float64) Rule {
	return Rule{Year: y, Attribute: a, Op: OpSet, Value: value}
}

func (r Rule) op() Op {
	if r.Op == "" {
		return OpMultiply
	}
	return r.Op
}

// Validate checks the rule independently of any table.
func (r Rule) Validate() error {
	switch r.op() {
	case OpMultiply, OpSet:
	default:
		return fmt.Errorf("%w: %s: unknown op %q", ErrInvalidRule, r, r.Op)
	}
	if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) {
		return fmt.Errorf("%w: %s: value must be finite", ErrInvalidRule, r)
	}
	return nil
}

// apply returns the new cell value.
func (r Rule) apply(v float64) float64 {
	if r.op() == OpSet {
		return r.Value
	}
	return v * r.Value
}

func (r Rule) String() string {
	if r.op() == OpSet {
		return fmt.Sprintf("%d/%s = %g", r.Year, r.Attribute, r.Value)
	}
	return fmt.Sprintf("%d/%s x%g", r.Year, r.Attribute, r.Value)
}

// =============================================================================
// APPLY
// =============================================================================

// AppliedRule records the cell before and after a rule.
type AppliedRule struct {
	Rule   Rule
	Before float64
	After  float64
}

// OverlayReport lists what ApplyRules did.
type OverlayReport struct {
	Applied []AppliedRule
	Skipped []Rule
}

// ApplyRules returns a copy of t with every rule applied. t is not modified.
// A nil logger logs to log.Default().
func ApplyRules(t *Table, rules []Rule, logger *log.Logger) (*Table, OverlayReport, error) {
	if logger == nil {
		logger = log.Default()
	}

	var report OverlayReport
	for _, r := range rules {
		if err := r.Validate(); err != nil {
			return nil, report, err
		}
		if !t.HasColumn(r.Attribute) {
			return nil, report, &UnknownAttributeError{Attribute: r.Attribute, Context: fmt.Sprintf("rule %d/%s", r.Year, r.Attribute)}
		}
	}

	out := t.Clone()
	for _, r := range rules {
		i := out.rowIndex(r.Year)
		if i < 0 {
			logger.Printf("[overlay] WARN: skipping rule %s (%s): year outside %d-%d",
				r, r.Event, out.Years().First(), out.Years().Last())
			report.Skipped = append(report.Skipped, r)
			continue
		}
		j, _ := out.ColumnIndex(r.Attribute)
		before := out.Rows[i].Values[j]
		after := r.apply(before)
		if math.IsNaN(after) || math.IsInf(after, 0) {
			return nil, report, fmt.Errorf("%w: %s (%s): %g -> %g is not finite", ErrInvalidRule, r, r.Event, before, after)
		}
		out.Rows[i].Values[j] = after
		report.Applied = append(report.Applied, AppliedRule{Rule: r, Before: before, After: after})
	}
	return out, report, nil
}
