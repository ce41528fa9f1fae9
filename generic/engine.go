/*
engine.go - The generation pipeline

PURPOSE:
  Runs a Model under a Config: validate, synthesize every column, assemble
  the table, then apply the overlay rules.

PIPELINE:
  1. Config.Validate and Model.Validate (fatal, nothing generated)
  2. NewYears(start, end)
  3. One goroutine per column, each with its own seeded *rand.Rand
  4. Assemble in the model's column order; every cell must be finite
  5. ApplyRules on the assembled table (only after step 3 fully completes)

DETERMINISM:
  Column i draws from rand.New(rand.NewSource(seedFor(seed, attribute))).
  Streams are keyed by attribute name, not by goroutine scheduling or column
  position, so a fixed seed yields bit-identical tables whether the engine
  runs concurrently or sequentially, and adding a column does not disturb
  the others.

EXAMPLE:
  engine := generic.NewEngine(party.Model())
  result, err := engine.Generate(ctx, generic.Config{
      Start: 1972, End: 2025, Seed: 42,
      Bases: generic.Bases{Members: 50000, Budget: 8},
  })
  seats, _ := result.Table.Value(2022, party.NationalSeats)

SEE ALSO:
  - synth.go: Synthesizer contract
  - table.go: Assembly
  - overlay.go: Rules
*/
package generic

import (
	"context"
	"fmt"
	"hash/fnv"
	"log"
	"math"
	"math/rand"
	"sync"
)

// =============================================================================
// MODEL - Columns and rules
// =============================================================================

// Column binds an attribute to the synthesizer that generates it.
type Column struct {
	Info  AttributeInfo
	Synth Synthesizer
}

// Model is the complete, ordered description of a history.
type Model struct {
	Name    string
	Columns []Column
	Rules   []Rule
}

// Attributes returns the column names in table order.
func (m Model) Attributes() []Attribute {
	out := make([]Attribute, len(m.Columns))
	for i, c := range m.Columns {
		out[i] = c.Info.Name
	}
	return out
}

// Info returns the metadata of attribute a.
func (m Model) Info(a Attribute) (AttributeInfo, bool) {
	for _, c := range m.Columns {
		if c.Info.Name == a {
			return c.Info, true
		}
	}
	return AttributeInfo{}, false
}

// Validate checks column uniqueness and that every rule is well-formed and
// targets a defined column.
func (m Model) Validate() error {
	if len(m.Columns) == 0 {
		return ErrEmptyModel
	}
	seen := make(map[Attribute]bool, len(m.Columns))
	for _, c := range m.Columns {
		if seen[c.Info.Name] {
			return fmt.Errorf("%w: %s", ErrDuplicateAttribute, c.Info.Name)
		}
		if c.Synth == nil {
			return fmt.Errorf("column %s has no synthesizer", c.Info.Name)
		}
		seen[c.Info.Name] = true
	}
	return validateRules(m.Rules, seen)
}

func validateRules(rules []Rule, columns map[Attribute]bool) error {
	for _, r := range rules {
		if err := r.Validate(); err != nil {
			return err
		}
		if !columns[r.Attribute] {
			return &UnknownAttributeError{Attribute: r.Attribute, Context: fmt.Sprintf("rule %d/%s", r.Year, r.Attribute)}
		}
	}
	return nil
}

// Coverage checks every band table of every column against r.
func (m Model) Coverage(r YearRange) []Coverage {
	var out []Coverage
	for _, c := range m.Columns {
		for _, t := range c.Synth.Tables() {
			out = append(out, t.Coverage(r))
		}
	}
	return out
}

// =============================================================================
// CONFIG
// =============================================================================

// Config is the per-run configuration surface.
type Config struct {
	Start Year
	End   Year
	Seed  int64
	Bases Bases

	// DisableEvents skips the model's own rules; ExtraRules still apply.
	DisableEvents bool
	ExtraRules    []Rule
}

// Limits on the configurable year range.
const (
	FirstConfigYear Year = 1
	LastConfigYear  Year = 9999
	MaxConfigYears       = 1000
)

// Validate rejects malformed configuration before any generation begins.
func (c Config) Validate() error {
	if c.End < c.Start {
		return fmt.Errorf("%w: %d-%d", ErrInvalidRange, c.Start, c.End)
	}
	if c.Start < FirstConfigYear || c.End > LastConfigYear {
		return fmt.Errorf("%w: %d-%d outside %d-%d", ErrInvalidRange, c.Start, c.End, FirstConfigYear, LastConfigYear)
	}
	if n := Span(c.Start, c.End).Len(); n > MaxConfigYears {
		return fmt.Errorf("%w: %d years, at most %d", ErrInvalidRange, n, MaxConfigYears)
	}
	if !(c.Bases.Members > 0) || math.IsInf(c.Bases.Members, 0) {
		return fmt.Errorf("%w: members base %g", ErrNegativeBase, c.Bases.Members)
	}
	if !(c.Bases.Budget > 0) || math.IsInf(c.Bases.Budget, 0) {
		return fmt.Errorf("%w: budget base %g", ErrNegativeBase, c.Bases.Budget)
	}
	return nil
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine generates tables for one model.
type Engine struct {
	Model  Model
	Logger *log.Logger

	// Sequential disables the per-column goroutines. Results are identical
	// either way.
	Sequential bool
}

// NewEngine creates an engine logging to log.Default().
func NewEngine(m Model) *Engine {
	return &Engine{Model: m, Logger: log.Default()}
}

// Result is everything one generation produced.
type Result struct {
	Config   Config
	Years    Years
	Raw      *Table // synthesizer output, before the overlay
	Table    *Table // final table
	Overlay  OverlayReport
	Warnings []Warning
}

// Rules returns the rules a config activates on the model.
func (e *Engine) Rules(cfg Config) []Rule {
	var rules []Rule
	if !cfg.DisableEvents {
		rules = append(rules, e.Model.Rules...)
	}
	return append(rules, cfg.ExtraRules...)
}

// Generate runs the full pipeline.
func (e *Engine) Generate(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := e.Model.Validate(); err != nil {
		return nil, err
	}
	rules := e.Rules(cfg)
	if err := validateRules(rules, attributeSet(e.Model.Attributes())); err != nil {
		return nil, err
	}

	years, err := NewYears(cfg.Start, cfg.End)
	if err != nil {
		return nil, err
	}

	outputs, err := e.synthesize(ctx, years, cfg)
	if err != nil {
		return nil, err
	}

	series := make(map[Attribute]Series, len(outputs))
	var warnings []Warning
	for i, c := range e.Model.Columns {
		series[c.Info.Name] = outputs[i].series
		warnings = append(warnings, outputs[i].warnings...)
	}
	for _, w := range warnings {
		e.logger().Printf("[engine] WARN: %s", w)
	}

	raw, err := Assemble(years, e.Model.Attributes(), series)
	if err != nil {
		return nil, err
	}

	if err := raw.CheckFinite(); err != nil {
		return nil, err
	}

	final, report, err := ApplyRules(raw, rules, e.logger())
	if err != nil {
		return nil, err
	}

	return &Result{
		Config:   cfg,
		Years:    years,
		Raw:      raw,
		Table:    final,
		Overlay:  report,
		Warnings: warnings,
	}, nil
}

type synthOutput struct {
	series   Series
	warnings []Warning
}

func (e *Engine) synthesize(ctx context.Context, years Years, cfg Config) ([]synthOutput, error) {
	outputs := make([]synthOutput, len(e.Model.Columns))

	run := func(i int) {
		c := e.Model.Columns[i]
		s, w := c.Synth.Synthesize(Input{
			Attribute: c.Info.Name,
			Years:     years,
			Bases:     cfg.Bases,
			Rand:      rand.New(rand.NewSource(seedFor(cfg.Seed, c.Info.Name))),
		})
		outputs[i] = synthOutput{series: s, warnings: w}
	}

	if e.Sequential {
		for i := range e.Model.Columns {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			run(i)
		}
		return outputs, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var wg sync.WaitGroup
	for i := range e.Model.Columns {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			run(i)
		}(i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outputs, nil
}

func (e *Engine) logger() *log.Logger {
	if e.Logger == nil {
		return log.Default()
	}
	return e.Logger
}

// seedFor derives the per-column seed from the run seed and the column name.
func seedFor(seed int64, a Attribute) int64 {
	h := fnv.New64a()
	h.Write([]byte(a))
	return seed ^ int64(h.Sum64())
}

func attributeSet(attrs []Attribute) map[Attribute]bool {
	m := make(map[Attribute]bool, len(attrs))
	for _, a := range attrs {
		m[a] = true
	}
	return m
}
