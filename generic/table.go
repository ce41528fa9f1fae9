/*
table.go - Row-per-year record table

PURPOSE:
  The Table is the single artifact handed to reporting, storage and export.
  It zips every generated Series with the year index in a fixed column order.

INVARIANTS:
  - len(Rows) == len(years), Rows[i].Year == years[i]
  - every row carries exactly len(Columns) values (no missing cells)
  - generated tables hold finite values only (CheckFinite)
  - column names are unique
  - tables are values: Clone before changing anything

ASSEMBLY:
  Assemble fails with ErrSeriesLength if any series has the wrong length.
  This is a configuration error of the model, never a data condition.

SEE ALSO:
  - overlay.go: Produces adjusted copies of a table
  - engine.go: Calls Assemble after all synthesizers complete
*/
package generic

import (
	"fmt"
	"math"
)

// =============================================================================
// RECORD / TABLE
// =============================================================================

// Record is one year of the table. Values are aligned with Table.Columns.
type Record struct {
	Year   Year
	Values []float64
}

// Table is the ordered record set, year ascending.
type Table struct {
	Columns []Attribute
	Rows    []Record

	index map[Attribute]int
}

// NewTable returns an empty table with the given columns.
func NewTable(columns []Attribute) (*Table, error) {
	index := make(map[Attribute]int, len(columns))
	for i, c := range columns {
		if _, dup := index[c]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAttribute, c)
		}
		index[c] = i
	}
	cols := make([]Attribute, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols, index: index}, nil
}

// Assemble zips series with years in the order given by columns.
// Every series must have exactly len(years) values.
func Assemble(years Years, columns []Attribute, series map[Attribute]Series) (*Table, error) {
	t, err := NewTable(columns)
	if err != nil {
		return nil, err
	}
	for _, c := range columns {
		if got := len(series[c]); got != len(years) {
			return nil, &LengthMismatchError{Attribute: c, Want: len(years), Got: got}
		}
	}

	t.Rows = make([]Record, len(years))
	for i, y := range years {
		values := make([]float64, len(columns))
		for j, c := range columns {
			values[j] = series[c][i]
		}
		t.Rows[i] = Record{Year: y, Values: values}
	}
	return t, nil
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Years returns the year index of the table.
func (t *Table) Years() Years {
	ys := make(Years, len(t.Rows))
	for i, r := range t.Rows {
		ys[i] = r.Year
	}
	return ys
}

// ColumnIndex returns the position of attribute a.
func (t *Table) ColumnIndex(a Attribute) (int, bool) {
	if t.index != nil {
		i, ok := t.index[a]
		return i, ok
	}
	for i, c := range t.Columns {
		if c == a {
			return i, true
		}
	}
	return -1, false
}

// HasColumn reports whether the table defines attribute a.
func (t *Table) HasColumn(a Attribute) bool {
	_, ok := t.ColumnIndex(a)
	return ok
}

// rowIndex returns the position of year y. Rows are consecutive years.
func (t *Table) rowIndex(y Year) int {
	if len(t.Rows) == 0 {
		return -1
	}
	i := int(y - t.Rows[0].Year)
	if i < 0 || i >= len(t.Rows) || t.Rows[i].Year != y {
		return -1
	}
	return i
}

// Value returns the cell for (y, a).
func (t *Table) Value(y Year, a Attribute) (float64, bool) {
	j, ok := t.ColumnIndex(a)
	if !ok {
		return 0, false
	}
	i := t.rowIndex(y)
	if i < 0 {
		return 0, false
	}
	return t.Rows[i].Values[j], true
}

// Column returns a copy of the series stored under a, or nil.
func (t *Table) Column(a Attribute) Series {
	j, ok := t.ColumnIndex(a)
	if !ok {
		return nil
	}
	out := make(Series, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Values[j]
	}
	return out
}

// CheckFinite returns ErrNonFiniteValue naming the first NaN or infinite
// cell, or nil.
func (t *Table) CheckFinite() error {
	for _, r := range t.Rows {
		for j, v := range r.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: %d/%s = %g", ErrNonFiniteValue, r.Year, t.Columns[j], v)
			}
		}
	}
	return nil
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	out := &Table{
		Columns: make([]Attribute, len(t.Columns)),
		Rows:    make([]Record, len(t.Rows)),
		index:   make(map[Attribute]int, len(t.Columns)),
	}
	copy(out.Columns, t.Columns)
	for i, c := range out.Columns {
		out.index[c] = i
	}
	for i, r := range t.Rows {
		values := make([]float64, len(r.Values))
		copy(values, r.Values)
		out.Rows[i] = Record{Year: r.Year, Values: values}
	}
	return out
}

// Equal reports whether both tables have the same columns, years and
// bit-identical values.
func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}
	if len(t.Columns) != len(o.Columns) || len(t.Rows) != len(o.Rows) {
		return false
	}
	for i := range t.Columns {
		if t.Columns[i] != o.Columns[i] {
			return false
		}
	}
	for i := range t.Rows {
		a, b := t.Rows[i], o.Rows[i]
		if a.Year != b.Year || len(a.Values) != len(b.Values) {
			return false
		}
		for j := range a.Values {
			if a.Values[j] != b.Values[j] {
				return false
			}
		}
	}
	return true
}
