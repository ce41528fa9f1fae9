package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/warp/partyfin/generic"
)

// WriteCSV writes the table with a header row: year, then every column in
// table order. Values use the shortest representation that round-trips.
func WriteCSV(w io.Writer, t *generic.Table) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(t.Columns)+1)
	header = append(header, "year")
	for _, c := range t.Columns {
		header = append(header, string(c))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	record := make([]string, len(header))
	for _, row := range t.Rows {
		record[0] = strconv.Itoa(int(row.Year))
		for j, v := range row.Values {
			record[j+1] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a table written by WriteCSV. Column names must be
// registered attributes and every cell must be finite.
func ReadCSV(r io.Reader) (*generic.Table, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	if len(records) == 0 || len(records[0]) == 0 || records[0][0] != "year" {
		return nil, fmt.Errorf("reading csv: missing year header")
	}

	columns := make([]generic.Attribute, 0, len(records[0])-1)
	for _, name := range records[0][1:] {
		a, err := generic.ResolveAttribute(name, "csv header")
		if err != nil {
			return nil, err
		}
		columns = append(columns, a)
	}
	t, err := generic.NewTable(columns)
	if err != nil {
		return nil, err
	}

	for i, rec := range records[1:] {
		y, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("csv line %d: year: %w", i+2, err)
		}
		if i > 0 && generic.Year(y) != t.Rows[i-1].Year+1 {
			return nil, fmt.Errorf("csv line %d: %w: years must be consecutive", i+2, generic.ErrInvalidRange)
		}
		values := make([]float64, len(columns))
		for j := range columns {
			if values[j], err = strconv.ParseFloat(rec[j+1], 64); err != nil {
				return nil, fmt.Errorf("csv line %d, %s: %w", i+2, columns[j], err)
			}
		}
		t.Rows = append(t.Rows, generic.Record{Year: generic.Year(y), Values: values})
	}
	if err := t.CheckFinite(); err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	return t, nil
}
