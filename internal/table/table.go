// Package table holds the tabular data exchanged between the caller, the
// generators and the output writer.
//
// Every value is opaque text. An absent value (a NaN-style blank cell, or a
// cell missing from a short row) is represented by the empty string.
package table

import (
	"slices"
	"strconv"
)

// Table is a named, ordered set of records sharing one column layout.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// New creates an empty table with the given columns.
func New(name string, columns ...string) *Table {
	return &Table{
		Name:    name,
		Columns: slices.Clone(columns),
	}
}

// FromRecords builds a table from column-keyed records. Keys missing from a
// record become empty cells; keys not listed in columns are ignored.
func FromRecords(name string, columns []string, records []map[string]string) *Table {
	t := New(name, columns...)
	for _, rec := range records {
		row := make([]string, len(columns))
		for i, c := range columns {
			row[i] = rec[c]
		}

		t.Rows = append(t.Rows, row)
	}

	return t
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}

	return len(t.Rows)
}

// IsEmpty returns true if the table is nil or has no rows.
func (t *Table) IsEmpty() bool {
	return t.Len() == 0
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	return slices.Index(t.Columns, name)
}

// HasColumn returns true if the table declares the named column.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Column returns a copy of the named column's values aligned to rows.
func (t *Table) Column(name string) ([]string, bool) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, false
	}

	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = cell(row, idx)
	}

	return out, true
}

// Cell returns the value at row r of the named column, or "" when either is absent.
func (t *Table) Cell(r int, name string) string {
	idx := t.ColumnIndex(name)
	if idx < 0 || r < 0 || r >= len(t.Rows) {
		return ""
	}

	return cell(t.Rows[r], idx)
}

// Record returns row r as a column-keyed map.
func (t *Table) Record(r int) map[string]string {
	rec := make(map[string]string, len(t.Columns))
	for i, c := range t.Columns {
		rec[c] = cell(t.Rows[r], i)
	}

	return rec
}

// RowIDs returns positional row identifiers ("0", "1", ...). They stand in
// for column input when a transform generates values without a source column.
func (t *Table) RowIDs() []string {
	ids := make([]string, len(t.Rows))
	for i := range ids {
		ids[i] = strconv.Itoa(i)
	}

	return ids
}

// AppendRow appends one row; short rows are padded and long rows truncated
// to the column count.
func (t *Table) AppendRow(values ...string) {
	row := make([]string, len(t.Columns))
	copy(row, values)
	t.Rows = append(t.Rows, row)
}

// Clone returns a deep copy, so callers' tables are never mutated.
func (t *Table) Clone() *Table {
	c := New(t.Name, t.Columns...)
	c.Rows = make([][]string, len(t.Rows))

	for i, row := range t.Rows {
		c.Rows[i] = slices.Clone(row)
	}

	return c
}

// Filter returns a new table holding the rows for which keep returns true.
func (t *Table) Filter(keep func(r int) bool) *Table {
	out := New(t.Name, t.Columns...)
	for i, row := range t.Rows {
		if keep(i) {
			out.Rows = append(out.Rows, slices.Clone(row))
		}
	}

	return out
}

// Concat appends the rows of other, which must share this table's layout.
func (t *Table) Concat(other *Table) {
	for _, row := range other.Rows {
		t.Rows = append(t.Rows, slices.Clone(row))
	}
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}

	return ""
}
