// Package table holds the row model shared by the pager, filters and front ends,
// and the loaders that build tables from CSV files and PostgreSQL queries.
package table

import (
	"strconv"
	"strings"
)

// Row is one rendered record. Index is its position in the loaded table and
// never changes when the row set is filtered.
type Row struct {
	Index int
	ID    string
	Cells []string
}

// Cell returns cell i, or "" when the row has fewer cells.
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r.Cells) {
		return ""
	}
	return r.Cells[i]
}

// Text returns all cells joined by a single space.
func (r Row) Text() string {
	return strings.Join(r.Cells, " ")
}

// Table is a named, ordered set of rows with column headers.
type Table struct {
	Name    string
	Columns []string
	Rows    []Row
}

// ColumnIndex returns the index of the named column (case-insensitive), or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if strings.EqualFold(c, name) {
			return i
		}
	}
	return -1
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// FromRecords builds a table from raw records. idColumn selects the cell used
// as Row.ID; a negative idColumn uses the 1-based row position instead.
func FromRecords(name string, columns []string, records [][]string, idColumn int) *Table {
	t := &Table{
		Name:    name,
		Columns: columns,
		Rows:    make([]Row, 0, len(records)),
	}
	for i, rec := range records {
		row := Row{Index: i, Cells: rec}
		if idColumn >= 0 && idColumn < len(rec) {
			row.ID = rec[idColumn]
		} else {
			row.ID = strconv.Itoa(i + 1)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
