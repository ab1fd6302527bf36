// Package filter provides the row predicates used by table search boxes.
//
// Every predicate is evaluated independently per row and never reorders rows.
// An empty query matches everything, so clearing a search box restores the
// unfiltered table.
package filter

import (
	"strings"

	"github.com/lfs-lab/certtrack/internal/table"
)

// Predicate reports whether a row stays visible.
type Predicate func(table.Row) bool

// All matches every row.
func All() Predicate {
	return func(table.Row) bool { return true }
}

// Substring matches rows whose cell at column contains query, ignoring case.
// Rows that do not have the column are treated as placeholders and never match
// a non-empty query.
func Substring(column int, query string) Predicate {
	q := strings.ToLower(query)
	if q == "" {
		return All()
	}
	return func(r table.Row) bool {
		if column >= len(r.Cells) {
			return false
		}
		return strings.Contains(strings.ToLower(r.Cell(column)), q)
	}
}

// RowText matches rows whose combined text contains query, ignoring case.
func RowText(query string) Predicate {
	q := strings.ToLower(query)
	if q == "" {
		return All()
	}
	return func(r table.Row) bool {
		return strings.Contains(strings.ToLower(r.Text()), q)
	}
}

// Criterion is one column condition of a Columns filter.
type Criterion struct {
	Column int
	Value  string
}

// Columns matches rows where every non-empty criterion value is a
// case-sensitive substring of its column. Empty values are ignored, and
// with no effective criteria every row matches.
func Columns(criteria ...Criterion) Predicate {
	var active []Criterion
	for _, c := range criteria {
		if c.Value != "" {
			active = append(active, c)
		}
	}
	if len(active) == 0 {
		return All()
	}
	return func(r table.Row) bool {
		for _, c := range active {
			if c.Column >= len(r.Cells) || !strings.Contains(r.Cell(c.Column), c.Value) {
				return false
			}
		}
		return true
	}
}

// And matches rows accepted by every predicate. Nil predicates are skipped.
func And(preds ...Predicate) Predicate {
	return func(r table.Row) bool {
		for _, p := range preds {
			if p != nil && !p(r) {
				return false
			}
		}
		return true
	}
}

// Apply returns the rows accepted by pred, in their original order.
// A nil predicate accepts every row.
func Apply(rows []table.Row, pred Predicate) []table.Row {
	if pred == nil {
		pred = All()
	}
	out := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}
