package pagination

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrInvalidColumn is returned for a column name the table does not have.
var ErrInvalidColumn = errors.New("invalid column")

// ColumnResolver maps user-supplied column names onto table column indexes.
// Names match case-insensitively; a plain number is taken as a 0-based index.
type ColumnResolver struct {
	columns []string
	index   map[string]int
}

// NewColumnResolver creates a resolver for the given column headers.
func NewColumnResolver(columns []string) *ColumnResolver {
	r := &ColumnResolver{
		columns: columns,
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		key := strings.ToLower(strings.TrimSpace(c))
		if _, dup := r.index[key]; !dup {
			r.index[key] = i
		}
	}
	return r
}

// IsValidColumn checks if name resolves to a column.
func (r *ColumnResolver) IsValidColumn(name string) bool {
	_, err := r.Resolve(name)
	return err == nil
}

// ValidColumns returns all column names in sorted order.
func (r *ColumnResolver) ValidColumns() []string {
	names := make([]string, len(r.columns))
	copy(names, r.columns)
	sort.Strings(names)
	return names
}

// Resolve returns the index of the named column.
func (r *ColumnResolver) Resolve(name string) (int, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if i, ok := r.index[key]; ok {
		return i, nil
	}
	if i, err := strconv.Atoi(key); err == nil && i >= 0 && i < len(r.columns) {
		return i, nil
	}
	return -1, fmt.Errorf("%w: %q (valid: %s)", ErrInvalidColumn, name, strings.Join(r.ValidColumns(), ", "))
}
