package table

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// LoadPostgres runs query against the database at dsn and returns the result
// set as a table. NULL values become empty cells.
func LoadPostgres(ctx context.Context, name, dsn, query, idColumn string) (*Table, error) {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", name, err)
	}
	defer conn.Close(ctx)

	rows, err := conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", name, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Name
	}

	var records [][]string
	for rows.Next() {
		values, valErr := rows.Values()
		if valErr != nil {
			return nil, fmt.Errorf("reading %s row: %w", name, valErr)
		}
		records = append(records, formatValues(values))
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("reading %s rows: %w", name, err)
	}

	t := &Table{Name: name, Columns: columns}
	id := -1
	if idColumn != "" {
		if id = t.ColumnIndex(idColumn); id < 0 {
			return nil, fmt.Errorf("id column %q not found in %s", idColumn, name)
		}
	}
	return FromRecords(name, columns, records, id), nil
}

// formatValues renders driver values as display strings.
func formatValues(values []any) []string {
	out := make([]string, len(values))
	for i, v := range values {
		if v == nil {
			continue
		}
		out[i] = fmt.Sprintf("%v", v)
	}
	return out
}
