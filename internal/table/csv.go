package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// CSVOptions controls LoadCSV and ReadCSV.
type CSVOptions struct {
	// NoHeader treats the first record as data and names columns col_0, col_1, ...
	NoHeader bool
	// Delimiter is the field separator; only its first byte is used. Default ",".
	Delimiter string
	// IDColumn names the column used as Row.ID.
	IDColumn string
}

// ErrEmptyCSV is returned when a CSV input has no records at all.
var ErrEmptyCSV = errors.New("csv input is empty")

// LoadCSV reads the CSV file at path into a table called name.
func LoadCSV(name, path string, opts CSVOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	return ReadCSV(name, f, opts)
}

// ReadCSV reads CSV records from r into a table called name.
func ReadCSV(name string, r io.Reader, opts CSVOptions) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	if opts.Delimiter != "" {
		reader.Comma = rune(opts.Delimiter[0])
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyCSV
	}

	var columns []string
	if opts.NoHeader {
		for i := range records[0] {
			columns = append(columns, fmt.Sprintf("col_%d", i))
		}
	} else {
		columns = records[0]
		records = records[1:]
	}

	t := &Table{Name: name, Columns: columns}
	idColumn := -1
	if opts.IDColumn != "" {
		if idColumn = t.ColumnIndex(opts.IDColumn); idColumn < 0 {
			return nil, fmt.Errorf("id column %q not found in %s", opts.IDColumn, name)
		}
	}

	return FromRecords(name, columns, records, idColumn), nil
}
