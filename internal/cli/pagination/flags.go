package pagination

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lfs-lab/certtrack/internal/filter"
	"github.com/lfs-lab/certtrack/internal/table"
)

// Flag defaults and validation limits.
const (
	DefaultPage     = 1
	MinPage         = 1
	MinPageSize     = 1
	MaxPageSize     = 1000
	filterPartsWant = 2
)

// Common validation errors.
var (
	ErrInvalidPage        = errors.New("page must be >= 1")
	ErrInvalidPageSize    = errors.New("page-size must be between 1 and 1000")
	ErrInvalidFilter      = errors.New("invalid filter format: use 'column=value' (e.g., 'building=MCML')")
	ErrEmptyFilterColumn  = errors.New("filter column cannot be empty")
	ErrSearchColumnNoText = errors.New("--search-column requires --search")
)

// Params holds the table paging and filtering flags.
type Params struct {
	// Page is the 1-based page to show.
	Page int

	// PageSize is the number of rows per page. 0 means "use the configured size".
	PageSize int

	// Search is a case-insensitive search string.
	Search string

	// SearchColumn limits Search to one column. Empty searches the whole row.
	SearchColumn string

	// Filters are case-sensitive "column=value" conditions that must all hold.
	Filters []string
}

// NewParams creates Params with default values.
func NewParams() *Params {
	return &Params{Page: DefaultPage}
}

// AddFlags registers the paging flags on cmd, bound to p.
func (p *Params) AddFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&p.Page, "page", DefaultPage, "page number to show (1-based)")
	cmd.Flags().IntVar(&p.PageSize, "page-size", 0, "rows per page (0 = configured size)")
	cmd.Flags().StringVar(&p.Search, "search", "", "case-insensitive search text")
	cmd.Flags().StringVar(&p.SearchColumn, "search-column", "", "column to search (default: whole row)")
	cmd.Flags().StringArrayVar(&p.Filters, "filter", nil,
		"case-sensitive column filter 'column=value' (repeatable, all must match)")
}

// Validate checks if the parameters are valid and consistent (value receiver).
func (p Params) Validate() error {
	if p.Page < MinPage {
		return fmt.Errorf("%w: got %d", ErrInvalidPage, p.Page)
	}
	if p.PageSize != 0 && (p.PageSize < MinPageSize || p.PageSize > MaxPageSize) {
		return fmt.Errorf("%w: got %d", ErrInvalidPageSize, p.PageSize)
	}
	if p.SearchColumn != "" && p.Search == "" {
		return ErrSearchColumnNoText
	}
	for _, f := range p.Filters {
		if _, _, err := ParseFilter(f); err != nil {
			return err
		}
	}
	return nil
}

// EffectivePageSize returns PageSize, or fallback when PageSize is unset.
func (p Params) EffectivePageSize(fallback int) int {
	if p.PageSize > 0 {
		return p.PageSize
	}
	return fallback
}

// IsFiltered reports whether any search or filter is set.
func (p Params) IsFiltered() bool {
	return p.Search != "" || len(p.Filters) > 0
}

// ParseFilter parses a filter string in the format "column=value".
// The value may itself contain '='; only the first one separates.
//
//nolint:nonamedreturns // Named returns improve readability for this multi-value function.
func ParseFilter(expr string) (column, value string, err error) {
	parts := strings.SplitN(expr, "=", filterPartsWant)
	if len(parts) != filterPartsWant {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidFilter, expr)
	}

	column = strings.TrimSpace(parts[0])
	if column == "" {
		return "", "", ErrEmptyFilterColumn
	}
	return column, parts[1], nil
}

// Predicate builds the row predicate for t. Unknown column names are errors.
func (p Params) Predicate(t *table.Table) (filter.Predicate, error) {
	resolver := NewColumnResolver(t.Columns)
	var preds []filter.Predicate

	if p.Search != "" {
		if p.SearchColumn == "" {
			preds = append(preds, filter.RowText(p.Search))
		} else {
			idx, err := resolver.Resolve(p.SearchColumn)
			if err != nil {
				return nil, err
			}
			preds = append(preds, filter.Substring(idx, p.Search))
		}
	}

	if len(p.Filters) > 0 {
		criteria := make([]filter.Criterion, 0, len(p.Filters))
		for _, f := range p.Filters {
			column, value, err := ParseFilter(f)
			if err != nil {
				return nil, err
			}
			idx, err := resolver.Resolve(column)
			if err != nil {
				return nil, err
			}
			criteria = append(criteria, filter.Criterion{Column: idx, Value: value})
		}
		preds = append(preds, filter.Columns(criteria...))
	}

	if len(preds) == 0 {
		return filter.All(), nil
	}
	return filter.And(preds...), nil
}
