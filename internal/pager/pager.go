package pager

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/lfs-lab/certtrack/internal/filter"
	"github.com/lfs-lab/certtrack/internal/table"
)

// WindowRadius is how many page controls on each side of the current page stay visible.
const WindowRadius = 3

// DefaultNoResultsMessage is shown in place of rows when a filter matches nothing.
const DefaultNoResultsMessage = "No users found"

// NoResultsMessage returns the no-results text for a table of the given
// plural noun, e.g. "No areas found".
func NoResultsMessage(noun string) string {
	if noun == "" {
		return DefaultNoResultsMessage
	}
	return "No " + noun + " found"
}

// ErrInvalidPageSize is returned by New for a page size below 1.
var ErrInvalidPageSize = errors.New("page size must be > 0")

// State is the current page position of a pager.
type State struct {
	CurrentPage int `json:"current_page" yaml:"current_page"`
	PageSize    int `json:"page_size"    yaml:"page_size"`
	TotalRows   int `json:"total_rows"   yaml:"total_rows"`
}

// PageCount returns ceil(TotalRows / PageSize), or 0 for an empty row set.
func (s State) PageCount() int {
	if s.PageSize <= 0 || s.TotalRows <= 0 {
		return 0
	}
	return (s.TotalRows + s.PageSize - 1) / s.PageSize
}

// Range returns the half-open row index range [start, end) of the current page,
// clipped to the row set. start == end means no row is visible.
//
//nolint:nonamedreturns // Named returns document the half-open range.
func (s State) Range() (start, end int) {
	start = (s.CurrentPage - 1) * s.PageSize
	end = s.CurrentPage * s.PageSize
	if start < 0 {
		start = 0
	}
	if start > s.TotalRows {
		start = s.TotalRows
	}
	if end > s.TotalRows {
		end = s.TotalRows
	}
	if end < start {
		end = start
	}
	return start, end
}

// Pager holds the paging and filtering state of one table.
type Pager struct {
	base      []table.Row
	rows      []table.Row
	state     State
	controls  []PageControl
	nav       NavControls
	noResults bool
	message   string
	log       zerolog.Logger
}

// Option configures a Pager.
type Option func(*Pager)

// WithNoResultsMessage sets the text of the "no results" row.
func WithNoResultsMessage(msg string) Option {
	return func(p *Pager) { p.message = msg }
}

// WithLogger attaches a logger; the pager logs at debug level only.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Pager) { p.log = l.With().Str("component", "pager").Logger() }
}

// New creates a pager over rows and shows page 1.
func New(rows []table.Row, pageSize int, opts ...Option) (*Pager, error) {
	if pageSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPageSize, pageSize)
	}

	p := &Pager{
		base:    rows,
		message: DefaultNoResultsMessage,
		log:     zerolog.Nop(),
		state:   State{CurrentPage: 1, PageSize: pageSize},
	}
	for _, opt := range opts {
		opt(p)
	}

	p.Paginate(rows, 1)
	return p, nil
}

// Paginate makes rows the current row set and shows page. The page is used as
// given: callers keep it within [1, PageCount]. A page outside that range
// leaves every row hidden.
func (p *Pager) Paginate(rows []table.Row, page int) {
	p.rows = rows
	p.state.CurrentPage = page
	p.state.TotalRows = len(rows)

	pageCount := p.state.PageCount()

	p.controls = make([]PageControl, 0, pageCount)
	for i := 1; i <= pageCount; i++ {
		p.controls = append(p.controls, PageControl{
			Number:  i,
			Visible: i >= page-WindowRadius && i <= page+WindowRadius,
			Active:  i == page,
		})
	}

	p.nav = NavControls{
		First: page > 1,
		Prev:  page > 1,
		Next:  page < pageCount,
		Last:  page < pageCount,
	}

	start, end := p.state.Range()
	p.log.Debug().
		Str("operation", "paginate").
		Int("page", page).
		Int("page_count", pageCount).
		Int("total_rows", len(rows)).
		Int("visible_from", start).
		Int("visible_to", end).
		Msg("paginated")
}

// First shows page 1. It reports false when the control is disabled.
func (p *Pager) First() bool {
	if !p.nav.First {
		return false
	}
	p.Paginate(p.rows, 1)
	return true
}

// Prev shows the previous page. It reports false when the control is disabled.
func (p *Pager) Prev() bool {
	if !p.nav.Prev {
		return false
	}
	p.Paginate(p.rows, p.state.CurrentPage-1)
	return true
}

// Next shows the next page. It reports false when the control is disabled.
func (p *Pager) Next() bool {
	if !p.nav.Next {
		return false
	}
	p.Paginate(p.rows, p.state.CurrentPage+1)
	return true
}

// Last shows the last page. It reports false when the control is disabled.
func (p *Pager) Last() bool {
	if !p.nav.Last {
		return false
	}
	p.Paginate(p.rows, p.state.PageCount())
	return true
}

// Goto shows page n. It reports false when page n does not exist.
func (p *Pager) Goto(n int) bool {
	if n < 1 || n > p.state.PageCount() {
		return false
	}
	p.Paginate(p.rows, n)
	return true
}

// Filter evaluates pred against every row the pager was created with, makes
// the matching rows the current row set and shows page 1. It returns the
// matching rows in their original order. A nil predicate matches every row.
func (p *Pager) Filter(pred filter.Predicate) []table.Row {
	filtered := filter.Apply(p.base, pred)

	// At most one "no results" row: it replaces any earlier one.
	p.noResults = len(filtered) == 0

	p.log.Debug().
		Str("operation", "filter").
		Int("before", len(p.base)).
		Int("after", len(filtered)).
		Msg("filtered rows")

	p.Paginate(filtered, 1)
	return filtered
}

// Reset clears any filter and shows page 1 of every row.
func (p *Pager) Reset() {
	p.noResults = false
	p.Paginate(p.base, 1)
}

// Rows returns the current (filtered) row set.
func (p *Pager) Rows() []table.Row {
	return p.rows
}

// Base returns every row the pager was created with.
func (p *Pager) Base() []table.Row {
	return p.base
}

// State returns the current page state.
func (p *Pager) State() State {
	return p.state
}

// PageCount returns the number of pages of the current row set.
func (p *Pager) PageCount() int {
	return p.state.PageCount()
}

// NoResults reports whether the last filter matched nothing.
func (p *Pager) NoResults() bool {
	return p.noResults
}

// IsVisible reports whether the row with the given table index is shown.
func (p *Pager) IsVisible(index int) bool {
	start, end := p.state.Range()
	for _, r := range p.rows[start:end] {
		if r.Index == index {
			return true
		}
	}
	return false
}
