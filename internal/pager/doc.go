// Package pager implements the table pager: page state, page-number controls,
// first/prev/next/last navigation and search filtering for a table's rows.
//
// A Pager is created once per table and owns that table's state:
//   - Paginate marks the rows of one page visible and rebuilds the page controls
//   - First, Prev, Next, Last and Goto move between pages
//   - Filter narrows the row set, always returning to page 1
//   - View returns a render description that front ends turn into HTML,
//     terminal output or JSON without the pager knowing about any of them
//
// Rows are never removed or reordered; paging and filtering only change which
// rows are visible.
package pager
