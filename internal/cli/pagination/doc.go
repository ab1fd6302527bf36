// Package pagination turns CLI flags into pager input for table commands.
//
// This package contains the flag handling shared by the table commands:
//   - Params: --page, --page-size, --search, --search-column and --filter parsing and validation
//   - ColumnResolver: maps user-supplied column names onto table columns
//   - Apply: builds a pager.Pager for a table, filters it and moves to the requested page
//
// The web viewer and the terminal browser reuse Params so every front end
// accepts the same search and filter syntax.
package pagination
