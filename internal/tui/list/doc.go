// Package listview provides a paged table component for Bubble Tea TUI applications.
//
// PagedTableModel draws the visible page of a pager.Pager and a strip of page
// controls limited to the window around the current page. Key bindings:
//   - home/end jump to the first/last page
//   - pgup/pgdn, left/right (or h/l) step one page
//   - up/down (or k/j) move the selection within the page
//
// Keys for disabled controls are ignored, so the page never leaves [1, PageCount].
package listview
