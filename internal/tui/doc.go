// Package tui provides the interactive terminal table browser.
//
// BrowseModel wraps a listview.PagedTableModel with a filter box and a
// status bar. Filtering goes through the same pager used by the CLI and the
// web viewer, so every front end shows the same pages.
package tui
