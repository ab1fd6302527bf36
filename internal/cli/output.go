package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/lfs-lab/certtrack/internal/pager"
	"github.com/lfs-lab/certtrack/internal/table"
	listview "github.com/lfs-lab/certtrack/internal/tui/list"
)

// Output formats accepted by --output.
const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

const tabPadding = 2

// printer formats row totals with thousands separators.
var printer = message.NewPrinter(language.English) //nolint:gochecknoglobals // Read-only printer shared by renderers

// pageOutput is the json/yaml shape of one rendered page.
type pageOutput struct {
	Table     string              `json:"table"             yaml:"table"`
	Columns   []string            `json:"columns"           yaml:"columns"`
	Meta      pager.Meta          `json:"meta"              yaml:"meta"`
	Rows      []rowOutput         `json:"rows"              yaml:"rows"`
	Controls  []pager.PageControl `json:"controls"          yaml:"controls"`
	Nav       pager.NavControls   `json:"nav"               yaml:"nav"`
	NoResults bool                `json:"no_results"        yaml:"no_results"`
	Message   string              `json:"message,omitempty" yaml:"message,omitempty"`
}

type rowOutput struct {
	ID    string   `json:"id"    yaml:"id"`
	Cells []string `json:"cells" yaml:"cells"`
}

func validateOutputFormat(format string) error {
	switch format {
	case outputTable, outputJSON, outputYAML:
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s (supported: table, json, yaml)", format)
	}
}

func newPageOutput(tbl *table.Table, pg *pager.Pager) pageOutput {
	v := pg.View()
	out := pageOutput{
		Table:     tbl.Name,
		Columns:   tbl.Columns,
		Meta:      pg.Meta(),
		Rows:      make([]rowOutput, 0, len(v.Rows)),
		Controls:  v.VisibleControls(),
		Nav:       v.Nav,
		NoResults: v.NoResults,
		Message:   v.Message,
	}
	for _, r := range v.Rows {
		out.Rows = append(out.Rows, rowOutput{ID: r.ID, Cells: r.Cells})
	}
	return out
}

// renderPage writes the current page of pg in the given format.
func renderPage(w io.Writer, format string, tbl *table.Table, pg *pager.Pager) error {
	switch format {
	case outputJSON:
		return encodeJSON(w, newPageOutput(tbl, pg))
	case outputYAML:
		return encodeYAML(w, newPageOutput(tbl, pg))
	default:
		return renderPageTable(w, tbl, pg)
	}
}

func renderPageTable(w io.Writer, tbl *table.Table, pg *pager.Pager) error {
	v := pg.View()
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)

	header := make([]string, len(tbl.Columns))
	for i, c := range tbl.Columns {
		header[i] = strings.ToUpper(c)
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	if v.NoResults {
		fmt.Fprintln(tw, v.Message)
	}
	for _, r := range v.Rows {
		fmt.Fprintln(tw, strings.Join(r.Cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, summaryLine(pg.Meta()))
	if strip := listview.PageStrip(v); strip != "" {
		fmt.Fprintln(w, strip)
	}
	return nil
}

// summaryLine reads e.g. "Showing 11-20 of 1,234 rows (page 2 of 124)".
func summaryLine(m pager.Meta) string {
	return printer.Sprintf("Showing %d-%d of %d rows (page %d of %d)",
		m.FirstItem, m.LastItem, m.TotalItems, m.CurrentPage, m.TotalPages)
}

// renderMeta writes page metadata in the given format.
func renderMeta(w io.Writer, format string, m pager.Meta) error {
	switch format {
	case outputJSON:
		return encodeJSON(w, m)
	case outputYAML:
		return encodeYAML(w, m)
	default:
		tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
		fmt.Fprintf(tw, "Page:\t%d of %d\n", m.CurrentPage, m.TotalPages)
		fmt.Fprintf(tw, "Page size:\t%d\n", m.PageSize)
		fmt.Fprintf(tw, "Rows:\t%s\n", printer.Sprintf("%d", m.TotalItems))
		fmt.Fprintf(tw, "Showing:\t%d-%d\n", m.FirstItem, m.LastItem)
		fmt.Fprintf(tw, "Previous:\t%t\n", m.HasPrevious)
		fmt.Fprintf(tw, "Next:\t%t\n", m.HasNext)
		return tw.Flush()
	}
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
