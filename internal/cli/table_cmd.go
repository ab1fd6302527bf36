package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lfs-lab/certtrack/internal/cli/pagination"
	"github.com/lfs-lab/certtrack/internal/config"
	"github.com/lfs-lab/certtrack/internal/logging"
	"github.com/lfs-lab/certtrack/internal/pager"
	"github.com/lfs-lab/certtrack/internal/table"
)

// ErrUnknownTable is returned for a table name missing from the config.
var ErrUnknownTable = errors.New("unknown table")

// findSource returns the configured source named name.
func findSource(cfg *config.Config, name string) (table.Source, error) {
	names := make([]string, 0, len(cfg.Tables))
	for _, src := range cfg.Tables {
		if src.Name == name {
			return src, nil
		}
		names = append(names, src.Name)
	}
	sort.Strings(names)
	if len(names) == 0 {
		return table.Source{}, fmt.Errorf("%w: %q (no tables configured)", ErrUnknownTable, name)
	}
	return table.Source{}, fmt.Errorf("%w: %q (configured: %s)", ErrUnknownTable, name, strings.Join(names, ", "))
}

// loadTable loads the configured table named name.
func loadTable(ctx context.Context, cfg *config.Config, name string) (*table.Table, error) {
	src, err := findSource(cfg, name)
	if err != nil {
		return nil, err
	}
	tbl, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading table %s: %w", name, err)
	}
	return tbl, nil
}

// pageTable loads name and applies params to a fresh pager.
func pageTable(ctx context.Context, name string, params pagination.Params) (*table.Table, *pager.Pager, error) {
	if err := params.Validate(); err != nil {
		return nil, nil, err
	}

	cfg := config.GetGlobalConfig()
	tbl, err := loadTable(ctx, cfg, name)
	if err != nil {
		return nil, nil, err
	}

	log := logging.FromContext(ctx)
	pg, err := pagination.Apply(tbl, params, cfg.PageSizeFor(name), pager.WithLogger(*log))
	if err != nil {
		return nil, nil, err
	}
	return tbl, pg, nil
}

func newTableListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured tables with their row counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			tables, err := table.LoadAll(cmd.Context(), cfg.Tables)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, tabPadding, ' ', 0)
			fmt.Fprintln(tw, "NAME\tTYPE\tROWS\tPAGE SIZE")
			for _, src := range cfg.Tables {
				typ := src.Type
				if typ == "" {
					typ = table.SourceCSV
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n",
					src.Name, typ, printer.Sprintf("%d", tables[src.Name].Len()), cfg.PageSizeFor(src.Name))
			}
			return tw.Flush()
		},
	}
}

func newTablePageCmd() *cobra.Command {
	params := pagination.NewParams()
	var output string

	cmd := &cobra.Command{
		Use:   "page <table>",
		Short: "Print one page of a table",
		Long: `Prints one page of a configured table after applying the search text and
column filters. Pages past the end show the last page.`,
		Example: `  # Second page of users
  certtrack table page users --page 2

  # Users whose name contains "ali"
  certtrack table page users --search ali --search-column name

  # Rooms on floor 2 of MCML as YAML
  certtrack table page rooms --filter building=MCML --filter floor=2 --output yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutputFormat(output); err != nil {
				return err
			}
			tbl, pg, err := pageTable(cmd.Context(), args[0], *params)
			if err != nil {
				return err
			}
			return renderPage(cmd.OutOrStdout(), output, tbl, pg)
		},
	}

	params.AddFlags(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format: table, json, or yaml")
	return cmd
}

func newTableMetaCmd() *cobra.Command {
	params := pagination.NewParams()
	var output string

	cmd := &cobra.Command{
		Use:   "meta <table>",
		Short: "Print page metadata of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutputFormat(output); err != nil {
				return err
			}
			_, pg, err := pageTable(cmd.Context(), args[0], *params)
			if err != nil {
				return err
			}
			return renderMeta(cmd.OutOrStdout(), output, pg.Meta())
		},
	}

	params.AddFlags(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format: table, json, or yaml")
	return cmd
}
