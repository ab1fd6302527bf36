package cli

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lfs-lab/certtrack/internal/cli/pagination"
	"github.com/lfs-lab/certtrack/internal/config"
	"github.com/lfs-lab/certtrack/internal/tui"
)

// ErrNotTerminal is returned by browse when stdout is not a terminal.
var ErrNotTerminal = errors.New("browse needs an interactive terminal; use 'certtrack table page' instead")

func newBrowseCmd() *cobra.Command {
	params := pagination.NewParams()

	cmd := &cobra.Command{
		Use:   "browse <table>",
		Short: "Browse a table interactively",
		Long: `Opens a table in a terminal browser.

Keys: left/right or pgup/pgdn change page, home/end jump to the first/last page,
/ opens the filter box (filters as you type), esc clears the filter, q quits.
Paging flags set the starting page and any fixed column filters.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(os.Stdout) {
				return ErrNotTerminal
			}
			if err := params.Validate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			cfg := config.GetGlobalConfig()
			tbl, err := loadTable(ctx, cfg, args[0])
			if err != nil {
				return err
			}

			model, err := tui.NewBrowseModel(ctx, tbl, *params, cfg.PageSizeFor(tbl.Name))
			if err != nil {
				return err
			}

			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
			if _, err = p.Run(); err != nil {
				return fmt.Errorf("running browser: %w", err)
			}
			return nil
		},
	}

	params.AddFlags(cmd)
	return cmd
}
