package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lfs-lab/certtrack/internal/api"
	"github.com/lfs-lab/certtrack/internal/cli/pagination"
	"github.com/lfs-lab/certtrack/internal/config"
	"github.com/lfs-lab/certtrack/internal/selection"
	"github.com/lfs-lab/certtrack/internal/table"
)

// candidateColumns names the table columns a selection candidate is read from.
type candidateColumns struct {
	User     string
	Building string
	Floor    string
	Number   string
	New      string
}

// candidates maps table rows onto selection candidates. The user and new
// columns are optional; the others must exist.
func candidates(tbl *table.Table, cols candidateColumns) ([]selection.Candidate, error) {
	r := pagination.NewColumnResolver(tbl.Columns)

	building, err := r.Resolve(cols.Building)
	if err != nil {
		return nil, err
	}
	floor, err := r.Resolve(cols.Floor)
	if err != nil {
		return nil, err
	}
	number, err := r.Resolve(cols.Number)
	if err != nil {
		return nil, err
	}
	user, userErr := r.Resolve(cols.User)
	isNew, newErr := r.Resolve(cols.New)

	out := make([]selection.Candidate, 0, len(tbl.Rows))
	for _, row := range tbl.Rows {
		c := selection.Candidate{
			ID: row.ID,
			Item: selection.Item{
				Building: row.Cell(building),
				Floor:    row.Cell(floor),
				Number:   row.Cell(number),
			},
		}
		if userErr == nil {
			c.Item.User = row.Cell(user)
		}
		if newErr == nil {
			c.IsNew = truthy(row.Cell(isNew))
		}
		out = append(out, c)
	}
	return out, nil
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "new":
		return true
	default:
		return false
	}
}

func newUpdateAllCmd() *cobra.Command {
	var (
		cols   candidateColumns
		ids    []string
		all    bool
		submit string
	)

	cmd := &cobra.Command{
		Use:   "update-all <table>",
		Short: "Select rooms of a table for a bulk update and optionally submit them",
		Long: `Builds a bulk room selection from a table. --all picks every row whose new
column is set; --id picks single rows by id. The selection is listed as
"<user>: <building> <floor> - Room <number>" and posted as rooms[] with --submit.`,
		Example: `  # Preview all new rooms
  certtrack update-all room_actions --all

  # Submit two rooms
  certtrack update-all room_actions --id 41 --id 42 --submit /api/rooms/update-all/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.GetGlobalConfig()
			tbl, err := loadTable(ctx, cfg, args[0])
			if err != nil {
				return err
			}
			cands, err := candidates(tbl, cols)
			if err != nil {
				return err
			}

			set := selection.New()
			if all {
				set.SelectAll(cands, true)
			}
			for _, id := range ids {
				found := false
				for _, c := range cands {
					if c.ID == id {
						set.Toggle(c.ID, c.Item, true)
						found = true
						break
					}
				}
				if !found {
					return fmt.Errorf("no row with id %q in %s", id, tbl.Name)
				}
			}

			if !set.ButtonEnabled() {
				cmd.Println("Nothing selected")
			} else {
				cmd.Printf("%d rooms selected:\n", set.Count())
				for _, line := range set.Lines() {
					cmd.Printf("  %s\n", line)
				}
			}

			if submit == "" {
				return nil
			}
			client, err := newAPIClient(cfg)
			if err != nil {
				return err
			}
			resp, err := set.Submit(ctx, client, submit)
			if err != nil {
				cmd.PrintErrln(api.BannerFromError(err).Text)
				return err
			}
			banner := api.BannerFromResponse(resp)
			if banner.Text != "" {
				cmd.Println(banner.Text)
			}
			if banner.Level == api.LevelDanger {
				return fmt.Errorf("update failed: %s", resp.Status)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cols.User, "user-column", "user", "column holding the user name (optional)")
	cmd.Flags().StringVar(&cols.Building, "building-column", "building", "column holding the building")
	cmd.Flags().StringVar(&cols.Floor, "floor-column", "floor", "column holding the floor")
	cmd.Flags().StringVar(&cols.Number, "number-column", "room", "column holding the room number")
	cmd.Flags().StringVar(&cols.New, "new-column", "new", "column flagging new rows for --all (optional)")
	cmd.Flags().StringArrayVar(&ids, "id", nil, "row id to select (repeatable)")
	cmd.Flags().BoolVar(&all, "all", false, "select every new row")
	cmd.Flags().StringVar(&submit, "submit", "", "endpoint to post the selection to")
	return cmd
}
