package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lfs-lab/certtrack/internal/config"
	"github.com/lfs-lab/certtrack/internal/logging"
	"github.com/lfs-lab/certtrack/internal/wizard"
)

// ErrNoSessionFile is returned when no session file location is known.
var ErrNoSessionFile = errors.New("no session file configured (set session.file)")

const sessionFileName = "session.json"

// sessionPath returns the file holding the key request selection. Inside a
// project it lives in .certtrack/ next to a .gitignore that excludes it.
func sessionPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if projectDir := config.GetResolvedProjectDir(); projectDir != "" {
		if err := os.MkdirAll(projectDir, 0o750); err != nil {
			return "", fmt.Errorf("creating project directory: %w", err)
		}
		created, err := config.EnsureGitignore(projectDir)
		if err != nil {
			return "", fmt.Errorf("creating .gitignore: %w", err)
		}
		if created {
			cmd.PrintErrln("Created .gitignore to keep the session file out of version control")
		}
		return filepath.Join(projectDir, sessionFileName), nil
	}
	if cfg.Session.File == "" {
		return "", ErrNoSessionFile
	}
	return cfg.Session.File, nil
}

// openWizard loads the wizard from the session file.
func openWizard(cmd *cobra.Command) (*wizard.Wizard, error) {
	path, err := sessionPath(cmd, config.GetGlobalConfig())
	if err != nil {
		return nil, err
	}
	log := logging.FromContext(cmd.Context())
	return wizard.Load(wizard.NewFileStore(path), wizard.WithLogger(*log))
}

func newRoomsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "Select building, floor and rooms for a key request",
		Long: `Builds the room selection of a key request step by step. The selection is
kept in the session file between invocations until it is submitted or cleared.`,
		Example: `  certtrack rooms building 12 MCML "Michael Smith Laboratories"
  certtrack rooms floor 3 "Floor 2"
  certtrack rooms toggle 41 201
  certtrack rooms show
  certtrack rooms continue --url /api/key-requests/rooms/ --next /key-requests/new/`,
	}
	cmd.AddCommand(
		newRoomsBuildingCmd(),
		newRoomsFloorCmd(),
		newRoomsToggleCmd(),
		newRoomsRemoveCmd(),
		newRoomsClearCmd(),
		newRoomsShowCmd(),
		newRoomsContinueCmd(),
	)
	return cmd
}

func newRoomsBuildingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "building <id> [code] [name]",
		Short: "Select a building (an empty id clears the selection)",
		Args:  cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWizard(cmd)
			if err != nil {
				return err
			}
			b := wizard.Building{ID: args[0]}
			if len(args) > 1 {
				b.Code = args[1]
			}
			if len(args) > 2 {
				b.Name = args[2]
			}
			if err = w.SelectBuilding(b); err != nil {
				return err
			}
			if b.ID == "" {
				cmd.Println("Selection cleared")
				return nil
			}
			cmd.Printf("Building: %s\n", buildingLabel(w.State().Building))
			return nil
		},
	}
}

func newRoomsFloorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "floor <id> [name]",
		Short: "Select a floor of the selected building (an empty id resets it)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWizard(cmd)
			if err != nil {
				return err
			}
			f := wizard.Floor{ID: args[0]}
			if len(args) > 1 {
				f.Name = args[1]
			}
			if err = w.SelectFloor(f); err != nil {
				return err
			}
			if f.ID == "" {
				cmd.Println("Floor reset")
				return nil
			}
			cmd.Printf("Floor: %s\n", f.Name)
			return nil
		},
	}
}

func newRoomsToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <room-id> <number>",
		Short: "Add a room to the selection, or remove it if already selected",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWizard(cmd)
			if err != nil {
				return err
			}
			selected, err := w.ToggleRoom(args[0], args[1])
			if err != nil {
				return err
			}
			verb := "Removed"
			if selected {
				verb = "Added"
			}
			cmd.Printf("%s room %s (%d selected)\n", verb, args[1], w.State().Rooms.Len())
			return nil
		},
	}
}

func newRoomsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <room-id|room_key>",
		Short: "Remove a room from the selection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWizard(cmd)
			if err != nil {
				return err
			}
			key := args[0]
			if !strings.HasPrefix(key, wizard.RoomKey("")) {
				key = wizard.RoomKey(key)
			}
			if err = w.RemoveRoom(key); err != nil {
				return err
			}
			cmd.Printf("%d rooms selected\n", w.State().Rooms.Len())
			return nil
		},
	}
}

func newRoomsClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Forget the whole selection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				res := Confirm(cmd.OutOrStdout(), cmd.InOrStdin(),
					"Clear the selected building, floor and rooms?", isTerminal(os.Stdin))
				if !res.Accepted {
					cmd.Println("Aborted (use --yes to clear without asking)")
					return nil
				}
			}
			w, err := openWizard(cmd)
			if err != nil {
				return err
			}
			if err = w.Clear(); err != nil {
				return err
			}
			cmd.Println("Selection cleared")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "clear without asking")
	return cmd
}

func newRoomsShowCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the current selection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output != outputTable && output != outputJSON {
				return fmt.Errorf("unsupported output format: %s (supported: table, json)", output)
			}
			w, err := openWizard(cmd)
			if err != nil {
				return err
			}
			state := w.State()
			if output == outputJSON {
				return encodeJSON(cmd.OutOrStdout(), state)
			}
			return renderSelection(cmd, state)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format: table or json")
	return cmd
}

func renderSelection(cmd *cobra.Command, state wizard.State) error {
	if state.IsZero() {
		cmd.Println("Nothing selected")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, tabPadding, ' ', 0)
	fmt.Fprintf(tw, "Building:\t%s\n", buildingLabel(state.Building))
	fmt.Fprintf(tw, "Floor:\t%s\n", state.Floor.Name)
	fmt.Fprintf(tw, "Rooms:\t%d\n", state.Rooms.Len())
	for _, key := range state.Rooms.Keys() {
		room, _ := state.Rooms.Get(key)
		fmt.Fprintf(tw, "  %s\t%s %s - Room %s\n", key, room.Building, room.Floor, room.Number)
	}
	return tw.Flush()
}

func buildingLabel(b wizard.Building) string {
	switch {
	case b.Name != "" && b.Code != "":
		return fmt.Sprintf("%s (%s)", b.Name, b.Code)
	case b.Code != "":
		return b.Code
	default:
		return b.Name
	}
}

func newRoomsContinueCmd() *cobra.Command {
	var postURL, nextURL string

	cmd := &cobra.Command{
		Use:   "continue",
		Short: "Submit the selected rooms and print the next page URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := openWizard(cmd)
			if err != nil {
				return err
			}
			client, err := newAPIClient(config.GetGlobalConfig())
			if err != nil {
				return err
			}
			next, err := w.Continue(cmd.Context(), client, postURL, nextURL)
			if err != nil {
				return err
			}
			cmd.Println(next)
			return nil
		},
	}

	cmd.Flags().StringVar(&postURL, "url", "", "endpoint receiving the selected rooms")
	cmd.Flags().StringVar(&nextURL, "next", "", "page to continue to after submitting")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}
