package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lfs-lab/certtrack/internal/forms"
	"github.com/lfs-lab/certtrack/internal/menu"
)

func newFormFieldsCmd() *cobra.Command {
	var (
		affiliation string
		afterHours  string
		output      string
	)

	cmd := &cobra.Command{
		Use:   "fields",
		Short: "Show which conditional form fields are visible and required",
		Long: `Affiliation: 0 employee, 1 student, 2 graduate student, 3 other.
After-hours access: 0 yes, 1 no. Unset choices leave their fields hidden.`,
		Example: `  certtrack form fields --affiliation 1 --after-hours 0`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateOutputFormat(output); err != nil {
				return err
			}
			fields, err := forms.Fields(forms.Choice{
				Affiliation: forms.Affiliation(affiliation),
				AfterHours:  forms.AfterHours(afterHours),
			})
			if err != nil {
				return err
			}

			switch output {
			case outputJSON:
				return encodeJSON(cmd.OutOrStdout(), fields)
			case outputYAML:
				return encodeYAML(cmd.OutOrStdout(), fields)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, tabPadding, ' ', 0)
			fmt.Fprintln(tw, "FIELD\tVISIBLE\tREQUIRED")
			for _, f := range fields {
				fmt.Fprintf(tw, "%s\t%t\t%t\n", f.Name, f.Visible, f.Required)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&affiliation, "affiliation", "", "affiliation choice (0-3)")
	cmd.Flags().StringVar(&afterHours, "after-hours", "", "after-hours access choice (0 or 1)")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format: table, json, or yaml")
	return cmd
}

// parseMenuItem reads "Text=href"; a missing href leaves it empty.
func parseMenuItem(s string) menu.Item {
	text, href, _ := strings.Cut(s, "=")
	return menu.Item{Text: strings.TrimSpace(text), Href: strings.TrimSpace(href)}
}

func newMenuActiveCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "active <path> <item>...",
		Short: "Mark the side menu item matching a page path",
		Long: `Items are given as "Text" or "Text=href". The item whose slugified text equals
the second-to-last segment of the path is marked active.`,
		Example: `  certtrack menu active /users/training-records/ "All Users" "Training Records"`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutputFormat(output); err != nil {
				return err
			}
			items := make([]menu.Item, 0, len(args)-1)
			for _, a := range args[1:] {
				items = append(items, parseMenuItem(a))
			}
			items = menu.Active(args[0], items)

			switch output {
			case outputJSON:
				return encodeJSON(cmd.OutOrStdout(), items)
			case outputYAML:
				return encodeYAML(cmd.OutOrStdout(), items)
			}
			for _, it := range items {
				marker := " "
				if it.Active {
					marker = "*"
				}
				cmd.Printf("%s %s (%s)\n", marker, it.Text, menu.Slugify(it.Text))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format: table, json, or yaml")
	return cmd
}

func newMenuTableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "table <url>",
		Short: "Print the pager table id selected by a page URL's ?t= parameter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ok := menu.TableFromURL(args[0])
			if !ok {
				cmd.Println("No table")
				return nil
			}
			cmd.Println(id)
			return nil
		},
	}
}
