package cli

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lfs-lab/certtrack/internal/api"
	"github.com/lfs-lab/certtrack/internal/cli/pagination"
	"github.com/lfs-lab/certtrack/internal/config"
	"github.com/lfs-lab/certtrack/internal/export"
)

// ErrUnknownReport is returned for a report name missing from the config.
var ErrUnknownReport = errors.New("unknown report")

// newAPIClient builds a backend client from the api config section.
func newAPIClient(cfg *config.Config) (*api.Client, error) {
	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("%w: set api.base_url or CERTTRACK_API_URL", api.ErrNoBaseURL)
	}
	return api.NewClient(cfg.API.BaseURL, cfg.API.CSRFToken), nil
}

// parseQuery turns "key=value" pairs into query values.
func parseQuery(pairs []string) (url.Values, error) {
	q := url.Values{}
	for _, pair := range pairs {
		key, value, err := pagination.ParseFilter(pair)
		if err != nil {
			return nil, fmt.Errorf("invalid --query %q: expected key=value", pair)
		}
		q.Add(key, value)
	}
	return q, nil
}

func newReportDownloadCmd() *cobra.Command {
	var (
		dir   string
		query []string
	)

	cmd := &cobra.Command{
		Use:   "download [report]",
		Short: "Download a report as CSV",
		Long: `Fetches a configured report from the tracker and writes its CSV data to
"<report name> <YYYY-MM-DD>.csv". The report defaults to missing-trainings.`,
		Example: `  # Download the missing trainings report into ./reports
  certtrack report download --dir ./reports

  # Pass filters through to the report endpoint
  certtrack report download missing-trainings --query area=12`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetGlobalConfig()

			name := config.MissingTrainingsReport
			if len(args) == 1 {
				name = args[0]
			}
			report, ok := cfg.Report(name)
			if !ok {
				names := make([]string, 0, len(cfg.Reports))
				for n := range cfg.Reports {
					names = append(names, n)
				}
				sort.Strings(names)
				return fmt.Errorf("%w: %q (configured: %s)", ErrUnknownReport, name, strings.Join(names, ", "))
			}

			q, err := parseQuery(query)
			if err != nil {
				return err
			}
			for k, v := range report.Query {
				if !q.Has(k) {
					q.Set(k, v)
				}
			}

			client, err := newAPIClient(cfg)
			if err != nil {
				return err
			}

			path, err := export.Download(cmd.Context(), client, export.Request{
				Path:   report.URL,
				Query:  q,
				Report: report.Name,
				Dir:    dir,
			}, time.Now())
			if err != nil {
				cmd.PrintErrln(api.BannerFromError(err).Text)
				return err
			}

			cmd.Printf("Saved %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "directory to write the CSV to")
	cmd.Flags().StringArrayVar(&query, "query", nil, "extra query parameter key=value (repeatable)")
	return cmd
}
