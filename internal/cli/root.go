package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/lfs-lab/certtrack/internal/config"
	"github.com/lfs-lab/certtrack/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the certtrack CLI.
// It wires up configuration, logging and tracing, and the subcommands
// (table, serve, browse, report, rooms, update-all, form, menu, config).
func NewRootCmd(ver string) *cobra.Command {
	var (
		logResult  *logging.LogPathResult
		configPath string
		projectDir string
	)

	cmd := &cobra.Command{
		Use:           "certtrack",
		Short:         "Lab certification tracker table tools",
		Long:          "certtrack: page, filter and browse tracker tables, manage key requests and download reports",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(cmd, configPath, projectDir); err != nil {
				return err
			}
			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.certtrack/config.yaml)")
	cmd.PersistentFlags().StringVar(&projectDir, "project-dir", "", "project directory holding .certtrack/")

	cmd.AddCommand(
		newTableCmd(),
		newServeCmd(),
		newBrowseCmd(),
		newReportCmd(),
		newRoomsCmd(),
		newUpdateAllCmd(),
		newFormCmd(),
		newMenuCmd(),
		newConfigCmd(),
	)

	return cmd
}

// loadConfig resolves the project directory and installs the global config.
// An explicit --config file must load and validate; otherwise the default file
// plus any project overlay is used.
func loadConfig(cmd *cobra.Command, configPath, projectDir string) error {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	config.SetResolvedProjectDir(config.ResolveProjectDir(cmd.Context(), projectDir, wd))

	if configPath == "" {
		config.InitGlobalConfig()
		return nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	config.SetGlobalConfig(cfg)
	return nil
}

const rootCmdExample = `  # Show page 2 of the users table
  certtrack table page users --page 2

  # Filter the rooms table by building and floor, as JSON
  certtrack table page rooms --filter building=MCML --filter floor=2 --output json

  # Browse a table interactively
  certtrack browse users

  # Serve the HTML table viewer
  certtrack serve --port 8080

  # Pick rooms for a key request
  certtrack rooms building 12 MCML "Michael Smith Laboratories"
  certtrack rooms floor 3 "Floor 2"
  certtrack rooms toggle 41 201

  # Download the missing trainings report
  certtrack report download missing-trainings --dir ./reports

  # Initialize configuration
  certtrack config init`

func newTableCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Page and filter configured tables",
	}
	cmd.AddCommand(newTableListCmd(), newTablePageCmd(), newTableMetaCmd())
	return cmd
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Tracker report commands",
	}
	cmd.AddCommand(newReportDownloadCmd())
	return cmd
}

func newFormCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "form",
		Short: "Form field helpers",
	}
	cmd.AddCommand(newFormFieldsCmd())
	return cmd
}

func newMenuCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Side menu helpers",
	}
	cmd.AddCommand(newMenuActiveCmd(), newMenuTableCmd())
	return cmd
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management commands",
	}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigValidateCmd(), NewConfigShowCmd())
	return cmd
}
