package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/lfs-lab/certtrack/internal/config"
	"github.com/lfs-lab/certtrack/internal/table"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var (
		verbose bool
		load    bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the active configuration for syntax and semantic correctness.

This includes:
- Page sizes (default and per table) are positive
- The server port is in range
- Table names are unique and each source has its required parameters
- With --load, every table source is also loaded`,
		Example: `  # Validate current configuration
  certtrack config validate

  # Validate, load every table and show details
  certtrack config validate --load --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose, load)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")
	cmd.Flags().BoolVar(&load, "load", false, "also load every configured table")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
func runConfigValidate(cmd *cobra.Command, verbose, load bool) error {
	cfg := config.GetGlobalConfig()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	var rows map[string]int
	if load {
		tables, err := table.LoadAll(cmd.Context(), cfg.Tables)
		if err != nil {
			return fmt.Errorf("configuration validation failed: %w", err)
		}
		rows = make(map[string]int, len(tables))
		for name, t := range tables {
			rows[name] = t.Len()
		}
	}

	cmd.Printf("Configuration is valid\n")

	if verbose {
		printVerboseDetails(cmd, cfg, rows)
	}

	return nil
}

// printVerboseDetails prints the effective settings.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config, rows map[string]int) {
	cmd.Println()
	path := cfg.Path()
	if path == "" {
		path = "(defaults)"
	}
	cmd.Printf("Config file: %s\n", path)
	if dir := config.GetResolvedProjectDir(); dir != "" {
		cmd.Printf("Project dir: %s\n", dir)
	}
	cmd.Printf("Default page size: %d\n", cfg.Pager.DefaultPageSize)
	cmd.Printf("Server: %s:%d\n", cfg.Server.Host, cfg.Server.Port)

	cmd.Printf("Tables: %d\n", len(cfg.Tables))
	for _, src := range cfg.Tables {
		line := fmt.Sprintf("  - %s (page size %d)", src.Name, cfg.PageSizeFor(src.Name))
		if n, ok := rows[src.Name]; ok {
			line += printer.Sprintf(", %d rows", n)
		}
		cmd.Println(line)
	}

	names := make([]string, 0, len(cfg.Reports))
	for name := range cfg.Reports {
		names = append(names, name)
	}
	sort.Strings(names)
	cmd.Printf("Reports: %d\n", len(names))
	for _, name := range names {
		cmd.Printf("  - %s: %s\n", name, cfg.Reports[name].URL)
	}
}

// NewConfigShowCmd creates the config show command printing the effective config as YAML.
func NewConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return encodeYAML(cmd.OutOrStdout(), config.GetGlobalConfig())
		},
	}
}
