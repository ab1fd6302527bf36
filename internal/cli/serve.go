package cli

import (
	"context"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lfs-lab/certtrack/internal/config"
	"github.com/lfs-lab/certtrack/internal/logging"
	"github.com/lfs-lab/certtrack/internal/table"
	"github.com/lfs-lab/certtrack/internal/web"
)

func newServeCmd() *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTML table viewer and JSON page API",
		Long: `Loads every configured table and serves:

  GET /                   index of tables
  GET /tables/<name>/     HTML page view (?page=&q=&col=&filter=)
  GET /api/tables/<name>  JSON page view
  GET /health             liveness check

Host and port default to the server section of the config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			if !cmd.Flags().Changed("host") {
				host = cfg.Server.Host
			}
			if !cmd.Flags().Changed("port") {
				port = cfg.Server.Port
			}

			srv, err := buildServer(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			addr := net.JoinHostPort(host, strconv.Itoa(port))
			cmd.Printf("Serving %d tables on http://%s/\n", len(cfg.Tables), addr)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&host, "host", config.DefaultServerHost, "listen host")
	cmd.Flags().IntVar(&port, "port", config.DefaultServerPort, "listen port")
	return cmd
}

// buildServer loads every configured table and creates the web server.
func buildServer(ctx context.Context, cfg *config.Config) (*web.Server, error) {
	tables, err := table.LoadAll(ctx, cfg.Tables)
	if err != nil {
		return nil, err
	}
	return web.NewServer(tables, cfg.PageSizeFor, *logging.FromContext(ctx))
}
