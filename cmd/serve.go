package cmd

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/MurthyAvanithsa/railview/internal/server"
	"github.com/MurthyAvanithsa/railview/internal/settings"
)

var (
	serveAddr            string
	serveRefreshInterval string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the read-only preview HTTP API",
	Long: `Serve exposes the normalized settings over HTTP for preview tooling:
presets, normalized styles, card resolution, and layout projection.

Settings are kept warm by a background refresher that re-fetches on the
cache TTL. Shut down with Ctrl-C.`,
	Example: `  railview serve
  railview serve --addr :9090
  railview serve --refresh-interval 5m`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps()
		if err != nil {
			return err
		}
		if err := deps.RequireStore(); err != nil {
			return err
		}
		defer deps.Close()

		interval := time.Duration(0)
		if serveRefreshInterval != "" {
			d, err := time.ParseDuration(serveRefreshInterval)
			if err != nil || d <= 0 {
				return fmt.Errorf("invalid --refresh-interval %q: expected a positive duration", serveRefreshInterval)
			}
			interval = d
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		refresher := settings.NewRefresher(deps.Gateway, interval)
		refresher.Start()
		defer refresher.Stop()

		if !deps.Config.Quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Listening on %s  (cache TTL %s)\n",
				serveAddr, deps.Gateway.TTL())
		}

		srv := server.New(deps.Gateway, deps.Config.Debug)
		return srv.Run(ctx, serveAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	serveCmd.Flags().StringVar(&serveRefreshInterval, "refresh-interval", "",
		"background settings refresh interval (default: the cache TTL)")
}
