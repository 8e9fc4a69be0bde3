package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/taxclause/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/taxclause/internal/connectors/filesystem"
	"github.com/custodia-labs/taxclause/internal/core/domain"
	"github.com/custodia-labs/taxclause/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serves the contract API over HTTP:

  GET  /                          health check
  GET  /contracts                 usage
  POST /contracts                 index {"id": "...", "text": "..."}
  GET  /contracts/{cid}/clauses   extracted clauses
  POST /contracts/{cid}/evaluate  evaluation

With --watch, a directory is indexed and watched alongside the server.
Flags override the server.* and watch.dir settings.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	addServeFlags(serveCmd)
	rootCmd.AddCommand(serveCmd)
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().String("addr", "", "listen address (default from server.addr, :8000)")
	cmd.Flags().String("watch", "", "directory to index and watch while serving")
	cmd.Flags().Float64("rate-limit", 0, "requests per second, 0 disables (default from server.rate_limit)")
	cmd.Flags().Int("burst", 0, "rate limiter burst size (default from server.burst)")
}

// serveSettings merges server settings with flags that were set.
func serveSettings(cmd *cobra.Command) (domain.ServerSettings, string, error) {
	defaults := domain.DefaultAppSettings()
	server := defaults.Server
	watch := ""

	if settings, err := settingsService(); err == nil {
		s, err := settings.Get()
		if err != nil {
			return server, "", fmt.Errorf("reading settings: %w", err)
		}
		server = s.Server
		watch = s.Watch.Dir
	}

	flags := cmd.Flags()
	if flags.Changed("addr") {
		server.Addr, _ = flags.GetString("addr")
	}
	if flags.Changed("rate-limit") {
		server.RateLimit, _ = flags.GetFloat64("rate-limit")
	}
	if flags.Changed("burst") {
		server.Burst, _ = flags.GetInt("burst")
	}
	if flags.Changed("watch") {
		watch, _ = flags.GetString("watch")
	}
	return server, watch, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	contracts, err := contractService()
	if err != nil {
		return err
	}

	server, watch, err := serveSettings(cmd)
	if err != nil {
		return err
	}

	api, err := httpapi.NewServer(contracts, httpapi.Options{
		RateLimit: server.RateLimit,
		Burst:     server.Burst,
	})
	if err != nil {
		return err
	}

	var watcher *filesystem.Watcher
	if watch != "" {
		ingest, err := ingestService()
		if err != nil {
			return err
		}
		watcher = filesystem.NewWatcher(watch, ingest)
		watcher.OnResult(printWatchResult(cmd))
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		return api.Run(ctx, server.Addr)
	})
	if watcher != nil {
		g.Go(func() error {
			return watcher.Run(ctx)
		})
	}

	logger.L().Info("serving",
		zap.String("addr", server.Addr),
		zap.Float64("rate_limit", server.RateLimit),
		zap.String("watch", watch),
	)
	cmd.Printf("Listening on %s\n", server.Addr)

	return g.Wait()
}
