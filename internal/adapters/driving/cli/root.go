// Package cli implements the taxclause command line using cobra.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/taxclause/internal/core/ports/driving"
	"github.com/custodia-labs/taxclause/internal/logger"
)

// Output formats accepted by --output.
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// skipServices marks commands that run without bootstrapping services.
const skipServices = "skip-services"

// Services are the driving ports the commands call into.
type Services struct {
	Contracts driving.ContractService
	Ingest    driving.IngestService
	Settings  driving.SettingsService
}

// Options carries global flags to the bootstrap function.
type Options struct {
	// ConfigPath overrides the default config file location.
	ConfigPath string

	// Backend overrides the configured storage backend when set.
	Backend string

	// SettingsOnly asks for the settings service alone, without opening
	// storage.
	SettingsOnly bool
}

// Bootstrap builds the services for a command invocation. The returned
// close function releases storage connections.
type Bootstrap func(ctx context.Context, opts Options) (*Services, func() error, error)

var (
	version = "dev"

	verbose      bool
	configPath   string
	backendFlag  string
	outputFormat string

	loaded    *Services
	bootstrap Bootstrap
	closeFn   func() error
)

var rootCmd = &cobra.Command{
	Use:   "taxclause",
	Short: "Extract tax clauses from contracts and flag tax risks",
	Long: `taxclause indexes contract text, extracts withholding tax, gross-up,
VAT and governing law clauses, and flags tax risks such as withholding
tax without gross-up protection or VAT without reverse charge wording.

Contracts are kept in memory by default. Configure a persistent backend
(sqlite, postgres or redis) in ~/.taxclause/config.toml or with --backend
to use one-shot commands across invocations.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.taxclause/config.toml)")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "storage backend: memory, sqlite, postgres or redis")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", outputText, "output format: text, json or yaml")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetServices injects ready-made services, bypassing bootstrap.
func SetServices(s *Services) {
	loaded = s
}

// SetBootstrap registers the function that builds services on demand.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer closeServices()

	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	switch outputFormat {
	case outputText, outputJSON, outputYAML:
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", outputFormat)
	}

	if cmd.Annotations[skipServices] == "true" || loaded != nil || bootstrap == nil {
		return nil
	}

	svc, closer, err := bootstrap(cmd.Context(), Options{
		ConfigPath:   configPath,
		Backend:      backendFlag,
		SettingsOnly: cmd.Annotations[settingsOnly] == "true",
	})
	if err != nil {
		return err
	}
	loaded = svc
	closeFn = closer
	return nil
}

func closeServices() {
	if closeFn == nil {
		return
	}
	if err := closeFn(); err != nil {
		logger.Warn("closing storage: %v", err)
	}
	closeFn = nil
}

var errNotConfigured = errors.New("service not configured")

func contractService() (driving.ContractService, error) {
	if loaded == nil || loaded.Contracts == nil {
		return nil, fmt.Errorf("contract %w", errNotConfigured)
	}
	return loaded.Contracts, nil
}

func ingestService() (driving.IngestService, error) {
	if loaded == nil || loaded.Ingest == nil {
		return nil, fmt.Errorf("ingest %w", errNotConfigured)
	}
	return loaded.Ingest, nil
}

func settingsService() (driving.SettingsService, error) {
	if loaded == nil || loaded.Settings == nil {
		return nil, fmt.Errorf("settings %w", errNotConfigured)
	}
	return loaded.Settings, nil
}
