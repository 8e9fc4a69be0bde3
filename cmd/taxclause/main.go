// Command taxclause extracts tax clauses from contracts and flags tax risks.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/taxclause/internal/adapters/driven/config/file"
	"github.com/custodia-labs/taxclause/internal/adapters/driving/cli"
	"github.com/custodia-labs/taxclause/internal/core/domain"
	"github.com/custodia-labs/taxclause/internal/core/ports/driven"
	"github.com/custodia-labs/taxclause/internal/core/services"
	"github.com/custodia-labs/taxclause/internal/logger"
	"github.com/custodia-labs/taxclause/internal/normalisers"
	"github.com/custodia-labs/taxclause/internal/normalisers/docx"
	"github.com/custodia-labs/taxclause/internal/normalisers/html"
	"github.com/custodia-labs/taxclause/internal/normalisers/plaintext"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	err := cli.Execute()
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func bootstrap(ctx context.Context, opts cli.Options) (*cli.Services, func() error, error) {
	configStore, err := openConfig(opts.ConfigPath)
	if err != nil {
		return nil, nil, err
	}
	settingsService := services.NewSettingsService(configStore)

	if opts.SettingsOnly {
		return &cli.Services{Settings: settingsService}, nil, nil
	}

	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("loading settings: %w", err)
	}
	if opts.Backend != "" {
		backend := domain.StorageBackend(opts.Backend)
		if !backend.IsValid() {
			return nil, nil, fmt.Errorf("storage backend %q: %w", opts.Backend, domain.ErrInvalidInput)
		}
		settings.Storage.Backend = backend
	}

	store, closeStore, err := openStore(ctx, settings.Storage)
	if err != nil {
		return nil, nil, err
	}

	engine, err := services.NewDefaultClauseEngine()
	if err != nil {
		_ = closeStore()
		return nil, nil, err
	}

	contractService := services.NewContractService(store, engine)
	registry := normalisers.NewRegistry(plaintext.New(), html.New(), docx.New())

	logger.Debug("storage backend: %s", settings.Storage.Backend)

	return &cli.Services{
		Contracts: contractService,
		Ingest:    services.NewIngestService(contractService, registry),
		Settings:  settingsService,
	}, closeStore, nil
}

func openConfig(path string) (driven.ConfigStore, error) {
	if path != "" {
		return file.NewConfigStoreAt(path)
	}
	return file.NewConfigStore("")
}
