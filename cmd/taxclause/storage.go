package main

import (
	"context"
	"fmt"

	"github.com/custodia-labs/taxclause/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/taxclause/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/taxclause/internal/adapters/driven/storage/redis"
	"github.com/custodia-labs/taxclause/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/taxclause/internal/core/domain"
	"github.com/custodia-labs/taxclause/internal/core/ports/driven"
)

func noopClose() error { return nil }

// openStore opens the contract store selected by settings. The returned
// function releases its connection.
func openStore(ctx context.Context, settings domain.StorageSettings) (driven.ContractStore, func() error, error) {
	switch settings.Backend {
	case domain.BackendMemory:
		return memory.NewContractStore(), noopClose, nil

	case domain.BackendSQLite:
		store, err := sqlite.NewStore(settings.SQLiteDir)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return store.ContractStore(), store.Close, nil

	case domain.BackendPostgres:
		db, err := postgres.Open(ctx, settings.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		store := postgres.NewContractStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, db.Close, nil

	case domain.BackendRedis:
		client, err := redis.Dial(ctx, settings.RedisAddr, settings.RedisPassword, settings.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return redis.NewContractStore(client, settings.RedisPrefix), client.Close, nil

	default:
		return nil, nil, fmt.Errorf("storage backend %q: %w", settings.Backend, domain.ErrInvalidInput)
	}
}
