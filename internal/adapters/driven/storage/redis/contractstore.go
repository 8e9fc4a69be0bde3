// Package redis provides a Redis implementation of driven.ContractStore.
//
// Each contract is a hash under "<prefix>contract:<id>" with the fields id,
// title and content. The set "<prefix>contracts" indexes every stored ID.
package redis

import (
	"context"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/taxclause/internal/core/domain"
	"github.com/custodia-labs/taxclause/internal/core/ports/driven"
)

// DefaultPrefix namespaces keys when no prefix is configured.
const DefaultPrefix = "taxclause:"

// Ensure ContractStore implements the interface.
var _ driven.ContractStore = (*ContractStore)(nil)

// ContractStore stores contracts in Redis.
type ContractStore struct {
	client redis.UniversalClient
	prefix string
}

// NewContractStore creates a store over an existing client.
func NewContractStore(client redis.UniversalClient, prefix string) *ContractStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &ContractStore{client: client, prefix: prefix}
}

// Dial creates a client for addr and verifies it responds to PING.
func Dial(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return rdb, nil
}

func (s *ContractStore) contractKey(id string) string {
	return s.prefix + "contract:" + id
}

func (s *ContractStore) indexKey() string {
	return s.prefix + "contracts"
}

// Put stores or replaces a contract. The hash and the index are written
// in one MULTI/EXEC transaction.
func (s *ContractStore) Put(ctx context.Context, contract domain.Contract) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.contractKey(contract.ID),
			"id", contract.ID,
			"title", contract.Title,
			"content", contract.Content,
		)
		pipe.SAdd(ctx, s.indexKey(), contract.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving contract: %w", err)
	}
	return nil
}

// Get retrieves a contract by ID.
func (s *ContractStore) Get(ctx context.Context, id string) (*domain.Contract, error) {
	fields, err := s.client.HGetAll(ctx, s.contractKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("getting contract: %w", err)
	}
	return fromHash(id, fields)
}

// List returns all contracts ordered by ID.
func (s *ContractStore) List(ctx context.Context) ([]domain.Contract, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("listing contract ids: %w", err)
	}
	sort.Strings(ids)

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	if len(ids) > 0 {
		_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
			for i, id := range ids {
				cmds[i] = pipe.HGetAll(ctx, s.contractKey(id))
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("fetching contracts: %w", err)
		}
	}

	contracts := make([]domain.Contract, 0, len(ids))
	for i, id := range ids {
		c, err := fromHash(id, cmds[i].Val())
		if err != nil {
			// Index entry without a hash: the hash was removed out of band.
			continue
		}
		contracts = append(contracts, *c)
	}
	return contracts, nil
}

func fromHash(id string, fields map[string]string) (*domain.Contract, error) {
	if len(fields) == 0 {
		return nil, domain.ErrNotFound
	}
	return &domain.Contract{
		ID:      id,
		Title:   fields["title"],
		Content: fields["content"],
	}, nil
}
