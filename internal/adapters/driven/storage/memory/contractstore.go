package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/taxclause/internal/core/domain"
	"github.com/custodia-labs/taxclause/internal/core/ports/driven"
)

// Ensure ContractStore implements the interface.
var _ driven.ContractStore = (*ContractStore)(nil)

// ContractStore is an in-memory implementation of driven.ContractStore.
// Contents are lost when the process exits.
type ContractStore struct {
	mu        sync.RWMutex
	contracts map[string]domain.Contract
}

// NewContractStore creates a new in-memory contract store.
func NewContractStore() *ContractStore {
	return &ContractStore{
		contracts: make(map[string]domain.Contract),
	}
}

// Put stores or replaces a contract.
func (s *ContractStore) Put(_ context.Context, contract domain.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contracts[contract.ID] = contract
	return nil
}

// Get retrieves a contract by ID.
func (s *ContractStore) Get(_ context.Context, id string) (*domain.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contract, ok := s.contracts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &contract, nil
}

// List returns all contracts ordered by ID.
func (s *ContractStore) List(_ context.Context) ([]domain.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Contract, 0, len(s.contracts))
	for _, contract := range s.contracts {
		result = append(result, contract)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Len returns the number of stored contracts.
func (s *ContractStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.contracts)
}
