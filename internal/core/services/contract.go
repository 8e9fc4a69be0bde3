package services

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/custodia-labs/taxclause/internal/core/domain"
	"github.com/custodia-labs/taxclause/internal/core/ports/driven"
	"github.com/custodia-labs/taxclause/internal/core/ports/driving"
)

// Ensure ContractService implements the interface.
var _ driving.ContractService = (*ContractService)(nil)

// ContractService indexes contracts and analyses them on demand.
// Clauses and evaluations are recomputed from the stored text on every call.
type ContractService struct {
	store  driven.ContractStore
	engine *ClauseEngine
}

// NewContractService creates a new contract service.
func NewContractService(store driven.ContractStore, engine *ClauseEngine) *ContractService {
	return &ContractService{
		store:  store,
		engine: engine,
	}
}

// Index stores text under id, overwriting any previous text.
func (s *ContractService) Index(ctx context.Context, id, text string) error {
	return s.IndexContract(ctx, domain.Contract{ID: id, Content: text})
}

// IndexContract stores a contract including its optional title.
func (s *ContractService) IndexContract(ctx context.Context, contract domain.Contract) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	if err := s.store.Put(ctx, contract); err != nil {
		return fmt.Errorf("storing contract: %w", err)
	}
	return nil
}

// GetClauses extracts the clauses of a stored contract.
func (s *ContractService) GetClauses(ctx context.Context, id string) (*domain.ClauseReport, error) {
	contract, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	return &domain.ClauseReport{
		ContractID: id,
		Clauses:    s.engine.Extract(contract.Content),
	}, nil
}

// Evaluate extracts clauses and applies the tax rules to a stored contract.
func (s *ContractService) Evaluate(ctx context.Context, id string) (*domain.Evaluation, error) {
	contract, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	eval, err := s.engine.Evaluate(contract.Content)
	if err != nil {
		return nil, fmt.Errorf("evaluating contract: %w", err)
	}
	eval.ContractID = id

	return eval, nil
}

// List returns a summary of every indexed contract ordered by ID.
func (s *ContractService) List(ctx context.Context) ([]domain.ContractSummary, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}

	contracts, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing contracts: %w", err)
	}

	summaries := make([]domain.ContractSummary, len(contracts))
	for i := range contracts {
		summaries[i] = domain.ContractSummary{
			ID:     contracts[i].ID,
			Title:  contracts[i].Title,
			Length: utf8.RuneCountInString(contracts[i].Content),
		}
	}
	return summaries, nil
}

// lookup fetches a contract, passing domain.ErrNotFound through unwrapped.
func (s *ContractService) lookup(ctx context.Context, id string) (*domain.Contract, error) {
	if s.store == nil || s.engine == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.Get(ctx, id)
}
