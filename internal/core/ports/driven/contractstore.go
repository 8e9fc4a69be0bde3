package driven

import (
	"context"

	"github.com/custodia-labs/taxclause/internal/core/domain"
)

// ContractStore holds raw contract text keyed by contract ID.
// Implementations must serialise concurrent access; concurrent Put calls
// for the same ID resolve as last write wins.
type ContractStore interface {
	// Put stores or overwrites a contract. Content is never validated.
	Put(ctx context.Context, contract domain.Contract) error

	// Get retrieves a contract by ID.
	// Returns domain.ErrNotFound if no contract is stored under id.
	Get(ctx context.Context, id string) (*domain.Contract, error)

	// List returns all stored contracts ordered by ID.
	List(ctx context.Context) ([]domain.Contract, error)
}
