package driving

import (
	"context"

	"github.com/custodia-labs/taxclause/internal/core/domain"
)

// ContractService indexes contracts and analyses their tax clauses.
// Unknown contract IDs are reported as domain.ErrNotFound.
type ContractService interface {
	// Index stores text under id, overwriting any previous text.
	Index(ctx context.Context, id, text string) error

	// IndexContract stores a contract including its optional title.
	IndexContract(ctx context.Context, contract domain.Contract) error

	// GetClauses extracts the clauses of a stored contract.
	GetClauses(ctx context.Context, id string) (*domain.ClauseReport, error)

	// Evaluate extracts clauses and applies the tax rules to a stored contract.
	Evaluate(ctx context.Context, id string) (*domain.Evaluation, error)

	// List returns a summary of every indexed contract ordered by ID.
	List(ctx context.Context) ([]domain.ContractSummary, error)
}
