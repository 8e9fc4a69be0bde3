package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/taxclause/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/taxclause/internal/core/domain"
	"github.com/custodia-labs/taxclause/internal/core/services"
)

// mockContractService is a mock implementation of driving.ContractService
// that fails every call with err.
type mockContractService struct {
	err error
}

func (m *mockContractService) Index(_ context.Context, _, _ string) error {
	return m.err
}

func (m *mockContractService) IndexContract(_ context.Context, _ domain.Contract) error {
	return m.err
}

func (m *mockContractService) GetClauses(_ context.Context, _ string) (*domain.ClauseReport, error) {
	return nil, m.err
}

func (m *mockContractService) Evaluate(_ context.Context, _ string) (*domain.Evaluation, error) {
	return nil, m.err
}

func (m *mockContractService) List(_ context.Context) ([]domain.ContractSummary, error) {
	return nil, m.err
}

// newContractService returns a memory-backed contract service.
func newContractService(t *testing.T) *services.ContractService {
	t.Helper()
	engine, err := services.NewDefaultClauseEngine()
	require.NoError(t, err)
	return services.NewContractService(memory.NewContractStore(), engine)
}

func newTestServer(t *testing.T) (*Server, *services.ContractService) {
	t.Helper()
	contracts := newContractService(t)
	server, err := NewServer(&Ports{Contracts: contracts})
	require.NoError(t, err)
	return server, contracts
}
