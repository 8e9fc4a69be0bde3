package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/taxclause/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/taxclause/internal/core/domain"
)

func newTestContractService(t *testing.T) (*ContractService, *memory.ContractStore) {
	t.Helper()
	store := memory.NewContractStore()
	return NewContractService(store, newTestEngine(t)), store
}

// failingStore returns err from every operation.
type failingStore struct {
	err error
}

func (f failingStore) Put(context.Context, domain.Contract) error { return f.err }
func (f failingStore) Get(context.Context, string) (*domain.Contract, error) {
	return nil, f.err
}
func (f failingStore) List(context.Context) ([]domain.Contract, error) { return nil, f.err }

func TestContractService_Index(t *testing.T) {
	svc, store := newTestContractService(t)
	ctx := context.Background()

	require.NoError(t, svc.Index(ctx, "c-1", "VAT applies."))

	got, err := store.Get(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, "VAT applies.", got.Content)
}

func TestContractService_Index_Overwrites(t *testing.T) {
	svc, _ := newTestContractService(t)
	ctx := context.Background()

	require.NoError(t, svc.Index(ctx, "c-1", "Withholding tax applies."))
	require.NoError(t, svc.Index(ctx, "c-1", "Governing law: Ireland."))

	report, err := svc.GetClauses(ctx, "c-1")
	require.NoError(t, err)
	require.Len(t, report.Clauses, 1)
	assert.Equal(t, domain.ClauseGoverningLaw, report.Clauses[0].Name)
}

func TestContractService_Index_Idempotent(t *testing.T) {
	svc, store := newTestContractService(t)
	ctx := context.Background()

	require.NoError(t, svc.Index(ctx, "c-1", "VAT applies."))
	first, err := svc.Evaluate(ctx, "c-1")
	require.NoError(t, err)

	require.NoError(t, svc.Index(ctx, "c-1", "VAT applies."))
	second, err := svc.Evaluate(ctx, "c-1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.Len())
}

func TestContractService_Index_StoreError(t *testing.T) {
	storeErr := errors.New("disk full")
	svc := NewContractService(failingStore{err: storeErr}, newTestEngine(t))

	err := svc.Index(context.Background(), "c-1", "text")
	assert.ErrorIs(t, err, storeErr)
}

func TestContractService_IndexContract_KeepsTitle(t *testing.T) {
	svc, _ := newTestContractService(t)
	ctx := context.Background()

	require.NoError(t, svc.IndexContract(ctx, domain.Contract{ID: "c-1", Title: "MSA", Content: "VAT"}))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.ContractSummary{{ID: "c-1", Title: "MSA", Length: 3}}, list)
}

func TestContractService_GetClauses(t *testing.T) {
	svc, _ := newTestContractService(t)
	ctx := context.Background()
	text := "Any payment subject to withholding tax shall be grossed up."

	require.NoError(t, svc.Index(ctx, "c-1", text))

	report, err := svc.GetClauses(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, "c-1", report.ContractID)
	assert.Equal(t, ExtractClauses(text), report.Clauses)
}

func TestContractService_GetClauses_EmptyText(t *testing.T) {
	svc, _ := newTestContractService(t)
	ctx := context.Background()

	require.NoError(t, svc.Index(ctx, "empty", ""))

	report, err := svc.GetClauses(ctx, "empty")
	require.NoError(t, err)
	assert.NotNil(t, report.Clauses)
	assert.Empty(t, report.Clauses)
}

func TestContractService_NotFound(t *testing.T) {
	svc, _ := newTestContractService(t)
	ctx := context.Background()

	_, err := svc.GetClauses(ctx, "nonexistent")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Evaluate(ctx, "nonexistent")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestContractService_Evaluate(t *testing.T) {
	svc, _ := newTestContractService(t)
	ctx := context.Background()

	require.NoError(t, svc.Index(ctx, "c-1", "The payer shall bear any withholding tax."))

	eval, err := svc.Evaluate(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, "c-1", eval.ContractID)
	assert.Equal(t, domain.Summary{WithholdingTax: true}, eval.Summary)
	require.Len(t, eval.Issues, 1)
	assert.Equal(t, RuleGrossUpRequired, eval.Issues[0].ID)
	assert.Equal(t, domain.SeverityHigh, eval.Issues[0].Severity)
}

func TestContractService_Evaluate_StoreError(t *testing.T) {
	storeErr := errors.New("timeout")
	svc := NewContractService(failingStore{err: storeErr}, newTestEngine(t))

	_, err := svc.Evaluate(context.Background(), "c-1")
	assert.ErrorIs(t, err, storeErr)
}

func TestContractService_List(t *testing.T) {
	svc, _ := newTestContractService(t)
	ctx := context.Background()

	require.NoError(t, svc.Index(ctx, "b", "Ünïcödé"))
	require.NoError(t, svc.Index(ctx, "a", "VAT"))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.ContractSummary{
		{ID: "a", Length: 3},
		{ID: "b", Length: 7},
	}, list)
}

func TestContractService_List_StoreError(t *testing.T) {
	storeErr := errors.New("timeout")
	svc := NewContractService(failingStore{err: storeErr}, newTestEngine(t))

	_, err := svc.List(context.Background())
	assert.ErrorIs(t, err, storeErr)
}

func TestContractService_NilDependencies(t *testing.T) {
	svc := NewContractService(nil, nil)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Index(ctx, "c-1", "x"), domain.ErrNotImplemented)
	_, err := svc.GetClauses(ctx, "c-1")
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
	_, err = svc.Evaluate(ctx, "c-1")
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
	_, err = svc.List(ctx)
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
}
