package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/taxclause/internal/core/domain"
)

// IndexInput is the input schema for the index_contract tool.
type IndexInput struct {
	ID   string `json:"id" jsonschema:"unique contract identifier; indexing an existing id overwrites it"`
	Text string `json:"text" jsonschema:"raw contract text"`
}

// IndexOutput is the output schema for the index_contract tool.
type IndexOutput struct {
	Indexed string `json:"indexed"`
}

// ContractInput identifies a stored contract.
type ContractInput struct {
	ID string `json:"id" jsonschema:"identifier of a previously indexed contract"`
}

// ClausesOutput is the output schema for the get_clauses tool.
type ClausesOutput struct {
	ContractID string               `json:"contractId"`
	Clauses    []domain.ClauseMatch `json:"clauses"`
}

// EvaluationOutput is the output schema for the evaluate_contract tool.
type EvaluationOutput struct {
	ContractID string               `json:"contractId"`
	Summary    domain.Summary       `json:"summary"`
	Clauses    []domain.ClauseMatch `json:"clauses"`
	Issues     []domain.Issue       `json:"issues"`
}

// ListInput is the (empty) input schema for the list_contracts tool.
type ListInput struct{}

// ListOutput is the output schema for the list_contracts tool.
type ListOutput struct {
	Contracts []domain.ContractSummary `json:"contracts"`
	Count     int                      `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "index_contract",
		Description: "Store contract text under an id for clause extraction",
	}, s.handleIndex)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_clauses",
		Description: "Extract withholding tax, gross-up, VAT and governing law clauses from a contract",
	}, s.handleGetClauses)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "evaluate_contract",
		Description: "Extract clauses and flag tax risks such as missing gross-up protection",
	}, s.handleEvaluate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_contracts",
		Description: "List indexed contracts",
	}, s.handleList)
}

func (s *Server) handleIndex(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IndexInput,
) (*mcp.CallToolResult, IndexOutput, error) {
	if err := s.ports.Contracts.Index(ctx, input.ID, input.Text); err != nil {
		return nil, IndexOutput{}, err
	}
	return nil, IndexOutput{Indexed: input.ID}, nil
}

func (s *Server) handleGetClauses(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ContractInput,
) (*mcp.CallToolResult, ClausesOutput, error) {
	report, err := s.ports.Contracts.GetClauses(ctx, input.ID)
	if err != nil {
		return nil, ClausesOutput{}, contractError(input.ID, err)
	}
	return nil, ClausesOutput{
		ContractID: report.ContractID,
		Clauses:    report.Clauses,
	}, nil
}

func (s *Server) handleEvaluate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ContractInput,
) (*mcp.CallToolResult, EvaluationOutput, error) {
	eval, err := s.ports.Contracts.Evaluate(ctx, input.ID)
	if err != nil {
		return nil, EvaluationOutput{}, contractError(input.ID, err)
	}
	return nil, EvaluationOutput{
		ContractID: eval.ContractID,
		Summary:    eval.Summary,
		Clauses:    eval.Clauses,
		Issues:     eval.Issues,
	}, nil
}

func (s *Server) handleList(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListInput,
) (*mcp.CallToolResult, ListOutput, error) {
	contracts, err := s.ports.Contracts.List(ctx)
	if err != nil {
		return nil, ListOutput{}, err
	}
	if contracts == nil {
		contracts = []domain.ContractSummary{}
	}
	return nil, ListOutput{Contracts: contracts, Count: len(contracts)}, nil
}

// contractError gives not-found errors a message naming the contract.
func contractError(id string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("contract %q not found: %w", id, err)
	}
	return err
}
