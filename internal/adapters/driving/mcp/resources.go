package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/taxclause/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for taxclause resources.
	uriScheme = "contracts://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "list",
		Name:        "contracts",
		Description: "List of all indexed contracts",
		MIMEType:    "application/json",
	}, s.handleListResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "{contractId}/evaluation",
		Name:        "contract-evaluation",
		Description: "Tax evaluation of a specific contract",
		MIMEType:    "application/json",
	}, s.handleEvaluationResource)
}

// handleListResource returns the indexed contract summaries.
func (s *Server) handleListResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	contracts, err := s.ports.Contracts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing contracts: %w", err)
	}
	if contracts == nil {
		contracts = []domain.ContractSummary{}
	}
	return jsonResource(req.Params.URI, contracts)
}

// handleEvaluationResource returns the evaluation of one contract.
func (s *Server) handleEvaluationResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id, ok := extractContractID(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	eval, err := s.ports.Contracts.Evaluate(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("evaluating contract: %w", err)
	}
	return jsonResource(req.Params.URI, eval)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractContractID extracts the id from a URI like contracts://{contractId}/evaluation.
func extractContractID(uri string) (string, bool) {
	const suffix = "/evaluation"

	if !strings.HasPrefix(uri, uriScheme) || !strings.HasSuffix(uri, suffix) {
		return "", false
	}
	id := strings.TrimSuffix(strings.TrimPrefix(uri, uriScheme), suffix)
	if id == "" {
		return "", false
	}
	return id, true
}
