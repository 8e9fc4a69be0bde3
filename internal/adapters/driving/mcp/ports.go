package mcp

import (
	"github.com/custodia-labs/taxclause/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the MCP server.
type Ports struct {
	// Contracts indexes and analyses contracts.
	Contracts driving.ContractService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Contracts == nil {
		return ErrMissingContractService
	}
	return nil
}
