// Package tui provides an interactive terminal user interface for browsing
// indexed contracts and their tax evaluations. It implements a driving
// adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/taxclause/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
type Ports struct {
	// Contracts lists and evaluates indexed contracts.
	Contracts driving.ContractService
}

// NewPorts creates a new Ports aggregate.
func NewPorts(contracts driving.ContractService) *Ports {
	return &Ports{Contracts: contracts}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Contracts == nil {
		return ErrMissingContractService
	}
	return nil
}
