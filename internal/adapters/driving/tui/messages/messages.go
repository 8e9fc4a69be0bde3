// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/taxclause/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewContracts lists indexed contracts.
	ViewContracts ViewType = iota
	// ViewReport shows the evaluation of one contract.
	ViewReport
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewContracts:
		return "contracts"
	case ViewReport:
		return "report"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ContractsLoaded carries the contract list back to the model.
type ContractsLoaded struct {
	Contracts []domain.ContractSummary
	Err       error
}

// ContractSelected is sent when a contract is chosen from the list.
type ContractSelected struct {
	ID string
}

// EvaluationLoaded carries an evaluation back to the model.
type EvaluationLoaded struct {
	ID         string
	Evaluation *domain.Evaluation
	Err        error
}

// ErrorOccurred is sent when an operation fails.
type ErrorOccurred struct {
	Err error
}

// Quit requests the program to exit.
type Quit struct{}
