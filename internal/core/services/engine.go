package services

import (
	"fmt"

	"github.com/custodia-labs/taxclause/internal/core/domain"
)

// ClauseEngine extracts clauses and applies rules. It holds no mutable
// state: results are a pure function of its catalogue, its rules and the
// text passed in.
type ClauseEngine struct {
	catalogue *Catalogue
	rules     *RuleSet
}

// NewClauseEngine creates an engine over the given catalogue and rules.
func NewClauseEngine(catalogue *Catalogue, rules *RuleSet) *ClauseEngine {
	return &ClauseEngine{catalogue: catalogue, rules: rules}
}

// NewDefaultClauseEngine creates an engine with the built-in catalogue
// and rule set.
func NewDefaultClauseEngine() (*ClauseEngine, error) {
	rules, err := NewRuleSet(DefaultRules())
	if err != nil {
		return nil, fmt.Errorf("building default rules: %w", err)
	}
	return NewClauseEngine(DefaultCatalogue(), rules), nil
}

// Catalogue returns the engine's pattern catalogue.
func (e *ClauseEngine) Catalogue() *Catalogue {
	return e.catalogue
}

// Rules returns the engine's rule set.
func (e *ClauseEngine) Rules() *RuleSet {
	return e.rules
}

// Extract returns the clause matches in text.
func (e *ClauseEngine) Extract(text string) []domain.ClauseMatch {
	return e.catalogue.Extract(text)
}

// Evaluate extracts clauses from text and applies the rules.
// ContractID is left for the caller to fill in.
func (e *ClauseEngine) Evaluate(text string) (*domain.Evaluation, error) {
	clauses := e.catalogue.Extract(text)
	facts := FactsFrom(text, clauses)

	issues, err := e.rules.Apply(facts)
	if err != nil {
		return nil, err
	}

	return &domain.Evaluation{
		Summary: facts.Summary(),
		Clauses: clauses,
		Issues:  issues,
	}, nil
}
