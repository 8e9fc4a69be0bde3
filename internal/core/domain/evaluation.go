package domain

// Severity grades an evaluation issue.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Issue is a risk raised by a rule.
type Issue struct {
	ID          string   `json:"id" yaml:"id"`
	Severity    Severity `json:"severity" yaml:"severity"`
	Explanation string   `json:"explanation" yaml:"explanation"`
	Suggestion  string   `json:"suggestion" yaml:"suggestion"`
}

// Summary holds the clause presence flags rules are evaluated against.
type Summary struct {
	WithholdingTax bool `json:"withholdingTax" yaml:"withholdingTax"`
	GrossUp        bool `json:"grossUp" yaml:"grossUp"`
	VAT            bool `json:"vat" yaml:"vat"`
}

// Evaluation is the full result of evaluating one contract.
// Clauses and Issues are never nil so they serialise as arrays.
type Evaluation struct {
	ContractID string        `json:"contractId" yaml:"contractId"`
	Summary    Summary       `json:"summary" yaml:"summary"`
	Clauses    []ClauseMatch `json:"clauses" yaml:"clauses"`
	Issues     []Issue       `json:"issues" yaml:"issues"`
}

// HasIssue reports whether an issue with the given id was raised.
func (e *Evaluation) HasIssue(id string) bool {
	for i := range e.Issues {
		if e.Issues[i].ID == id {
			return true
		}
	}
	return false
}
