package domain

// Contract is the raw text of a contract stored under a caller-supplied key.
// Clauses and evaluations are never stored alongside it; they are
// recomputed from Content on every request.
type Contract struct {
	// ID is the caller-supplied identifier. Any string is accepted.
	ID string `json:"id"`

	// Title is an optional human-readable title, set by file ingestion.
	Title string `json:"title,omitempty"`

	// Content is the raw contract text.
	Content string `json:"text"`
}

// ContractSummary is a lightweight listing entry for an indexed contract.
type ContractSummary struct {
	ID     string `json:"id"`
	Title  string `json:"title,omitempty"`
	Length int    `json:"length"`
}
