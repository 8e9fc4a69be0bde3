package domain

// ClauseCategory names a contractual provision recognised by the catalogue.
type ClauseCategory string

const (
	// ClauseWithholdingTax covers tax deducted at source.
	ClauseWithholdingTax ClauseCategory = "WithholdingTax"

	// ClauseGrossUp covers payer obligations to make the payee whole.
	ClauseGrossUp ClauseCategory = "GrossUp"

	// ClauseVAT covers value added and sales tax references.
	ClauseVAT ClauseCategory = "VAT"

	// ClauseGoverningLaw covers choice-of-law provisions.
	ClauseGoverningLaw ClauseCategory = "GoverningLaw"
)

// Span is a half-open [start, end) range of character offsets.
// It serialises as a two-element JSON array.
type Span [2]int

// Start returns the inclusive start offset.
func (s Span) Start() int { return s[0] }

// End returns the exclusive end offset.
func (s Span) End() int { return s[1] }

// Len returns the number of characters covered.
func (s Span) Len() int { return s[1] - s[0] }

// ClauseMatch is one occurrence of a clause category in contract text.
type ClauseMatch struct {
	// Name is the clause category.
	Name ClauseCategory `json:"name" yaml:"name"`

	// Match is the literal matched substring.
	Match string `json:"match" yaml:"match"`

	// Span locates Match within the source text in characters.
	Span Span `json:"span" yaml:"span,flow"`

	// Snippet is trimmed context around the match.
	Snippet string `json:"snippet" yaml:"snippet"`
}

// ClauseReport lists the clauses found in one contract.
type ClauseReport struct {
	ContractID string        `json:"contractId" yaml:"contractId"`
	Clauses    []ClauseMatch `json:"clauses" yaml:"clauses"`
}
