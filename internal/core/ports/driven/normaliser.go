package driven

import (
	"context"

	"github.com/custodia-labs/taxclause/internal/core/domain"
)

// Normaliser extracts plain contract text from raw file bytes.
// Each normaliser handles specific MIME types (e.g., DOCX, HTML).
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Generic MIME normalisers should return 50-89.
	// Fallback normalisers should return 1-9.
	Priority() int

	// Normalise transforms a raw document into contract text.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)
}

// NormaliseResult contains the output of normalisation.
type NormaliseResult struct {
	// Title is derived from document metadata or the file name.
	Title string

	// Content is the extracted plain text.
	Content string
}
