// Package plaintext provides the fallback Normaliser for plain text and
// markdown contracts.
package plaintext

import (
	"bytes"
	"context"
	"strings"

	"github.com/custodia-labs/taxclause/internal/core/domain"
	"github.com/custodia-labs/taxclause/internal/core/ports/driven"
	"github.com/custodia-labs/taxclause/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Normaliser handles plain text documents.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/plain", "text/markdown"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 5 // Fallback normaliser
}

// Normalise returns the document bytes as text. A leading byte order mark
// is dropped and invalid UTF-8 sequences become U+FFFD; nothing else is
// altered, so clause spans refer to the file as written.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	content := bytes.TrimPrefix(raw.Content, utf8BOM)

	return &driven.NormaliseResult{
		Title:   normalisers.TitleFromMetadata(raw),
		Content: strings.ToValidUTF8(string(content), "�"),
	}, nil
}
