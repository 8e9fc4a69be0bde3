package normalisers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/taxclause/internal/core/domain"
	"github.com/custodia-labs/taxclause/internal/core/ports/driven"
)

type stubNormaliser struct {
	name     string
	types    []string
	priority int
}

func (s stubNormaliser) SupportedMIMETypes() []string { return s.types }
func (s stubNormaliser) Priority() int                 { return s.priority }
func (s stubNormaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	return &driven.NormaliseResult{Title: s.name, Content: string(raw.Content)}, nil
}

func TestRegistry_Normalise_PicksHighestPriority(t *testing.T) {
	r := NewRegistry(
		stubNormaliser{name: "fallback", types: []string{"text/plain", "text/html"}, priority: 5},
		stubNormaliser{name: "html", types: []string{"text/html"}, priority: 50},
	)

	result, err := r.Normalise(context.Background(), &domain.RawDocument{MIMEType: "text/html", Content: []byte("x")})
	require.NoError(t, err)
	assert.Equal(t, "html", result.Title)

	result, err = r.Normalise(context.Background(), &domain.RawDocument{MIMEType: "text/plain"})
	require.NoError(t, err)
	assert.Equal(t, "fallback", result.Title)
}

func TestRegistry_Normalise_EqualPriorityKeepsOrder(t *testing.T) {
	r := NewRegistry(
		stubNormaliser{name: "first", types: []string{"text/plain"}, priority: 5},
		stubNormaliser{name: "second", types: []string{"text/plain"}, priority: 5},
	)

	result, err := r.Normalise(context.Background(), &domain.RawDocument{MIMEType: "text/plain"})
	require.NoError(t, err)
	assert.Equal(t, "first", result.Title)
}

func TestRegistry_Normalise_Unsupported(t *testing.T) {
	r := NewRegistry(stubNormaliser{types: []string{"text/plain"}})

	_, err := r.Normalise(context.Background(), &domain.RawDocument{MIMEType: "application/pdf"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestRegistry_Normalise_Nil(t *testing.T) {
	r := NewRegistry()

	_, err := r.Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegistry_SupportedMIMETypes(t *testing.T) {
	r := NewRegistry()
	assert.Empty(t, r.SupportedMIMETypes())

	r.Register(stubNormaliser{types: []string{"text/plain", "text/html"}})
	r.Register(stubNormaliser{types: []string{"text/html"}})

	assert.Equal(t, []string{"text/html", "text/plain"}, r.SupportedMIMETypes())
}

func TestTitleFromURI(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"/contracts/master_services-agreement.docx", "master services agreement"},
		{"plain.txt", "plain"},
		{"README", "README"},
		{"/a/b/archive.tar.gz", "archive.tar"},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			assert.Equal(t, tt.want, TitleFromURI(tt.uri))
		})
	}
}

func TestTitleFromMetadata(t *testing.T) {
	assert.Equal(t, "Given", TitleFromMetadata(&domain.RawDocument{
		URI:      "file.txt",
		Metadata: map[string]any{"title": "Given"},
	}))
	assert.Equal(t, "file", TitleFromMetadata(&domain.RawDocument{
		URI:      "file.txt",
		Metadata: map[string]any{"title": 42},
	}))
	assert.Equal(t, "file", TitleFromMetadata(&domain.RawDocument{URI: "file.txt"}))
}
