package plaintext

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/taxclause/internal/core/domain"
	"github.com/custodia-labs/taxclause/internal/core/ports/driven"
)

func TestNew(t *testing.T) {
	normaliser := New()
	require.NotNil(t, normaliser)
	assert.IsType(t, &Normaliser{}, normaliser)
}

func TestSupportedMIMETypes(t *testing.T) {
	assert.Equal(t, []string{"text/plain", "text/markdown"}, New().SupportedMIMETypes())
}

func TestPriority(t *testing.T) {
	assert.Equal(t, 5, New().Priority())
}

func TestNormalise_Success(t *testing.T) {
	raw := &domain.RawDocument{
		URI:      "/contracts/supply_agreement.txt",
		MIMEType: "text/plain",
		Content:  []byte("The payer shall bear any withholding tax.\n"),
	}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "supply agreement", result.Title)
	assert.Equal(t, "The payer shall bear any withholding tax.\n", result.Content)
}

func TestNormalise_NilDocument(t *testing.T) {
	result, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestNormalise_EmptyContent(t *testing.T) {
	result, err := New().Normalise(context.Background(), &domain.RawDocument{URI: "empty.txt"})
	require.NoError(t, err)
	assert.Empty(t, result.Content)
}

func TestNormalise_MetadataTitle(t *testing.T) {
	raw := &domain.RawDocument{
		URI:      "c-1.txt",
		Content:  []byte("VAT"),
		Metadata: map[string]any{"title": "Reseller Agreement"},
	}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "Reseller Agreement", result.Title)
}

func TestNormalise_StripsBOM(t *testing.T) {
	raw := &domain.RawDocument{URI: "bom.txt", Content: []byte("\xEF\xBB\xBFVAT applies.")}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "VAT applies.", result.Content)
}

func TestNormalise_InvalidUTF8(t *testing.T) {
	raw := &domain.RawDocument{URI: "bad.txt", Content: []byte("VAT \xff\xfe applies")}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "VAT � applies", result.Content)
}

func TestNormalise_UnicodeAndWhitespacePreserved(t *testing.T) {
	text := "  Ünïcödé\r\n\tgross-up  "
	result, err := New().Normalise(context.Background(), &domain.RawDocument{URI: "u.txt", Content: []byte(text)})
	require.NoError(t, err)
	assert.Equal(t, text, result.Content)
}

func TestNormalise_LargeContent(t *testing.T) {
	text := strings.Repeat("withholding tax ", 10000)
	result, err := New().Normalise(context.Background(), &domain.RawDocument{URI: "big.txt", Content: []byte(text)})
	require.NoError(t, err)
	assert.Len(t, result.Content, len(text))
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Normaliser = New()
}
