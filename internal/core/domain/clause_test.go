package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpan_Accessors(t *testing.T) {
	s := Span{4, 19}

	assert.Equal(t, 4, s.Start())
	assert.Equal(t, 19, s.End())
	assert.Equal(t, 15, s.Len())
}

// TestClauseMatch_JSONShape tests the serialised field names and span array.
func TestClauseMatch_JSONShape(t *testing.T) {
	m := ClauseMatch{
		Name:    ClauseGrossUp,
		Match:   "gross-up",
		Span:    Span{10, 18},
		Snippet: "shall gross-up any payment",
	}

	data, err := json.Marshal(m)
	require.NoError(t, err)

	assert.JSONEq(t,
		`{"name":"GrossUp","match":"gross-up","span":[10,18],"snippet":"shall gross-up any payment"}`,
		string(data))
}

func TestClauseCategory_Values(t *testing.T) {
	assert.Equal(t, "WithholdingTax", string(ClauseWithholdingTax))
	assert.Equal(t, "GrossUp", string(ClauseGrossUp))
	assert.Equal(t, "VAT", string(ClauseVAT))
	assert.Equal(t, "GoverningLaw", string(ClauseGoverningLaw))
}
