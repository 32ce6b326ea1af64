package locate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSpec(t *testing.T, s FieldSpec) *FieldSpec {
	t.Helper()
	require.NoError(t, s.compile())
	return &s
}

func TestFindPatterns_FirstTemplateWins(t *testing.T) {
	spec := mustSpec(t, FieldSpec{
		Key: "uc",
		Patterns: []PatternTemplate{
			{ID: "labeled", Pattern: `UNIDADE CONSUMIDORA:?\s*(\d{8})`},
			{ID: "bare", Pattern: `\b(\d{8})\b`},
		},
	})

	cands := FindPatterns(spec, "conta 99999999 UNIDADE CONSUMIDORA: 12345678")
	require.Len(t, cands, 1)
	assert.Equal(t, "12345678", cands[0].RawValue)
	assert.Equal(t, "pattern:labeled", cands[0].Locator)
}

func TestFindPatterns_FallsThroughTemplates(t *testing.T) {
	spec := mustSpec(t, FieldSpec{
		Key: "uc",
		Patterns: []PatternTemplate{
			{ID: "labeled", Pattern: `UNIDADE CONSUMIDORA:?\s*(\d{8})`},
			{ID: "bare", Pattern: `\b(\d{8})\b`},
		},
	})

	cands := FindPatterns(spec, "codigo 12345678 e 87654321")
	require.Len(t, cands, 2)
	assert.Equal(t, "12345678", cands[0].RawValue)
	assert.Equal(t, "87654321", cands[1].RawValue)
	assert.Equal(t, "pattern:bare", cands[0].Locator)
}

func TestFindPatterns_NoCaptureGroupUsesWholeMatch(t *testing.T) {
	spec := mustSpec(t, FieldSpec{
		Key:      "flag",
		Patterns: []PatternTemplate{{ID: "word", Pattern: `BANDEIRA \w+`}},
	})

	cands := FindPatterns(spec, "vigente BANDEIRA VERMELHA desde")
	require.Len(t, cands, 1)
	assert.Equal(t, "BANDEIRA VERMELHA", cands[0].RawValue)
}

func TestFindPatterns_EmptyInputs(t *testing.T) {
	spec := mustSpec(t, FieldSpec{
		Key:      "uc",
		Patterns: []PatternTemplate{{ID: "bare", Pattern: `\d+`}},
	})

	assert.Nil(t, FindPatterns(spec, ""))
	assert.Nil(t, FindPatterns(nil, "texto"))
	assert.Nil(t, FindPatterns(spec, "sem numeros"))
}
