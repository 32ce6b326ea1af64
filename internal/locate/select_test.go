package locate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assina-energy/fatura-cli/internal/model"
)

func cands(values ...string) []model.FieldCandidate {
	out := make([]model.FieldCandidate, len(values))
	for i, v := range values {
		out[i] = model.FieldCandidate{RawValue: v, Locator: "test"}
	}
	return out
}

func TestSelect_DenylistDigitNormalized(t *testing.T) {
	p := Policy{Denylist: []string{"04.368.898/0001-06"}}

	// The decoy is rejected even when formatted differently.
	got := Select(cands("04368898000106", "12345678"), p)
	require.NotNil(t, got)
	assert.Equal(t, "12345678", *got)

	assert.Nil(t, Select(cands("04.368.898/0001-06"), p))
}

func TestSelect_DigitLengthBounds(t *testing.T) {
	p := Policy{MinDigits: 8, MaxDigits: 10}

	got := Select(cands("1234567", "12345678901", "123456789"), p)
	require.NotNil(t, got)
	assert.Equal(t, "123456789", *got)
}

func TestSelect_ValueRangeFilters(t *testing.T) {
	p := Policy{MinValue: fptr(0.01), MaxValue: fptr(1000)}

	got := Select(cands("0,00", "garbage", "245,67"), p)
	require.NotNil(t, got)
	assert.Equal(t, "245,67", *got)

	assert.Nil(t, Select(cands("1.500,00"), p))
}

func TestSelect_TieBreakRangePrefersInRange(t *testing.T) {
	p := Policy{MinValue: fptr(0.01), MaxValue: fptr(1000000), TieBreak: TieBreakRange}

	got := Select(cands("0,00", "245,67"), p)
	require.NotNil(t, got)
	assert.Equal(t, "245,67", *got)
}

func TestSelect_TieBreakRangeRejectsOutOfRange(t *testing.T) {
	p := Policy{MinValue: fptr(0.01), MaxValue: fptr(1000), TieBreak: TieBreakRange}

	// Every candidate reads as an implausible value: no winner.
	assert.Nil(t, Select(cands("0,00"), p))
	assert.Nil(t, Select(cands("0,00", "1.500,00"), p))
}

func TestSelect_TieBreakRangeKeepsUnreadable(t *testing.T) {
	p := Policy{MinValue: fptr(0.01), MaxValue: fptr(1000), TieBreak: TieBreakRange}

	// A candidate the locale parser cannot read passes through raw, so the
	// assembler can record the miss as an anomaly.
	got := Select(cands("2,45,67"), p)
	require.NotNil(t, got)
	assert.Equal(t, "2,45,67", *got)

	// But a readable in-range candidate still beats it.
	got = Select(cands("2,45,67", "245,67"), p)
	require.NotNil(t, got)
	assert.Equal(t, "245,67", *got)
}

func TestSelect_FirstSurvivorWins(t *testing.T) {
	got := Select(cands("  primeiro  valor ", "segundo"), Policy{})
	require.NotNil(t, got)
	assert.Equal(t, "primeiro valor", *got)
}

func TestSelect_Empty(t *testing.T) {
	assert.Nil(t, Select(nil, Policy{}))
}

func TestResolve_PatternBeforeSpatial(t *testing.T) {
	spec := mustSpec(t, FieldSpec{
		Key:      "uc",
		Patterns: []PatternTemplate{{ID: "p", Pattern: `UC:\s*(\d{8})`}},
		Anchors:  []AnchorRule{{ID: "a", Label: "UC", Direction: DirectionRight}},
	})

	doc := &model.RawDocument{
		Text: "UC: 11111111",
		Words: []model.Word{
			word("UC", 0, 0, 20, 10),
			word("22222222", 30, 0, 90, 10),
		},
	}

	got := Resolve(spec, doc)
	require.NotNil(t, got)
	assert.Equal(t, "11111111", *got)
}

func TestResolve_SpatialFirstFlips(t *testing.T) {
	spec := mustSpec(t, FieldSpec{
		Key:          "uc",
		Patterns:     []PatternTemplate{{ID: "p", Pattern: `UC:\s*(\d{8})`}},
		Anchors:      []AnchorRule{{ID: "a", Label: "UC", Direction: DirectionRight, ValuePattern: `^\d+$`}},
		SpatialFirst: true,
	})

	doc := &model.RawDocument{
		Text: "UC: 11111111",
		Words: []model.Word{
			word("UC", 0, 0, 20, 10),
			word("22222222", 30, 0, 90, 10),
		},
	}

	got := Resolve(spec, doc)
	require.NotNil(t, got)
	assert.Equal(t, "22222222", *got)
}

func TestResolve_FallsBackToSpatial(t *testing.T) {
	spec := mustSpec(t, FieldSpec{
		Key:      "uc",
		Patterns: []PatternTemplate{{ID: "p", Pattern: `UC:\s*(\d{8})`}},
		Anchors:  []AnchorRule{{ID: "a", Label: "UC", Direction: DirectionRight, ValuePattern: `^\d+$`}},
	})

	doc := &model.RawDocument{
		Text: "sem o rotulo esperado",
		Words: []model.Word{
			word("UC", 0, 0, 20, 10),
			word("22222222", 30, 0, 90, 10),
		},
	}

	got := Resolve(spec, doc)
	require.NotNil(t, got)
	assert.Equal(t, "22222222", *got)
}

func TestResolve_NotFound(t *testing.T) {
	spec := mustSpec(t, FieldSpec{
		Key:      "uc",
		Patterns: []PatternTemplate{{ID: "p", Pattern: `UC:\s*(\d{8})`}},
	})

	assert.Nil(t, Resolve(spec, &model.RawDocument{Text: "nada aqui"}))
	assert.Nil(t, Resolve(nil, &model.RawDocument{Text: "x"}))
	assert.Nil(t, Resolve(spec, nil))
}

func TestLoadSpecs(t *testing.T) {
	reg, err := NewRegistry([]FieldSpec{{
		Key:      "uc",
		Patterns: []PatternTemplate{{ID: "old", Pattern: `UC (\d+)`}},
	}})
	require.NoError(t, err)

	src := strings.NewReader(`
fields:
  - key: uc
    patterns:
      - id: v2
        pattern: 'UNIDADE (\d+)'
  - key: nova
    patterns:
      - id: n1
        pattern: 'NOVA (\d+)'
    policy:
      min_digits: 4
`)
	require.NoError(t, reg.LoadSpecs(src))

	// Existing key replaced wholesale.
	uc := reg.Spec("uc")
	require.NotNil(t, uc)
	require.Len(t, uc.Patterns, 1)
	assert.Equal(t, "v2", uc.Patterns[0].ID)

	nova := reg.Spec("nova")
	require.NotNil(t, nova)
	assert.Equal(t, 4, nova.Policy.MinDigits)

	assert.Nil(t, reg.Spec("inexistente"))
}

func TestLoadSpecs_BadPattern(t *testing.T) {
	reg, err := NewRegistry(nil)
	require.NoError(t, err)

	err = reg.LoadSpecs(strings.NewReader(`
fields:
  - key: quebrada
    patterns:
      - id: bad
        pattern: '(['
`))
	require.Error(t, err)
}
