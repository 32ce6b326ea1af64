// Package locate finds raw candidates for logical invoice fields and
// selects among them. Two interchangeable strategies share one contract:
// pattern search over the full text and spatial anchor search over
// positioned words. Layout variants are added as data (new templates or
// anchor rules), not new code paths.
package locate

import (
	"io"
	"regexp"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Direction orients a spatial anchor rule relative to its label token.
type Direction string

const (
	// DirectionBelow matches value tokens under the label within a vertical
	// gap tolerance and a horizontal overlap tolerance; topmost wins.
	DirectionBelow Direction = "below"
	// DirectionRight matches value tokens on the same text line after the
	// label; leftmost wins.
	DirectionRight Direction = "right"
)

// TieBreak picks among candidates that survive policy filtering.
type TieBreak string

const (
	// TieBreakFirst keeps the first surviving candidate in locator order.
	TieBreakFirst TieBreak = "first"
	// TieBreakRange prefers survivors whose numeric value falls inside the
	// policy's plausibility range, then falls back to locator order.
	TieBreakRange TieBreak = "range"
)

// PatternTemplate is one regular-expression template for a field. The
// first capture group is the candidate value.
type PatternTemplate struct {
	ID      string `yaml:"id"`
	Pattern string `yaml:"pattern"`

	re *regexp.Regexp
}

// AnchorRule is one spatial search rule: a label token plus the geometry a
// qualifying value token must satisfy.
type AnchorRule struct {
	ID           string    `yaml:"id"`
	Label        string    `yaml:"label"`
	Direction    Direction `yaml:"direction"`
	MaxVGap      float64   `yaml:"max_vgap"`       // below: max vertical gap in page units
	MinOverlap   float64   `yaml:"min_overlap"`    // below: min horizontal overlap as fraction of label width
	MaxRightGap  float64   `yaml:"max_right_gap"`  // right: max horizontal gap in page units
	ValuePattern string    `yaml:"value_pattern"`  // optional shape the value token must match

	valueRE *regexp.Regexp
}

// Policy filters candidates for one field: a denylist of decoy constants,
// a digit-length range and a numeric plausibility range, plus a tie-break.
type Policy struct {
	Denylist  []string `yaml:"denylist"` // compared digit-normalized
	MinDigits int      `yaml:"min_digits"`
	MaxDigits int      `yaml:"max_digits"` // 0 = unbounded
	MinValue  *float64 `yaml:"min_value"`
	MaxValue  *float64 `yaml:"max_value"`
	TieBreak  TieBreak `yaml:"tie_break"`
}

// FieldSpec is the full declarative locator configuration for one field.
// Patterns run first unless SpatialFirst marks the field as spatially
// volatile.
type FieldSpec struct {
	Key          string            `yaml:"key"`
	Patterns     []PatternTemplate `yaml:"patterns"`
	Anchors      []AnchorRule      `yaml:"anchors"`
	Policy       Policy            `yaml:"policy"`
	SpatialFirst bool              `yaml:"spatial_first"`
}

func (s *FieldSpec) compile() error {
	for i := range s.Patterns {
		re, err := regexp.Compile(s.Patterns[i].Pattern)
		if err != nil {
			return eris.Wrapf(err, "locate: field %s pattern %s", s.Key, s.Patterns[i].ID)
		}
		s.Patterns[i].re = re
	}
	for i := range s.Anchors {
		if s.Anchors[i].ValuePattern == "" {
			continue
		}
		re, err := regexp.Compile(s.Anchors[i].ValuePattern)
		if err != nil {
			return eris.Wrapf(err, "locate: field %s anchor %s", s.Key, s.Anchors[i].ID)
		}
		s.Anchors[i].valueRE = re
	}
	return nil
}

// Registry holds the field specs keyed by field name.
type Registry struct {
	specs map[string]*FieldSpec
}

// NewRegistry compiles the given specs into a registry.
func NewRegistry(specs []FieldSpec) (*Registry, error) {
	r := &Registry{specs: make(map[string]*FieldSpec, len(specs))}
	for i := range specs {
		s := specs[i]
		if err := s.compile(); err != nil {
			return nil, err
		}
		r.specs[s.Key] = &s
	}
	return r, nil
}

// Spec returns the spec for key, or nil when the field is unknown.
func (r *Registry) Spec(key string) *FieldSpec {
	return r.specs[key]
}

// Merge overrides or adds specs, recompiling each.
func (r *Registry) Merge(specs []FieldSpec) error {
	for i := range specs {
		s := specs[i]
		if err := s.compile(); err != nil {
			return err
		}
		r.specs[s.Key] = &s
	}
	return nil
}

type specFile struct {
	Fields []FieldSpec `yaml:"fields"`
}

// LoadSpecs reads additional field specs from YAML and merges them into
// the registry, so new invoice layout revisions ship as data.
func (r *Registry) LoadSpecs(src io.Reader) error {
	raw, err := io.ReadAll(src)
	if err != nil {
		return eris.Wrap(err, "locate: read spec file")
	}
	var f specFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return eris.Wrap(err, "locate: parse spec file")
	}
	return r.Merge(f.Fields)
}
