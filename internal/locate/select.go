package locate

import (
	"github.com/assina-energy/fatura-cli/internal/model"
	"github.com/assina-energy/fatura-cli/internal/normalize"
)

// Select filters candidates against the policy and picks the winner.
// A candidate is rejected when it equals a denylist entry (compared
// digit-normalized), when its digit count falls outside the policy's
// length range, or when a value range is set and the candidate parses
// outside it. Under the range tie-break an in-range candidate is preferred
// and out-of-range ones are still rejected; only a candidate the locale
// parser cannot read at all survives, so the caller can flag it instead of
// silently losing the field. Returns nil when every candidate is
// rejected — callers treat that as "field not found", not an error.
func Select(cands []model.FieldCandidate, p Policy) *string {
	var survivors []model.FieldCandidate
	for _, c := range cands {
		if rejected(c, p) {
			continue
		}
		survivors = append(survivors, c)
	}
	if len(survivors) == 0 {
		return nil
	}

	pick := survivors[0]
	if p.TieBreak == TieBreakRange && (p.MinValue != nil || p.MaxValue != nil) {
		var unreadable *model.FieldCandidate
		picked := false
		for i, c := range survivors {
			v := normalize.Amount(c.RawValue)
			if v == nil {
				if unreadable == nil {
					unreadable = &survivors[i]
				}
				continue
			}
			if inRange(*v, p) {
				pick = c
				picked = true
				break
			}
		}
		if !picked {
			if unreadable == nil {
				return nil
			}
			pick = *unreadable
		}
	}
	v := normalize.Text(pick.RawValue)
	return &v
}

func rejected(c model.FieldCandidate, p Policy) bool {
	digits := normalize.Digits(c.RawValue)

	for _, decoy := range p.Denylist {
		if digits != "" && digits == normalize.Digits(decoy) {
			return true
		}
	}
	if p.MinDigits > 0 && len(digits) < p.MinDigits {
		return true
	}
	if p.MaxDigits > 0 && len(digits) > p.MaxDigits {
		return true
	}
	if p.TieBreak != TieBreakRange && (p.MinValue != nil || p.MaxValue != nil) {
		v := normalize.Amount(c.RawValue)
		if v == nil || !inRange(*v, p) {
			return true
		}
	}
	return false
}

func inRange(v float64, p Policy) bool {
	if p.MinValue != nil && v < *p.MinValue {
		return false
	}
	if p.MaxValue != nil && v > *p.MaxValue {
		return false
	}
	return true
}

// Resolve runs the spec's strategies in their fallback order against the
// document and returns the first validated value. Pattern search runs
// first unless the field is marked spatially volatile. Absence of a value
// is a normal outcome.
func Resolve(spec *FieldSpec, doc *model.RawDocument) *string {
	if spec == nil || doc == nil {
		return nil
	}

	pattern := func() *string { return Select(FindPatterns(spec, doc.Text), spec.Policy) }
	spatial := func() *string {
		if !doc.HasWords() {
			return nil
		}
		return Select(FindSpatial(spec, doc.Words), spec.Policy)
	}

	order := []func() *string{pattern, spatial}
	if spec.SpatialFirst {
		order = []func() *string{spatial, pattern}
	}
	for _, strategy := range order {
		if v := strategy(); v != nil {
			return v
		}
	}
	return nil
}
