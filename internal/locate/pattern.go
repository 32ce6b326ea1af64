package locate

import (
	"github.com/assina-energy/fatura-cli/internal/model"
)

// FindPatterns applies the spec's regex templates in order against the
// full document text. The first template producing at least one match
// wins; its matches become the candidate list. An empty text yields no
// candidates without trying any template.
func FindPatterns(spec *FieldSpec, text string) []model.FieldCandidate {
	if text == "" || spec == nil {
		return nil
	}
	for i := range spec.Patterns {
		tpl := &spec.Patterns[i]
		if tpl.re == nil {
			continue
		}
		matches := tpl.re.FindAllStringSubmatch(text, -1)
		if len(matches) == 0 {
			continue
		}
		cands := make([]model.FieldCandidate, 0, len(matches))
		for _, m := range matches {
			val := m[0]
			if len(m) > 1 {
				val = m[1]
			}
			cands = append(cands, model.FieldCandidate{
				RawValue: val,
				Locator:  "pattern:" + tpl.ID,
			})
		}
		return cands
	}
	return nil
}
