package assemble

import (
	"regexp"

	"github.com/assina-energy/fatura-cli/internal/locate"
	"github.com/assina-energy/fatura-cli/internal/model"
	"github.com/assina-energy/fatura-cli/internal/normalize"
)

var currentFromSupply = regexp.MustCompile(`/\s*(\d+A)\b`)

// Technical resolves contract and supply attributes: classification,
// tariff subgroup, supply type with phase count and rated current, and the
// meter number.
func Technical(doc *model.RawDocument, reg *locate.Registry) model.Technical {
	t := model.Technical{
		Classification: locate.Resolve(reg.Spec("classificacao"), doc),
		Subgroup:       locate.Resolve(reg.Spec("subgrupo"), doc),
		SupplyType:     locate.Resolve(reg.Spec("tipo_fornecimento"), doc),
		Current:        locate.Resolve(reg.Spec("corrente"), doc),
		MeterNumber:    locate.Resolve(reg.Spec("medidor"), doc),
	}

	if phases := locate.Resolve(reg.Spec("fases"), doc); phases != nil {
		t.Phases = normalize.Phases(*phases)
	}

	// The rated current sometimes only appears inside the supply type
	// description ("TRIFÁSICO / 100A").
	if t.Current == nil && t.SupplyType != nil {
		if m := currentFromSupply.FindStringSubmatch(*t.SupplyType); m != nil {
			v := m[1]
			t.Current = &v
		}
	}
	return t
}
