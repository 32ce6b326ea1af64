package assemble

import (
	"regexp"
	"strings"

	"github.com/assina-energy/fatura-cli/internal/model"
)

// flagPeriod matches a tariff-flag announcement with an optional date
// range: "BANDEIRA VERMELHA DE 01/12/2024 A 31/12/2024".
var flagPeriod = regexp.MustCompile(
	`(?i)BANDEIRA\s+(VERDE|AMARELA|VERMELHA(?:\s+P[12])?|ESCASSEZ\s+H[ÍI]DRICA)` +
		`(?:\s+DE\s+(\d{2}/\d{2}/\d{4})\s+A\s+(\d{2}/\d{2}/\d{4}))?`,
)

// TariffFlags extracts the color-coded pricing-adjustment periods, one per
// distinct flag mention, keeping document order.
func TariffFlags(doc *model.RawDocument) []model.TariffFlagPeriod {
	var out []model.TariffFlagPeriod
	seen := make(map[string]bool)

	for _, m := range flagPeriod.FindAllStringSubmatch(doc.Text, -1) {
		flag := strings.ToUpper(strings.Join(strings.Fields(m[1]), " "))
		p := model.TariffFlagPeriod{Flag: flag}
		if m[2] != "" {
			start, end := m[2], m[3]
			p.Start = &start
			p.End = &end
		}

		key := flag
		if p.Start != nil {
			key += *p.Start
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}
