package assemble

import (
	"regexp"

	"github.com/assina-energy/fatura-cli/internal/model"
	"github.com/assina-energy/fatura-cli/internal/normalize"
)

var taxPatterns = map[string]struct {
	base, rate, amount *regexp.Regexp
}{
	"ICMS":   taxTriple("ICMS"),
	"PIS":    taxTriple("PIS"),
	"COFINS": taxTriple("COFINS"),
}

func taxTriple(name string) struct{ base, rate, amount *regexp.Regexp } {
	return struct{ base, rate, amount *regexp.Regexp }{
		base:   regexp.MustCompile(`(?m)` + name + `\s+([\d.,]+)`),
		rate:   regexp.MustCompile(name + `.*?(\d+,\d+)\s*%`),
		amount: regexp.MustCompile(`(?m)` + name + `.*?([\d.,]+)\s*$`),
	}
}

// Taxes extracts the ICMS/PIS/COFINS components. Every sub-field is
// independent: a tax line missing its rate still yields base and amount.
func Taxes(doc *model.RawDocument) model.Taxes {
	var t model.Taxes
	t.ICMS = taxComponent(doc.Text, taxPatterns["ICMS"])
	t.PIS = taxComponent(doc.Text, taxPatterns["PIS"])
	t.COFINS = taxComponent(doc.Text, taxPatterns["COFINS"])
	return t
}

func taxComponent(text string, p struct{ base, rate, amount *regexp.Regexp }) model.TaxComponent {
	var c model.TaxComponent
	if m := p.base.FindStringSubmatch(text); m != nil {
		c.Base = normalize.Amount(m[1])
	}
	if m := p.rate.FindStringSubmatch(text); m != nil {
		c.Rate = normalize.Percent(m[1])
	}
	if m := p.amount.FindStringSubmatch(text); m != nil {
		c.Amount = normalize.Amount(m[1])
	}
	return c
}
