package assemble

import (
	"regexp"

	"github.com/assina-energy/fatura-cli/internal/model"
	"github.com/assina-energy/fatura-cli/internal/normalize"
)

var (
	sceeMarker = regexp.MustCompile(`(?i)\bSCEE\b|SISTEMA\s+DE\s+COMPENSA[ÇC][ÃA]O`)

	sceeAccumulated = regexp.MustCompile(`(?i)SALDO\s+ACUMULADO\s*(?:KWH)?\s*:?\s*([\d.,]+)`)
	sceeMonthly     = regexp.MustCompile(`(?i)CR[ÉE]DITO\s+(?:RECEBIDO|DO\s+M[ÊE]S)\s*(?:KWH)?\s*:?\s*([\d.,]+)`)
	sceeExpiring    = regexp.MustCompile(`(?i)SALDO\s+A\s+EXPIRAR\s*(?:KWH)?\s*:?\s*([\d.,]+)`)
)

// NetMetering extracts the SCEE credit balances. It returns nil when the
// document carries no sign of participation in the compensation scheme.
func NetMetering(doc *model.RawDocument) *model.NetMeteringBalance {
	if !sceeMarker.MatchString(doc.Text) {
		return nil
	}

	b := &model.NetMeteringBalance{Participates: true}
	if m := sceeAccumulated.FindStringSubmatch(doc.Text); m != nil {
		b.Accumulated = normalize.Amount(m[1])
	}
	if m := sceeMonthly.FindStringSubmatch(doc.Text); m != nil {
		b.MonthlyCredit = normalize.Amount(m[1])
	}
	if m := sceeExpiring.FindStringSubmatch(doc.Text); m != nil {
		b.Expiring = normalize.Amount(m[1])
	}
	return b
}
