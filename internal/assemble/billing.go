package assemble

import (
	"github.com/assina-energy/fatura-cli/internal/locate"
	"github.com/assina-energy/fatura-cli/internal/model"
	"github.com/assina-energy/fatura-cli/internal/normalize"
)

// Billing resolves the invoice reference block: reference month, due date,
// total due and fiscal identifiers. A total that is located but cannot be
// read as a number stays nil and comes back as an anomaly, so the miss is
// distinguishable from a total that was never found.
func Billing(doc *model.RawDocument, reg *locate.Registry) (model.BillingPeriod, []model.Anomaly) {
	b := model.BillingPeriod{
		ReferenceMonth: locate.Resolve(reg.Spec("mes_referencia"), doc),
		DueDate:        locate.Resolve(reg.Spec("vencimento"), doc),
		InvoiceNumber:  locate.Resolve(reg.Spec("numero_fatura"), doc),
		IssueDate:      locate.Resolve(reg.Spec("data_emissao"), doc),
	}

	var anomalies []model.Anomaly
	if raw := locate.Resolve(reg.Spec("valor_total"), doc); raw != nil {
		b.TotalDue = normalize.Amount(*raw)
		if b.TotalDue == nil {
			anomalies = append(anomalies, model.Anomaly{
				Kind:        model.AnomalyUnparseable,
				Description: "valor total localizado mas ilegível como número",
				RelatedItem: *raw,
			})
		}
	}

	if key := locate.Resolve(reg.Spec("chave_acesso"), doc); key != nil {
		v := normalize.Digits(*key)
		if len(v) == 44 {
			b.AccessKey = &v
		}
	}
	return b, anomalies
}
