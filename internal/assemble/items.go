package assemble

import (
	"github.com/assina-energy/fatura-cli/internal/classify"
	"github.com/assina-energy/fatura-cli/internal/model"
	"github.com/assina-energy/fatura-cli/internal/normalize"
)

// Items classifies every tabular line of the document that matches the
// billed-item row shape. Rows with implausible values are kept and the
// corresponding anomalies returned alongside.
func Items(doc *model.RawDocument, cfg classify.Config) ([]model.LineItem, []model.Anomaly) {
	var (
		items     []model.LineItem
		anomalies []model.Anomaly
	)
	for _, line := range normalize.Lines(doc.Text) {
		item, rowAnomalies := classify.Row(line, cfg)
		if item == nil {
			continue
		}
		items = append(items, *item)
		anomalies = append(anomalies, rowAnomalies...)
	}
	return items, anomalies
}
