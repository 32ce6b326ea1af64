package assemble

import (
	"regexp"
	"strings"

	"github.com/assina-energy/fatura-cli/internal/model"
	"github.com/assina-energy/fatura-cli/internal/normalize"
)

// readingRow matches one register row of the measurement table:
// meter id, register kind, previous reading, current reading, multiplier
// and the billed value computed by the utility.
// Example: "12345678 CONSUMO 10500 10800 1,0 300".
var readingRow = regexp.MustCompile(
	`(?i)\b(\d{6,12})\s+(CONSUMO|GERA[ÇC][ÃA]O)\s+([\d.,]+)\s+([\d.,]+)\s+([\d.,]+)\s+(-?[\d.,]+)\b`,
)

// Readings extracts meter register rows. A register whose current reading
// is behind the previous one is flagged as a rollover, never emitted with
// a silently negative computed value.
func Readings(doc *model.RawDocument) ([]model.MeterReading, []model.Anomaly) {
	var (
		out       []model.MeterReading
		anomalies []model.Anomaly
	)

	for _, m := range readingRow.FindAllStringSubmatch(doc.Text, -1) {
		meterID := m[1]
		r := model.MeterReading{
			MeterID:    &meterID,
			Kind:       readingKind(m[2]),
			Previous:   normalize.Amount(m[3]),
			Current:    normalize.Amount(m[4]),
			Multiplier: 1,
		}
		if mult := normalize.Amount(m[5]); mult != nil && *mult > 0 {
			r.Multiplier = *mult
		}

		if r.Previous != nil && r.Current != nil && *r.Current < *r.Previous {
			r.Rollover = true
			anomalies = append(anomalies, model.Anomaly{
				Kind:        model.AnomalyReadingRollback,
				Description: "leitura atual menor que a anterior",
				RelatedItem: meterID,
			})
		} else if billed := normalize.Amount(m[6]); billed != nil && *billed >= 0 {
			r.ComputedValue = billed
		} else if r.Previous != nil && r.Current != nil {
			v := (*r.Current - *r.Previous) * r.Multiplier
			r.ComputedValue = &v
		}

		out = append(out, r)
	}
	return out, anomalies
}

func readingKind(raw string) model.ReadingKind {
	if strings.HasPrefix(strings.ToUpper(raw), "GERA") {
		return model.ReadingGeneration
	}
	return model.ReadingConsumption
}
