package assemble

import (
	"regexp"

	"github.com/assina-energy/fatura-cli/internal/model"
	"github.com/assina-energy/fatura-cli/internal/normalize"
)

// historyRow matches one month of the consumption history block:
// "SET25 350 30" (compact period, kWh, billed days).
var historyRow = regexp.MustCompile(`\b([A-Z]{3}\d{2})\s+(\d+)\s+(\d{1,2})\b`)

// History extracts the consumption history entries, deduplicated by
// (period, energy). Invoices print the block twice on some layouts.
func History(doc *model.RawDocument) []model.HistoryEntry {
	type histKey struct {
		period string
		kwh    int
	}
	var out []model.HistoryEntry
	seen := make(map[histKey]bool)

	for _, m := range historyRow.FindAllStringSubmatch(doc.Text, -1) {
		kwh := normalize.Int(m[2])
		days := normalize.Int(m[3])
		if kwh == nil || days == nil {
			continue
		}
		entry := model.HistoryEntry{
			Period:     normalize.MonthYear(m[1]),
			EnergyKWh:  *kwh,
			BilledDays: *days,
		}
		key := histKey{entry.Period, entry.EnergyKWh}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, entry)
	}
	return out
}
