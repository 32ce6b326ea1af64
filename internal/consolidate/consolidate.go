// Package consolidate merges assembled sub-records into the final invoice
// record, derives the energy aggregates and runs the anomaly checks.
package consolidate

import (
	"fmt"
	"math"

	"github.com/assina-energy/fatura-cli/internal/model"
)

// Config bounds the anomaly checks and the savings projection.
type Config struct {
	// MaxInjectionRatio flags records whose injected-to-consumed energy
	// ratio exceeds this multiple. Default 10.
	MaxInjectionRatio float64
	// SavingsDiscountPct drives the savings projection from the invoice
	// total. Default 0.10.
	SavingsDiscountPct float64
}

// DefaultConfig returns the default consolidation bounds.
func DefaultConfig() Config {
	return Config{MaxInjectionRatio: 10, SavingsDiscountPct: 0.10}
}

// Apply finalizes the record in place: energy aggregates, net tariff
// analysis, unit-type classification, savings projection, anomaly checks
// and the categorical confidence. After Apply the record is immutable by
// convention.
func Apply(rec *model.InvoiceRecord, source model.DocumentSource, cfg Config) {
	if cfg.MaxInjectionRatio <= 0 {
		cfg.MaxInjectionRatio = DefaultConfig().MaxInjectionRatio
	}
	if cfg.SavingsDiscountPct <= 0 {
		cfg.SavingsDiscountPct = DefaultConfig().SavingsDiscountPct
	}

	rec.Energy = energySummary(rec)
	rec.Technical.UnitType = unitType(rec)
	rec.Savings = savings(rec, cfg)
	checkInjectionRatio(rec, cfg)
	rec.Confidence = confidence(rec, source)
}

// energySummary derives the aggregates. Total consumption sums only
// ENERGY_CONSUMPTION rows with positive quantity: grid-usage rows bill the
// same physical kWh a second time and must not be added.
func energySummary(rec *model.InvoiceRecord) model.EnergySummary {
	var s model.EnergySummary

	var teTariff, tusdTariff *float64
	for i := range rec.LineItems {
		item := &rec.LineItems[i]
		switch item.Type {
		case model.ItemEnergyConsumption:
			if item.Quantity != nil && *item.Quantity > 0 {
				s.TotalConsumedKWh += *item.Quantity
			}
			if item.NetTariff != nil && teTariff == nil {
				teTariff = item.NetTariff
			}
		case model.ItemGridUsage:
			if item.NetTariff != nil && tusdTariff == nil {
				tusdTariff = item.NetTariff
			}
		case model.ItemInjectedEnergy:
			if item.Quantity != nil {
				s.TotalInjectedKWh += math.Abs(*item.Quantity)
			}
		case model.ItemPublicLighting:
			if item.GrossValue != nil && s.PublicLightingCost == nil {
				s.PublicLightingCost = item.GrossValue
			}
		}
	}

	s.NetConsumptionKWh = math.Max(s.TotalConsumedKWh-s.TotalInjectedKWh, 0)
	if s.TotalConsumedKWh > 0 {
		s.CompensationPct = 100 * math.Min(s.TotalInjectedKWh, s.TotalConsumedKWh) / s.TotalConsumedKWh
		s.SelfSufficient = s.TotalInjectedKWh >= s.TotalConsumedKWh
	}

	if teTariff != nil || tusdTariff != nil {
		total := 0.0
		if teTariff != nil {
			total += *teTariff
		}
		if tusdTariff != nil {
			total += *tusdTariff
		}
		s.NetTariffPerKWh = &total
	}
	return s
}

// unitType classifies the service point: a generation register makes it a
// power plant, SCEE participation without one makes it a credit
// beneficiary, anything else is a plain consumer unit.
func unitType(rec *model.InvoiceRecord) string {
	for _, r := range rec.Readings {
		if r.Kind == model.ReadingGeneration {
			return "USINA (Geradora)"
		}
	}
	if rec.NetMetering != nil && rec.NetMetering.Participates {
		return "UC Beneficiária (GD)"
	}
	return "UC (Consumo)"
}

func savings(rec *model.InvoiceRecord, cfg Config) *model.Savings {
	if rec.Billing.TotalDue == nil || *rec.Billing.TotalDue <= 0 {
		return nil
	}
	monthly := round2(*rec.Billing.TotalDue * cfg.SavingsDiscountPct)
	return &model.Savings{
		DiscountPct:     int(cfg.SavingsDiscountPct * 100),
		MonthlySavings:  monthly,
		AnnualSavings:   round2(monthly * 12),
		DiscountedTotal: round2(*rec.Billing.TotalDue - monthly),
	}
}

func checkInjectionRatio(rec *model.InvoiceRecord, cfg Config) {
	c, i := rec.Energy.TotalConsumedKWh, rec.Energy.TotalInjectedKWh
	if c > 0 && i/c > cfg.MaxInjectionRatio {
		rec.AddAnomaly(model.AnomalyInjectionRatio,
			fmt.Sprintf("energia injetada %.0f kWh excede %gx o consumo %.0f kWh", i, cfg.MaxInjectionRatio, c), "")
	}
}

// confidence scores completeness categorically. Native-text extraction
// outranks an OCR transcript of the same completeness.
func confidence(rec *model.InvoiceRecord, source model.DocumentSource) model.Confidence {
	if !rec.HasCriticalFields() {
		return model.ConfidenceLow
	}

	complete := rec.Billing.ReferenceMonth != nil &&
		rec.Billing.DueDate != nil &&
		len(rec.LineItems) > 0

	switch {
	case complete && source == model.SourceNativeText:
		return model.ConfidenceHigh
	case complete:
		return model.ConfidenceMedium
	case source == model.SourceNativeText:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
