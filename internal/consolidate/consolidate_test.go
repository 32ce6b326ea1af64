package consolidate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assina-energy/fatura-cli/internal/model"
)

func fptr(v float64) *float64 { return &v }
func sptr(s string) *string   { return &s }

func baseRecord() *model.InvoiceRecord {
	rec := &model.InvoiceRecord{}
	rec.Client.UC = sptr("12345678")
	rec.Billing.TotalDue = fptr(245.67)
	rec.Billing.ReferenceMonth = sptr("01/2025")
	rec.Billing.DueDate = sptr("15/02/2025")
	return rec
}

func TestApply_ConsumptionNotDoubleCounted(t *testing.T) {
	rec := baseRecord()
	// A TE row and its TUSD sibling bill the same 300 kWh.
	rec.LineItems = []model.LineItem{
		{Type: model.ItemEnergyConsumption, Quantity: fptr(300), NetTariff: fptr(0.45)},
		{Type: model.ItemGridUsage, Quantity: fptr(300), NetTariff: fptr(0.38)},
	}

	Apply(rec, model.SourceNativeText, DefaultConfig())

	assert.InDelta(t, 300.0, rec.Energy.TotalConsumedKWh, 0.001)
	require.NotNil(t, rec.Energy.NetTariffPerKWh)
	assert.InDelta(t, 0.83, *rec.Energy.NetTariffPerKWh, 0.001)
}

func TestApply_InjectionAggregatedAbsolute(t *testing.T) {
	rec := baseRecord()
	rec.LineItems = []model.LineItem{
		{Type: model.ItemEnergyConsumption, Quantity: fptr(300)},
		{Type: model.ItemInjectedEnergy, Quantity: fptr(-120)},
		{Type: model.ItemInjectedEnergy, Quantity: fptr(-30)},
	}

	Apply(rec, model.SourceNativeText, DefaultConfig())

	assert.InDelta(t, 150.0, rec.Energy.TotalInjectedKWh, 0.001)
	assert.InDelta(t, 150.0, rec.Energy.NetConsumptionKWh, 0.001)
	assert.InDelta(t, 50.0, rec.Energy.CompensationPct, 0.001)
	assert.False(t, rec.Energy.SelfSufficient)
}

func TestApply_NetConsumptionNeverNegative(t *testing.T) {
	rec := baseRecord()
	rec.LineItems = []model.LineItem{
		{Type: model.ItemEnergyConsumption, Quantity: fptr(100)},
		{Type: model.ItemInjectedEnergy, Quantity: fptr(-250)},
	}

	Apply(rec, model.SourceNativeText, DefaultConfig())

	assert.Equal(t, 0.0, rec.Energy.NetConsumptionKWh)
	assert.InDelta(t, 100.0, rec.Energy.CompensationPct, 0.001)
	assert.True(t, rec.Energy.SelfSufficient)
}

func TestApply_ZeroConsumption(t *testing.T) {
	rec := baseRecord()
	rec.LineItems = []model.LineItem{
		{Type: model.ItemInjectedEnergy, Quantity: fptr(-500)},
	}

	Apply(rec, model.SourceNativeText, DefaultConfig())

	// Division guards: no compensation percentage and no self-sufficiency
	// claim without consumption.
	assert.Equal(t, 0.0, rec.Energy.CompensationPct)
	assert.False(t, rec.Energy.SelfSufficient)
	assert.Empty(t, rec.Anomalies)
}

func TestApply_InjectionRatioAnomaly(t *testing.T) {
	rec := baseRecord()
	rec.LineItems = []model.LineItem{
		{Type: model.ItemEnergyConsumption, Quantity: fptr(10)},
		{Type: model.ItemInjectedEnergy, Quantity: fptr(-500)},
	}

	Apply(rec, model.SourceNativeText, DefaultConfig())

	require.Len(t, rec.Anomalies, 1)
	assert.Equal(t, model.AnomalyInjectionRatio, rec.Anomalies[0].Kind)
}

func TestApply_PublicLightingCost(t *testing.T) {
	rec := baseRecord()
	rec.LineItems = []model.LineItem{
		{Type: model.ItemPublicLighting, GrossValue: fptr(25.50)},
	}

	Apply(rec, model.SourceNativeText, DefaultConfig())

	require.NotNil(t, rec.Energy.PublicLightingCost)
	assert.InDelta(t, 25.50, *rec.Energy.PublicLightingCost, 0.001)
}

func TestApply_UnitType(t *testing.T) {
	plant := baseRecord()
	plant.Readings = []model.MeterReading{{Kind: model.ReadingGeneration}}
	Apply(plant, model.SourceNativeText, DefaultConfig())
	assert.Equal(t, "USINA (Geradora)", plant.Technical.UnitType)

	beneficiary := baseRecord()
	beneficiary.NetMetering = &model.NetMeteringBalance{Participates: true}
	Apply(beneficiary, model.SourceNativeText, DefaultConfig())
	assert.Equal(t, "UC Beneficiária (GD)", beneficiary.Technical.UnitType)

	plain := baseRecord()
	Apply(plain, model.SourceNativeText, DefaultConfig())
	assert.Equal(t, "UC (Consumo)", plain.Technical.UnitType)
}

func TestApply_Savings(t *testing.T) {
	rec := baseRecord()
	rec.Billing.TotalDue = fptr(200)

	Apply(rec, model.SourceNativeText, DefaultConfig())

	require.NotNil(t, rec.Savings)
	assert.Equal(t, 10, rec.Savings.DiscountPct)
	assert.InDelta(t, 20.0, rec.Savings.MonthlySavings, 0.001)
	assert.InDelta(t, 240.0, rec.Savings.AnnualSavings, 0.001)
	assert.InDelta(t, 180.0, rec.Savings.DiscountedTotal, 0.001)
}

func TestApply_NoSavingsWithoutTotal(t *testing.T) {
	rec := baseRecord()
	rec.Billing.TotalDue = nil

	Apply(rec, model.SourceNativeText, DefaultConfig())
	assert.Nil(t, rec.Savings)
}

func TestApply_Confidence(t *testing.T) {
	complete := baseRecord()
	complete.LineItems = []model.LineItem{{Type: model.ItemEnergyConsumption, Quantity: fptr(100)}}
	Apply(complete, model.SourceNativeText, DefaultConfig())
	assert.Equal(t, model.ConfidenceHigh, complete.Confidence)

	completeOCR := baseRecord()
	completeOCR.LineItems = []model.LineItem{{Type: model.ItemEnergyConsumption, Quantity: fptr(100)}}
	Apply(completeOCR, model.SourceOCR, DefaultConfig())
	assert.Equal(t, model.ConfidenceMedium, completeOCR.Confidence)

	// Critical fields present but no line items.
	partial := baseRecord()
	Apply(partial, model.SourceNativeText, DefaultConfig())
	assert.Equal(t, model.ConfidenceMedium, partial.Confidence)

	partialOCR := baseRecord()
	Apply(partialOCR, model.SourceOCR, DefaultConfig())
	assert.Equal(t, model.ConfidenceLow, partialOCR.Confidence)

	missing := &model.InvoiceRecord{}
	Apply(missing, model.SourceNativeText, DefaultConfig())
	assert.Equal(t, model.ConfidenceLow, missing.Confidence)
}
