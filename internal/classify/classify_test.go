package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assina-energy/fatura-cli/internal/model"
)

func TestRow_ConsumptionFull(t *testing.T) {
	item, anomalies := Row("ENERGIA ELET CONSUMO kWh 150,00 0,85 127,50 38,25 0,59", DefaultConfig())
	require.NotNil(t, item)
	assert.Empty(t, anomalies)

	assert.Equal(t, model.ItemEnergyConsumption, item.Type)
	assert.Equal(t, "kWh", item.Unit)
	assert.InDelta(t, 150.0, *item.Quantity, 0.001)
	assert.InDelta(t, 0.85, *item.UnitPrice, 0.001)
	assert.InDelta(t, 127.50, *item.GrossValue, 0.001)
	assert.InDelta(t, 38.25, *item.TaxValue, 0.001)
	assert.InDelta(t, 0.59, *item.NetTariff, 0.001)
}

func TestRow_ShortRowFallsBackToUnitPriceTariff(t *testing.T) {
	item, _ := Row("ENERGIA ELET CONSUMO kWh 150,00 0,85 127,50", DefaultConfig())
	require.NotNil(t, item)
	require.NotNil(t, item.NetTariff)
	assert.InDelta(t, 0.85, *item.NetTariff, 0.001)
}

func TestRow_GridUsageBeatsConsumption(t *testing.T) {
	// A TUSD row also says ENERGIA; the grid marker must win.
	item, _ := Row("ENERGIA ELET USO SISTEMA kWh 150,00 0,40 60,00", DefaultConfig())
	require.NotNil(t, item)
	assert.Equal(t, model.ItemGridUsage, item.Type)

	item, _ = Row("TUSD FIO B kWh 150,00 0,40 60,00", DefaultConfig())
	require.NotNil(t, item)
	assert.Equal(t, model.ItemGridUsage, item.Type)
}

func TestRow_InjectionByMarkerKeepsSign(t *testing.T) {
	item, _ := Row("ENERGIA INJETADA GD II kWh -120,00 0,10 -12,00", DefaultConfig())
	require.NotNil(t, item)
	assert.Equal(t, model.ItemInjectedEnergy, item.Type)
	assert.InDelta(t, -120.0, *item.Quantity, 0.001)
	assert.InDelta(t, -12.0, *item.GrossValue, 0.001)
}

func TestRow_InjectionByNegativeValue(t *testing.T) {
	// No injection keyword, but the row value is negative.
	item, _ := Row("CREDITO GD UN 1,00 -50,00", DefaultConfig())
	require.NotNil(t, item)
	assert.Equal(t, model.ItemInjectedEnergy, item.Type)
}

func TestRow_UnitRowSingleValue(t *testing.T) {
	item, _ := Row("CONTRIB ILUM PUBLICA UN 1,00 25,50", DefaultConfig())
	require.NotNil(t, item)
	assert.Equal(t, model.ItemPublicLighting, item.Type)
	assert.InDelta(t, 1.0, *item.Quantity, 0.001)
	assert.InDelta(t, 25.50, *item.GrossValue, 0.001)
	assert.InDelta(t, 25.50, *item.UnitPrice, 0.001)
}

func TestRow_OtherTypes(t *testing.T) {
	tests := []struct {
		line string
		want model.ItemType
	}{
		{"ADICIONAL BANDEIRA VERMELHA kWh 100,00 0,05 5,00", model.ItemTariffFlag},
		{"JUROS DE MORA UN 1,00 5,43", model.ItemFinancialAdjustment},
		{"DEMANDA CONTRATADA kW 10,00 25,00 250,00", model.ItemDemand},
		{"ENERGIA REATIVA EXCED kVArh 30,00 0,30 9,00", model.ItemOther},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			item, _ := Row(tt.line, DefaultConfig())
			require.NotNil(t, item)
			assert.Equal(t, tt.want, item.Type)
		})
	}
}

func TestRow_NonTabularLines(t *testing.T) {
	for _, line := range []string{
		"",
		"AVISO: DÉBITO AUTOMÁTICO",
		"TOTAL A PAGAR R$ 245,67",
		"150,00 0,85 127,50",
	} {
		item, anomalies := Row(line, DefaultConfig())
		assert.Nil(t, item, "line %q", line)
		assert.Nil(t, anomalies, "line %q", line)
	}
}

func TestRow_HighTariffKeptAndFlagged(t *testing.T) {
	item, anomalies := Row("ENERGIA ELET CONSUMO kWh 150,00 15,00 2.250,00", DefaultConfig())
	require.NotNil(t, item)
	require.Len(t, anomalies, 1)
	assert.Equal(t, model.AnomalyHighTariff, anomalies[0].Kind)
	assert.Equal(t, item.Description, anomalies[0].RelatedItem)
	assert.InDelta(t, 15.0, *item.UnitPrice, 0.001)
}

func TestRow_HighQuantityKeptAndFlagged(t *testing.T) {
	item, anomalies := Row("ENERGIA ELET CONSUMO kWh 150.000,00 0,85 127.500,00", DefaultConfig())
	require.NotNil(t, item)
	require.Len(t, anomalies, 1)
	assert.Equal(t, model.AnomalyHighQuantity, anomalies[0].Kind)
}

func TestRow_CustomCeilings(t *testing.T) {
	cfg := Config{MaxTariffPerKWh: 1, MaxQuantityKWh: 100}
	_, anomalies := Row("ENERGIA ELET CONSUMO kWh 150,00 0,85 127,50", cfg)
	require.Len(t, anomalies, 1)
	assert.Equal(t, model.AnomalyHighQuantity, anomalies[0].Kind)
}
