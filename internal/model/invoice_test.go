package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCriticalFields(t *testing.T) {
	uc := "12345678"
	total := 245.67

	var rec InvoiceRecord
	assert.False(t, rec.HasCriticalFields())

	rec.Client.UC = &uc
	assert.False(t, rec.HasCriticalFields())

	rec.Billing.TotalDue = &total
	assert.True(t, rec.HasCriticalFields())

	rec.Client.UC = nil
	assert.False(t, rec.HasCriticalFields())
}

func TestAddAnomaly(t *testing.T) {
	var rec InvoiceRecord
	rec.AddAnomaly(AnomalyHighTariff, "tarifa acima do teto", "ENERGIA ELET")
	rec.AddAnomaly(AnomalyReadingRollback, "leitura retrocedida", "")

	require.Len(t, rec.Anomalies, 2)
	assert.Equal(t, AnomalyHighTariff, rec.Anomalies[0].Kind)
	assert.Equal(t, "ENERGIA ELET", rec.Anomalies[0].RelatedItem)
}

func TestInvoiceRecord_StableJSONShape(t *testing.T) {
	// Missing fields serialize as explicit nulls, never dropped keys:
	// downstream consumers key on a fixed shape.
	raw, err := json.Marshal(&InvoiceRecord{})
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))

	for _, key := range []string{
		"cliente", "referencia_fatura", "itens_fatura", "medicoes",
		"historico_consumo", "tributos", "scee", "bandeiras",
		"dados_tecnicos", "energia", "economia", "anomalias",
		"confianca", "origem_extracao",
	} {
		_, ok := m[key]
		assert.True(t, ok, "missing key %s", key)
	}

	cliente := m["cliente"].(map[string]any)
	assert.Nil(t, cliente["uc"])
	assert.Nil(t, m["scee"])
}
