package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assina-energy/fatura-cli/internal/model"
)

func TestListInvoiceFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "a.txt", "notes.md", "c.PDF"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	files, err := listInvoiceFiles(dir)
	require.NoError(t, err)

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = filepath.Base(f)
	}
	assert.Equal(t, []string{"a.txt", "b.pdf", "c.PDF"}, names)
}

func TestListInvoiceFiles_MissingDir(t *testing.T) {
	_, err := listInvoiceFiles(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestWriteRecord(t *testing.T) {
	dir := t.TempDir()
	uc := "12345678"
	rec := &model.InvoiceRecord{Source: model.SourcePrimary}
	rec.Client.UC = &uc

	require.NoError(t, writeRecord(dir, "/somewhere/fatura-jan.pdf", rec))

	raw, err := os.ReadFile(filepath.Join(dir, "fatura-jan.json"))
	require.NoError(t, err)

	var round model.InvoiceRecord
	require.NoError(t, json.Unmarshal(raw, &round))
	require.NotNil(t, round.Client.UC)
	assert.Equal(t, "12345678", *round.Client.UC)
	assert.Equal(t, model.SourcePrimary, round.Source)
}

func TestWriteSummary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resumo.xlsx")

	uc := "87654321"
	total := 199.90
	rec := &model.InvoiceRecord{
		Confidence: model.ConfidenceHigh,
		Source:     model.SourcePrimary,
	}
	rec.Client.UC = &uc
	rec.Billing.TotalDue = &total
	rec.Energy.TotalConsumedKWh = 250
	rec.Technical.UnitType = "UC (Consumo)"

	results := []batchResult{
		{File: "ok.pdf", Record: rec},
		{File: "broken.pdf", Err: eris.New("pdftotext failed")},
	}

	require.NoError(t, writeSummary(path, results))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestStrValue(t *testing.T) {
	assert.Equal(t, "", strValue(nil))
	s := "abc"
	assert.Equal(t, "abc", strValue(&s))
}
