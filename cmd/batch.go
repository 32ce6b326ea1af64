package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/assina-energy/fatura-cli/internal/model"
	"github.com/assina-energy/fatura-cli/internal/ocr"
)

var (
	batchOutputDir string
	batchSummary   string
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Extract every invoice in a directory",
	Long:  "Runs the extraction pipeline over all PDF and text files in a directory, writing one JSON record per invoice plus an XLSX summary.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := buildEngine(cfg)
		if err != nil {
			return err
		}
		acq, err := ocr.NewAcquirer(cfg.OCR)
		if err != nil {
			return err
		}

		files, err := listInvoiceFiles(args[0])
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return eris.Errorf("no invoice files found in %s", args[0])
		}

		outDir := batchOutputDir
		if outDir == "" {
			outDir = args[0]
		}
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return eris.Wrapf(err, "create output dir %s", outDir)
		}

		runID := uuid.New().String()
		log := zap.L().With(zap.String("run_id", runID))
		log.Info("batch started",
			zap.String("dir", args[0]),
			zap.Int("files", len(files)))

		concurrency := cfg.Batch.MaxConcurrentFiles
		if concurrency <= 0 {
			concurrency = 4
		}

		var mu sync.Mutex
		results := make([]batchResult, 0, len(files))

		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(concurrency)
		for _, file := range files {
			file := file
			g.Go(func() error {
				res := batchResult{File: filepath.Base(file)}

				doc, err := acq.Acquire(ctx, file)
				if err == nil {
					var rec *model.InvoiceRecord
					rec, err = eng.Extract(ctx, doc)
					if err == nil {
						res.Record = rec
						err = writeRecord(outDir, file, rec)
					}
				}
				if err != nil {
					res.Err = err
					log.Warn("file failed",
						zap.String("file", file),
						zap.Error(err))
				}

				mu.Lock()
				results = append(results, res)
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		sort.Slice(results, func(i, j int) bool { return results[i].File < results[j].File })

		summaryPath := batchSummary
		if summaryPath == "" {
			summaryPath = filepath.Join(outDir, fmt.Sprintf("resumo-%s.xlsx", runID[:8]))
		}
		if err := writeSummary(summaryPath, results); err != nil {
			return err
		}

		failed := 0
		for _, r := range results {
			if r.Err != nil {
				failed++
			}
		}
		log.Info("batch finished",
			zap.Int("processed", len(results)-failed),
			zap.Int("failed", failed),
			zap.String("summary", summaryPath))
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVarP(&batchOutputDir, "output-dir", "o", "", "directory for JSON records (defaults to the input dir)")
	batchCmd.Flags().StringVar(&batchSummary, "summary", "", "path for the XLSX summary (defaults inside the output dir)")
	rootCmd.AddCommand(batchCmd)
}

type batchResult struct {
	File   string
	Record *model.InvoiceRecord
	Err    error
}

func listInvoiceFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "read dir %s", dir)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".pdf", ".txt":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func writeRecord(outDir, file string, rec *model.InvoiceRecord) error {
	out, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return eris.Wrap(err, "marshal record")
	}

	base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	path := filepath.Join(outDir, base+".json")
	if err := os.WriteFile(path, append(out, '\n'), 0o644); err != nil {
		return eris.Wrapf(err, "write record %s", path)
	}
	return nil
}

// writeSummary produces one XLSX row per file with the headline fields,
// so a batch can be reviewed without opening every JSON record.
func writeSummary(path string, results []batchResult) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Faturas")
	if err != nil {
		return eris.Wrap(err, "add summary sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{
		"Arquivo", "UC", "Mês Referência", "Vencimento", "Valor Total",
		"Consumo (kWh)", "Injetado (kWh)", "Tipo Unidade",
		"Confiança", "Origem", "Anomalias", "Erro",
	} {
		header.AddCell().SetString(h)
	}

	for _, r := range results {
		row := sheet.AddRow()
		row.AddCell().SetString(r.File)

		if r.Record == nil {
			for i := 0; i < 10; i++ {
				row.AddCell()
			}
			if r.Err != nil {
				row.AddCell().SetString(r.Err.Error())
			}
			continue
		}

		rec := r.Record
		row.AddCell().SetString(strValue(rec.Client.UC))
		row.AddCell().SetString(strValue(rec.Billing.ReferenceMonth))
		row.AddCell().SetString(strValue(rec.Billing.DueDate))
		if rec.Billing.TotalDue != nil {
			row.AddCell().SetFloat(*rec.Billing.TotalDue)
		} else {
			row.AddCell()
		}
		row.AddCell().SetFloat(rec.Energy.TotalConsumedKWh)
		row.AddCell().SetFloat(rec.Energy.TotalInjectedKWh)
		row.AddCell().SetString(rec.Technical.UnitType)
		row.AddCell().SetString(string(rec.Confidence))
		row.AddCell().SetString(string(rec.Source))
		row.AddCell().SetInt(len(rec.Anomalies))
		row.AddCell()
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "save summary %s", path)
	}
	return nil
}

func strValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
