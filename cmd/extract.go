package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/assina-energy/fatura-cli/internal/classify"
	"github.com/assina-energy/fatura-cli/internal/config"
	"github.com/assina-energy/fatura-cli/internal/consolidate"
	"github.com/assina-energy/fatura-cli/internal/engine"
	"github.com/assina-energy/fatura-cli/internal/llm"
	"github.com/assina-energy/fatura-cli/internal/locate"
	"github.com/assina-energy/fatura-cli/internal/ocr"
)

var extractOutput string

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract structured data from one invoice",
	Long:  "Reads an invoice PDF (or pre-extracted text transcript), runs the extraction pipeline, and prints the resulting record as JSON.",
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

		doc, err := acq.Acquire(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		rec, err := eng.Extract(cmd.Context(), doc)
		if err != nil {
			return err
		}

		zap.L().Info("extraction finished",
			zap.String("file", args[0]),
			zap.String("source", string(rec.Source)),
			zap.String("confidence", string(rec.Confidence)),
			zap.Int("anomalies", len(rec.Anomalies)))

		out, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return eris.Wrap(err, "marshal record")
		}

		if extractOutput != "" {
			return os.WriteFile(extractOutput, append(out, '\n'), 0o644)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "write the record to a file instead of stdout")
	rootCmd.AddCommand(extractCmd)
}

// buildRegistry assembles the field locator registry: built-in specs,
// configured extra denylist entries, plus any layout revisions shipped as
// a YAML spec file.
func buildRegistry(c *config.Config) (*locate.Registry, error) {
	reg, err := locate.NewBuiltinRegistry(c.Extract.Denylist)
	if err != nil {
		return nil, err
	}

	if c.Extract.SpecFile != "" {
		f, err := os.Open(c.Extract.SpecFile)
		if err != nil {
			return nil, eris.Wrapf(err, "open spec file %s", c.Extract.SpecFile)
		}
		defer f.Close()
		if err := reg.LoadSpecs(f); err != nil {
			return nil, err
		}
	}

	return reg, nil
}

// buildEngine wires the pipeline from config. The AI fallback is only
// registered when an API key is configured; construction is deferred to
// first escalation.
func buildEngine(c *config.Config) (*engine.Engine, error) {
	reg, err := buildRegistry(c)
	if err != nil {
		return nil, err
	}

	engCfg := engine.Config{
		MinTextChars: c.Extract.MinTextChars,
		Classify: classify.Config{
			MaxTariffPerKWh: c.Extract.MaxTariffPerKWh,
			MaxQuantityKWh:  c.Extract.MaxQuantityKWh,
		},
		Consolidate: consolidate.Config{
			MaxInjectionRatio:  c.Extract.MaxInjectionRatio,
			SavingsDiscountPct: c.Extract.SavingsDiscountPct,
		},
	}

	var opts []engine.Option
	if c.Anthropic.Key != "" {
		anthCfg := c.Anthropic
		opts = append(opts, engine.WithAlternateFactory(func() (engine.AlternateExtractor, error) {
			return llm.New(anthCfg)
		}))
	}

	return engine.New(reg, engCfg, opts...)
}
