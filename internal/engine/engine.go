// Package engine orchestrates the extraction pipeline: normalization,
// field assembly, consolidation, and the confidence/fallback controller.
package engine

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/assina-energy/fatura-cli/internal/assemble"
	"github.com/assina-energy/fatura-cli/internal/classify"
	"github.com/assina-energy/fatura-cli/internal/consolidate"
	"github.com/assina-energy/fatura-cli/internal/locate"
	"github.com/assina-energy/fatura-cli/internal/model"
	"github.com/assina-energy/fatura-cli/internal/normalize"
)

// Config holds the pipeline thresholds.
type Config struct {
	// MinTextChars is the minimum input length below which the primary
	// pipeline is considered starved (e.g. a scan with no text layer) and
	// escalation fires. Default 120.
	MinTextChars int
	Classify     classify.Config
	Consolidate  consolidate.Config
}

// DefaultConfig returns the default engine thresholds.
func DefaultConfig() Config {
	return Config{
		MinTextChars: 120,
		Classify:     classify.DefaultConfig(),
		Consolidate:  consolidate.DefaultConfig(),
	}
}

// Engine runs the extraction pipeline. One engine is safe for concurrent
// use: every call builds a fresh record and shares only the compiled field
// registry and the lazily-initialized alternate extractor handle.
type Engine struct {
	cfg      Config
	registry *locate.Registry
	fallback *fallbackHandle
}

// Option configures an Engine.
type Option func(*Engine)

// WithAlternate registers an already-constructed alternate extractor.
func WithAlternate(alt AlternateExtractor) Option {
	return func(e *Engine) { e.fallback.set(alt) }
}

// WithAlternateFactory registers a factory for the alternate extractor.
// The factory runs at most once, on first escalation, and the resulting
// handle is shared by all subsequent calls.
func WithAlternateFactory(f func() (AlternateExtractor, error)) Option {
	return func(e *Engine) { e.fallback.factory = f }
}

// New creates an Engine over the given field registry. A nil registry
// gets the built-in specs.
func New(registry *locate.Registry, cfg Config, opts ...Option) (*Engine, error) {
	if registry == nil {
		var err error
		registry, err = locate.NewBuiltinRegistry(nil)
		if err != nil {
			return nil, err
		}
	}
	if cfg.MinTextChars <= 0 {
		cfg.MinTextChars = DefaultConfig().MinTextChars
	}
	e := &Engine{cfg: cfg, registry: registry, fallback: &fallbackHandle{}}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Extract turns a raw document into a consolidated invoice record. Data
// quality problems never surface as errors: missing fields are nil and
// explained via anomalies and confidence. The only hard failure is a
// malformed document (nil pointer).
func (e *Engine) Extract(ctx context.Context, doc *model.RawDocument) (*model.InvoiceRecord, error) {
	if doc == nil {
		return nil, eris.New("engine: nil document")
	}

	log := zap.L().With(zap.String("component", "engine"))

	// The input document is never mutated; the pipeline works on a
	// normalized copy. Line boundaries survive normalization so the
	// row-oriented assemblers keep working.
	norm := &model.RawDocument{
		Text:   normalize.Document(doc.Text),
		Words:  doc.Words,
		Source: doc.Source,
	}

	rec := e.runPrimary(norm)

	if !e.shouldEscalate(norm, rec) {
		rec.Source = model.SourcePrimary
		log.Debug("primary extraction accepted",
			zap.String("confidence", string(rec.Confidence)),
			zap.Int("line_items", len(rec.LineItems)),
		)
		return rec, nil
	}

	return e.escalate(ctx, doc, rec, log)
}

// runPrimary executes the pattern/spatial pipeline and consolidates the
// sub-records into one record.
func (e *Engine) runPrimary(doc *model.RawDocument) *model.InvoiceRecord {
	rec := &model.InvoiceRecord{}

	rec.Client = assemble.Identity(doc, e.registry)

	billing, billingAnomalies := assemble.Billing(doc, e.registry)
	rec.Billing = billing
	rec.Anomalies = append(rec.Anomalies, billingAnomalies...)

	items, itemAnomalies := assemble.Items(doc, e.cfg.Classify)
	rec.LineItems = items
	rec.Anomalies = append(rec.Anomalies, itemAnomalies...)

	readings, readingAnomalies := assemble.Readings(doc)
	rec.Readings = readings
	rec.Anomalies = append(rec.Anomalies, readingAnomalies...)

	rec.History = assemble.History(doc)
	rec.Taxes = assemble.Taxes(doc)
	rec.NetMetering = assemble.NetMetering(doc)
	rec.FlagPeriods = assemble.TariffFlags(doc)
	rec.Technical = assemble.Technical(doc, e.registry)

	consolidate.Apply(rec, doc.Source, e.cfg.Consolidate)
	return rec
}

// shouldEscalate implements the controller's transition rule: escalate
// when a critical field (premise identifier, total due) is missing or the
// input text is too short for the primary pipeline to have had a chance.
func (e *Engine) shouldEscalate(doc *model.RawDocument, rec *model.InvoiceRecord) bool {
	if len(doc.Text) < e.cfg.MinTextChars {
		return true
	}
	return !rec.HasCriticalFields()
}
