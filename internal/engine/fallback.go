package engine

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/assina-energy/fatura-cli/internal/model"
)

// AlternateExtractor is the caller-supplied escalation hook: an opaque
// alternate strategy (typically AI-based) satisfying the same record
// contract. It returns (nil, nil) when it has no answer.
type AlternateExtractor interface {
	Extract(ctx context.Context, text string) (*model.InvoiceRecord, error)
}

// fallbackHandle is the process-wide handle to the optional alternate
// backend. Construction runs at most once; afterwards the handle is
// read-only and safely shared between concurrent extraction calls.
type fallbackHandle struct {
	factory func() (AlternateExtractor, error)

	once sync.Once
	alt  AlternateExtractor
	err  error
}

func (h *fallbackHandle) set(alt AlternateExtractor) {
	h.once.Do(func() { h.alt = alt })
}

// get returns the shared extractor, constructing it on first use. A nil
// extractor with nil error means no alternate strategy is configured.
func (h *fallbackHandle) get() (AlternateExtractor, error) {
	h.once.Do(func() {
		if h.factory != nil {
			h.alt, h.err = h.factory()
		}
	})
	return h.alt, h.err
}

// escalate invokes the alternate strategy. A successful alternate result
// replaces the primary record wholesale — field-merging two strategies
// would produce incoherent hybrid records. When the alternate is absent
// or fails, the primary result is returned with confidence at its floor
// and the missing fields left nil.
func (e *Engine) escalate(ctx context.Context, doc *model.RawDocument, primary *model.InvoiceRecord, log *zap.Logger) (*model.InvoiceRecord, error) {
	alt, err := e.fallback.get()
	if err != nil {
		log.Warn("alternate extractor unavailable", zap.Error(err))
	}

	if alt != nil {
		rec, altErr := alt.Extract(ctx, doc.Text)
		if altErr != nil {
			log.Warn("alternate extraction failed", zap.Error(altErr))
		} else if rec != nil {
			rec.Source = model.SourceFallbackAI
			if rec.Confidence == "" {
				rec.Confidence = model.ConfidenceMedium
			}
			log.Info("alternate extraction accepted",
				zap.Int("line_items", len(rec.LineItems)),
			)
			return rec, nil
		}
	}

	primary.Source = model.SourcePrimaryIncomplete
	primary.Confidence = model.ConfidenceFloor
	log.Info("primary extraction incomplete",
		zap.Bool("critical_fields", primary.HasCriticalFields()),
		zap.Int("text_chars", len(doc.Text)),
	)
	return primary, nil
}
