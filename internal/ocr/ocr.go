// Package ocr adapts external text-acquisition collaborators. The engine
// itself never touches files; these acquirers turn an invoice file into
// the RawDocument the engine consumes.
package ocr

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/assina-energy/fatura-cli/internal/config"
	"github.com/assina-energy/fatura-cli/internal/model"
)

// Acquirer turns an invoice file into a raw document.
type Acquirer interface {
	Acquire(ctx context.Context, path string) (*model.RawDocument, error)
}

// NewAcquirer creates an Acquirer based on config.
func NewAcquirer(cfg config.OCRConfig) (Acquirer, error) {
	switch cfg.Provider {
	case "local", "":
		return NewPdfToText(cfg.PdfToTextPath), nil
	default:
		return nil, eris.Errorf("ocr: unknown provider %q", cfg.Provider)
	}
}
