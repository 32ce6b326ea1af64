package ocr

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/assina-energy/fatura-cli/internal/model"
)

// PdfToText acquires invoice text using the pdftotext CLI tool. Plain
// .txt files (pre-extracted transcripts) are read directly and tagged as
// OCR-sourced.
type PdfToText struct {
	binPath string
}

// NewPdfToText creates a PdfToText acquirer. If binPath is empty,
// "pdftotext" is used.
func NewPdfToText(binPath string) *PdfToText {
	if binPath == "" {
		binPath = "pdftotext"
	}
	return &PdfToText{binPath: binPath}
}

// Acquire reads the file at path into a RawDocument. PDFs go through
// pdftotext -layout and carry the NATIVE_TEXT source tag; anything else
// is treated as a transcript and tagged OCR.
func (p *PdfToText) Acquire(ctx context.Context, path string) (*model.RawDocument, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		text, err := p.extractPDF(ctx, path)
		if err != nil {
			return nil, err
		}
		return &model.RawDocument{Text: text, Source: model.SourceNativeText}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ocr: read transcript %s", path)
	}
	return &model.RawDocument{Text: string(raw), Source: model.SourceOCR}, nil
}

func (p *PdfToText) extractPDF(ctx context.Context, pdfPath string) (string, error) {
	cmd := exec.CommandContext(ctx, p.binPath, "-layout", pdfPath, "-")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", eris.Wrapf(err, "ocr: pdftotext failed for %s: %s", pdfPath, stderr.String())
	}

	return stdout.String(), nil
}
