// Package ocr turns uploaded documents into plain text. The Recognizer seam
// lets the pipeline run against either a local tesseract installation or a
// remote recognition service without the callers changing.
package ocr

import (
	"context"

	"github.com/contasapp/contas-ingest/internal/entity"
)

// Recognizer converts one document's bytes into recognized text. A single
// attempt either succeeds or fails; retry policy belongs to the caller.
type Recognizer interface {
	Recognize(ctx context.Context, doc entity.Document) (string, error)
}

// Config holds recognition-engine settings.
type Config struct {
	Tesseract string // binary name or absolute path; if empty -> "tesseract"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Language  string // recognition language hint, default "por"
	DPI       int    // rasterization DPI for scanned PDFs, default 300
	MaxPages  int    // 0 = no limit
}

func (c Config) withDefaults() Config {
	if c.Tesseract == "" {
		c.Tesseract = "tesseract"
	}
	if c.Pdftoppm == "" {
		c.Pdftoppm = "pdftoppm"
	}
	if c.Language == "" {
		c.Language = "por"
	}
	if c.DPI <= 0 {
		c.DPI = 300
	}
	return c
}
