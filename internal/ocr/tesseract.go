package ocr

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/contasapp/contas-ingest/constants"
	"github.com/contasapp/contas-ingest/internal/common"
	"github.com/contasapp/contas-ingest/internal/entity"
)

// Tesseract recognizes documents with a local tesseract installation.
// PDFs are tried for an embedded text layer first; scanned PDFs are
// rasterized with pdftoppm and OCRed page by page.
type Tesseract struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewTesseract(cfg Config, logger *slog.Logger) *Tesseract {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tesseract{cfg: cfg.withDefaults(), runner: execRunner{}, logger: logger}
}

func (t *Tesseract) Recognize(ctx context.Context, doc entity.Document) (string, error) {
	switch {
	case doc.MediaType == constants.MediaPDF:
		return t.recognizePDF(ctx, doc)
	case constants.IsImage(doc.MediaType):
		return t.recognizeImage(ctx, doc)
	default:
		return "", fmt.Errorf("%w: %q", common.ErrUnsupportedMedia, doc.MediaType)
	}
}

func (t *Tesseract) recognizeImage(ctx context.Context, doc entity.Document) (string, error) {
	ext := "png"
	if doc.MediaType == constants.MediaJPEG {
		ext = "jpg"
	}
	path, cleanup, err := writeTemp(doc.Content, "contas-img-*."+ext)
	if err != nil {
		return "", fmt.Errorf("%w: stage image: %v", common.ErrOCRService, err)
	}
	defer cleanup()
	return t.tesseractOCR(ctx, path)
}

func (t *Tesseract) recognizePDF(ctx context.Context, doc entity.Document) (string, error) {
	if text, err := pdfTextLayer(doc.Content); err == nil && strings.TrimSpace(text) != "" {
		t.logger.Debug("pdf text layer used", "name", doc.DisplayName, "bytes", len(text))
		return text, nil
	}

	path, cleanup, err := writeTemp(doc.Content, "contas-doc-*.pdf")
	if err != nil {
		return "", fmt.Errorf("%w: stage pdf: %v", common.ErrOCRService, err)
	}
	defer cleanup()
	return t.pdfToOCR(ctx, path)
}

// tesseract <file> stdout -l <lang>
func (t *Tesseract) tesseractOCR(ctx context.Context, path string) (string, error) {
	out, errb, err := t.runner.Run(ctx, t.cfg.Tesseract, path, "stdout", "-l", t.cfg.Language)
	if err != nil {
		return "", fmt.Errorf("%w: tesseract: %v: %s", common.ErrOCRService, err, truncate(string(errb), 512))
	}
	return string(out), nil
}

func (t *Tesseract) pdfToOCR(ctx context.Context, path string) (string, error) {
	tmpDir, err := os.MkdirTemp("", "contas-pp-*")
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrOCRService, err)
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			t.logger.Warn("failed to remove temp dir", "path", tmpDir, "error", rmErr)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r <dpi> -png <in.pdf> <tmp/page>
	if _, errb, err := t.runner.Run(ctx, t.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", t.cfg.DPI), "-png", path, prefix); err != nil {
		return "", fmt.Errorf("%w: pdftoppm: %v: %s", common.ErrOCRService, err, truncate(string(errb), 512))
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ...)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if t.cfg.MaxPages > 0 && len(matches) > t.cfg.MaxPages {
		matches = matches[:t.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: pdftoppm produced no pages", common.ErrOCRService)
	}

	var b strings.Builder
	for _, img := range matches {
		txt, err := t.tesseractOCR(ctx, img)
		if err != nil {
			return "", err
		}
		if b.Len() > 0 {
			b.WriteString("\n\f\n") // keep a clear page break marker
		}
		b.WriteString(txt)
	}
	return b.String(), nil
}

// pdfTextLayer returns the embedded text of a digitally produced PDF.
func pdfTextLayer(data []byte) (string, error) {
	doc, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("new pdf reader: %w", err)
	}
	var b strings.Builder
	for page := 1; page <= doc.NumPage(); page++ {
		p := doc.Page(page)
		if p.V.IsNull() {
			continue
		}
		content, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", page, err)
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}

func writeTemp(data []byte, pattern string) (string, func(), error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	cleanup := func() { _ = os.Remove(path) }
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, err
	}
	return path, cleanup, nil
}
