// Package pdftext acquires machine-readable text from statement PDFs.
package pdftext

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/dslipak/pdf"

	"github.com/castmind/quetzal/internal/common"
	"github.com/castmind/quetzal/internal/config"
)

// Processor extracts text from a PDF, falling back to OCR when the
// document has no usable text layer.
type Processor struct {
	ocr          OCRClient
	textLayer    func(path string) (string, error)
	rasterize    func(path string) ([][]byte, error)
	minTextChars int
}

// NewProcessor creates a Processor. The OCR client may be nil, in which
// case scanned documents fail with a descriptive error instead of being
// silently skipped.
func NewProcessor(cfg config.Extraction, ocr OCRClient) *Processor {
	minChars := cfg.MinTextChars
	if minChars <= 0 {
		minChars = 50
	}
	return &Processor{
		ocr:          ocr,
		minTextChars: minChars,
		textLayer:    extractTextLayer,
		rasterize:    rasterizePages,
	}
}

// Process returns the full text of the document, one page per newline-joined
// chunk. Direct text-layer extraction is attempted first; if the result has
// fewer than the configured number of non-whitespace characters the whole
// document is treated as scanned and re-processed with OCR, page by page in
// page order. OCR is attempted once: its failures are systematic (missing
// language data, corrupt image), not transient.
func (p *Processor) Process(ctx context.Context, path string) (string, error) {
	text, err := p.textLayer(path)
	if err != nil {
		return "", &common.ExtractionError{Path: path, Err: err}
	}

	if countNonWhitespace(text) >= p.minTextChars {
		return text, nil
	}

	slog.Info("Text layer too sparse, treating document as scanned",
		"path", path,
		"chars", countNonWhitespace(text))

	ocrText, err := p.ocrDocument(ctx, path)
	if err != nil {
		return "", &common.ExtractionError{Path: path, Err: err}
	}
	return ocrText, nil
}

func (p *Processor) ocrDocument(ctx context.Context, path string) (string, error) {
	if p.ocr == nil {
		return "", fmt.Errorf("document appears scanned and no OCR client is configured")
	}

	images, err := p.rasterize(path)
	if err != nil {
		return "", fmt.Errorf("failed to rasterize pages: %w", err)
	}

	pages := make([]string, 0, len(images))
	for i, img := range images {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := p.ocr.Recognize(ctx, img)
		if err != nil {
			return "", fmt.Errorf("OCR failed on page %d: %w", i+1, err)
		}
		pages = append(pages, text)
	}
	return strings.Join(pages, "\n"), nil
}

// extractTextLayer pulls the text layer of every page, concatenated with
// newline separators.
func extractTextLayer(path string) (string, error) {
	r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to extract text from page %d: %w", i, err)
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func countNonWhitespace(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}
