package pdftext

import (
	"context"
	"fmt"

	"github.com/gen2brain/go-fitz"
	"github.com/otiai10/gosseract/v2"
)

// rasterDPI is the render resolution for OCR input. Statement scans are
// dense tables; 200 DPI keeps digits legible without ballooning memory.
const rasterDPI = 200

// OCRClient recognizes text in a rendered page image.
type OCRClient interface {
	Recognize(ctx context.Context, png []byte) (string, error)
	Close() error
}

// TesseractClient is an OCRClient backed by a local Tesseract install.
type TesseractClient struct {
	client *gosseract.Client
}

// NewTesseractClient creates a Tesseract-backed OCR client for the given
// language, e.g. "spa" for the Spanish statement layouts.
func NewTesseractClient(language string) (*TesseractClient, error) {
	client := gosseract.NewClient()
	if err := client.SetLanguage(language); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to set OCR language %q: %w", language, err)
	}
	// Statements are a single uniform block of text per page.
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	return &TesseractClient{client: client}, nil
}

// Recognize runs OCR over one page image.
func (t *TesseractClient) Recognize(ctx context.Context, png []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := t.client.SetImageFromBytes(png); err != nil {
		return "", fmt.Errorf("failed to load page image: %w", err)
	}
	text, err := t.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR recognition failed: %w", err)
	}
	return text, nil
}

// Close releases the underlying Tesseract handle.
func (t *TesseractClient) Close() error {
	return t.client.Close()
}

// rasterizePages renders every page of the PDF to a PNG, in page order.
func rasterizePages(path string) ([][]byte, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF for rendering: %w", err)
	}
	defer func() { _ = doc.Close() }()

	images := make([][]byte, 0, doc.NumPage())
	for i := 0; i < doc.NumPage(); i++ {
		png, err := doc.ImagePNG(i, rasterDPI)
		if err != nil {
			return nil, fmt.Errorf("failed to render page %d: %w", i+1, err)
		}
		images = append(images, png)
	}
	return images, nil
}
