package pdftext

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castmind/quetzal/internal/common"
	"github.com/castmind/quetzal/internal/config"
)

type fakeOCR struct {
	pages []string
	err   error
	calls int
}

func (f *fakeOCR) Recognize(_ context.Context, _ []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	page := f.pages[f.calls%len(f.pages)]
	f.calls++
	return page, nil
}

func (f *fakeOCR) Close() error { return nil }

func newTestProcessor(textLayer string, textErr error, ocr OCRClient, pages int) *Processor {
	p := NewProcessor(config.Extraction{MinTextChars: 50}, ocr)
	p.textLayer = func(string) (string, error) {
		return textLayer, textErr
	}
	p.rasterize = func(string) ([][]byte, error) {
		images := make([][]byte, pages)
		for i := range images {
			images[i] = []byte{0x89, 0x50}
		}
		return images, nil
	}
	return p
}

func TestProcess_UsesTextLayerWhenSufficient(t *testing.T) {
	text := "01/10/2025 123 COMPRA SUPERMERCADO 150.00 1,850.00\nmore statement content here"
	ocr := &fakeOCR{pages: []string{"should not be used"}}

	p := newTestProcessor(text, nil, ocr, 1)
	got, err := p.Process(context.Background(), "statement.pdf")
	require.NoError(t, err)
	assert.Equal(t, text, got)
	assert.Zero(t, ocr.calls)
}

func TestProcess_FallsBackToOCRForScannedDocuments(t *testing.T) {
	ocr := &fakeOCR{pages: []string{"page one text", "page two text", "page three text"}}

	p := newTestProcessor("  \n \t ", nil, ocr, 3)
	got, err := p.Process(context.Background(), "scan.pdf")
	require.NoError(t, err)
	assert.Equal(t, "page one text\npage two text\npage three text", got)
	assert.Equal(t, 3, ocr.calls)
}

func TestProcess_ThresholdCountsNonWhitespaceOnly(t *testing.T) {
	// 49 visible chars padded with whitespace still triggers the fallback.
	sparse := "x" + strings.Repeat("y", 48)
	require.Equal(t, 49, countNonWhitespace(sparse))

	ocr := &fakeOCR{pages: []string{"ocr result"}}
	p := newTestProcessor(sparse+"\n\n\t  ", nil, ocr, 1)

	got, err := p.Process(context.Background(), "sparse.pdf")
	require.NoError(t, err)
	assert.Equal(t, "ocr result", got)
}

func TestProcess_WrapsTextLayerFailure(t *testing.T) {
	cause := errors.New("malformed xref table")
	p := newTestProcessor("", cause, nil, 0)

	_, err := p.Process(context.Background(), "broken.pdf")
	require.Error(t, err)

	var extErr *common.ExtractionError
	require.ErrorAs(t, err, &extErr)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "broken.pdf", extErr.Path)
}

func TestProcess_OCRFailureIsNotRetried(t *testing.T) {
	ocr := &fakeOCR{err: fmt.Errorf("missing language data")}
	p := newTestProcessor("", nil, ocr, 2)

	_, err := p.Process(context.Background(), "scan.pdf")
	require.Error(t, err)

	var extErr *common.ExtractionError
	assert.ErrorAs(t, err, &extErr)
}

func TestProcess_ScannedWithoutOCRClientFails(t *testing.T) {
	p := newTestProcessor("", nil, nil, 0)

	_, err := p.Process(context.Background(), "scan.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no OCR client")
}
