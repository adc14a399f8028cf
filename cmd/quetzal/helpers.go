package main

import (
	"log/slog"

	"github.com/castmind/quetzal/internal/config"
	"github.com/castmind/quetzal/internal/engine"
	"github.com/castmind/quetzal/internal/extract"
	"github.com/castmind/quetzal/internal/pdftext"
	"github.com/castmind/quetzal/internal/storage"
)

// initStorage opens the configured database, running migrations.
func initStorage(cfg *config.Config) (*storage.SQLiteStorage, error) {
	return storage.NewSQLiteStorage(cfg.Database.Path)
}

// initEngine wires the full pipeline. The returned cleanup releases the
// OCR client; it is safe to call even when OCR setup failed.
func initEngine(cfg *config.Config, store engine.Store) (*engine.Engine, func()) {
	var ocr pdftext.OCRClient
	cleanup := func() {}

	tesseract, err := pdftext.NewTesseractClient(cfg.Extraction.OCRLanguage)
	if err != nil {
		slog.Warn("OCR unavailable, scanned statements will fail", "error", err)
	} else {
		ocr = tesseract
		cleanup = func() { _ = tesseract.Close() }
	}

	processor := pdftext.NewProcessor(cfg.Extraction, ocr)
	registry := extract.NewRegistry(cfg.Extraction)
	return engine.New(store, processor, registry), cleanup
}

// initEngineNoOCR wires the pipeline without an OCR client, for commands
// that never acquire PDF text.
func initEngineNoOCR(cfg *config.Config, store engine.Store) (*engine.Engine, func()) {
	processor := pdftext.NewProcessor(cfg.Extraction, nil)
	registry := extract.NewRegistry(cfg.Extraction)
	return engine.New(store, processor, registry), func() {}
}
