// Package engine orchestrates the import pipeline: acquire text, detect
// the statement format, extract transactions, persist, classify, export.
package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/castmind/quetzal/internal/classify"
	"github.com/castmind/quetzal/internal/common"
	"github.com/castmind/quetzal/internal/detect"
	"github.com/castmind/quetzal/internal/export"
	"github.com/castmind/quetzal/internal/extract"
	"github.com/castmind/quetzal/internal/model"
	"github.com/castmind/quetzal/internal/textenc"
)

// Store is the persistence surface the engine needs.
type Store interface {
	SaveTransactions(ctx context.Context, txns []model.Transaction) (int, error)
	GetTransactions(ctx context.Context) ([]model.Transaction, error)
	GetTransactionsByAccount(ctx context.Context, accountName string) ([]model.Transaction, error)
	GetActiveCategoryPatterns(ctx context.Context) ([]model.Pattern, error)
	GetActiveMerchantPatterns(ctx context.Context) ([]model.Pattern, error)
	UpdateClassifications(ctx context.Context, txns []model.Transaction) error
	ClearAutoCategories(ctx context.Context) (int64, error)
}

// TextAcquirer produces the text of a PDF statement.
type TextAcquirer interface {
	Process(ctx context.Context, path string) (string, error)
}

// Engine wires the pipeline stages together.
type Engine struct {
	store    Store
	pdf      TextAcquirer
	registry *extract.Registry
}

// New creates an engine over the given stages.
func New(store Store, pdf TextAcquirer, registry *extract.Registry) *Engine {
	return &Engine{store: store, pdf: pdf, registry: registry}
}

// ImportResult summarizes one processed document.
type ImportResult struct {
	Path      string
	Format    model.Format
	Extracted int
	Imported  int
}

// csvDetectTokens anchor encoding resolution when sniffing CSV content.
var csvDetectTokens = []string{"fecha", "debe", "haber"}

// ProcessDocument runs one statement file through acquisition, detection,
// extraction, and persistence. Files whose format cannot be determined
// fail with ErrUnknownFormat rather than guessing.
func (e *Engine) ProcessDocument(ctx context.Context, path string, opts extract.Options) (*ImportResult, error) {
	filename := filepath.Base(path)

	var (
		format model.Format
		known  bool
		in     extract.Input
	)
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		in.Raw = raw

		// Detection tolerates an unresolvable encoding when the filename
		// alone identifies the format; extraction will fail properly later.
		content := ""
		if text, _, err := textenc.Resolve(raw, csvDetectTokens); err == nil {
			content = text
		}
		format, known = detect.DetectCSV(filename, content)
	} else {
		text, err := e.pdf.Process(ctx, path)
		if err != nil {
			return nil, err
		}
		in.Text = text
		format, known = detect.DetectPDF(filename, text)
	}
	if !known {
		return nil, fmt.Errorf("%w: cannot determine statement format of %s", common.ErrUnknownFormat, filename)
	}

	txns, err := e.registry.Extract(format, in, opts)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", filename, err)
	}

	result := &ImportResult{Path: path, Format: format, Extracted: len(txns)}
	if len(txns) == 0 {
		slog.Warn("no transactions extracted", "path", path, "format", format.String())
		return result, nil
	}

	inserted, err := e.store.SaveTransactions(ctx, txns)
	if err != nil {
		return nil, fmt.Errorf("saving transactions from %s: %w", filename, err)
	}
	result.Imported = inserted

	slog.Info("processed statement",
		"path", path,
		"format", format.String(),
		"extracted", result.Extracted,
		"imported", result.Imported,
	)
	return result, nil
}

// ClassifyResult summarizes one classification pass.
type ClassifyResult struct {
	Total       int
	Categorized int
	Normalized  int
	Cleared     int64
}

// ClassifyAll loads the active pattern sets once, applies the category
// pass (respecting manual latches) and the merchant pass to every stored
// transaction, and persists the outcome.
func (e *Engine) ClassifyAll(ctx context.Context) (*ClassifyResult, error) {
	categoryPatterns, err := e.store.GetActiveCategoryPatterns(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading category patterns: %w", err)
	}
	merchantPatterns, err := e.store.GetActiveMerchantPatterns(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading merchant patterns: %w", err)
	}
	txns, err := e.store.GetTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}

	result := &ClassifyResult{Total: len(txns)}
	if len(txns) == 0 {
		return result, nil
	}

	result.Categorized = classify.NewEngine(categoryPatterns).Categorize(txns)
	result.Normalized = classify.NewEngine(merchantPatterns).Normalize(txns)

	if err := e.store.UpdateClassifications(ctx, txns); err != nil {
		return nil, fmt.Errorf("persisting classifications: %w", err)
	}

	slog.Info("classification complete",
		"total", result.Total,
		"categorized", result.Categorized,
		"normalized", result.Normalized,
	)
	return result, nil
}

// Recategorize reruns classification. With force set, automatically
// assigned categories are cleared first so retired patterns stop
// contributing; manual assignments always survive.
func (e *Engine) Recategorize(ctx context.Context, force bool) (*ClassifyResult, error) {
	var cleared int64
	if force {
		var err error
		cleared, err = e.store.ClearAutoCategories(ctx)
		if err != nil {
			return nil, fmt.Errorf("clearing categories: %w", err)
		}
	}

	result, err := e.ClassifyAll(ctx)
	if err != nil {
		return nil, err
	}
	result.Cleared = cleared
	return result, nil
}

// Export writes stored transactions to w in the requested format, "csv"
// or "xlsx". An empty accountName exports every account combined.
func (e *Engine) Export(ctx context.Context, w io.Writer, format, accountName string) (int, error) {
	var (
		txns []model.Transaction
		err  error
	)
	if accountName == "" {
		txns, err = e.store.GetTransactions(ctx)
	} else {
		txns, err = e.store.GetTransactionsByAccount(ctx, accountName)
	}
	if err != nil {
		return 0, fmt.Errorf("loading transactions: %w", err)
	}

	switch format {
	case "csv":
		err = export.WriteCSV(w, txns)
	case "xlsx":
		err = export.WriteXLSX(w, txns)
	default:
		return 0, fmt.Errorf("unsupported export format %q", format)
	}
	if err != nil {
		return 0, err
	}
	return len(txns), nil
}
