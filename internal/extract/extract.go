// Package extract turns acquired statement text or raw CSV bytes into
// normalized transactions, one extractor per supported (bank, account,
// source) format.
package extract

import (
	"fmt"
	"sort"

	"github.com/castmind/quetzal/internal/common"
	"github.com/castmind/quetzal/internal/config"
	"github.com/castmind/quetzal/internal/model"
)

// Input carries the acquired content of one statement. PDF formats read
// Text; CSV formats read Raw and resolve the encoding themselves.
type Input struct {
	Text string
	Raw  []byte
}

// Options are per-document extraction options.
type Options struct {
	// Diagnostics receives skipped-line and parse-failure events. Nil
	// routes them to the debug log.
	Diagnostics Sink
	// SecondaryHolder appends the configured qualifier to the account label.
	SecondaryHolder bool
}

// Extractor parses one statement format. Implementations hold no state
// that outlives a single Extract call, so a shared instance is safe to use
// from concurrent document workers.
type Extractor interface {
	Extract(in Input, opts Options) ([]model.Transaction, error)
}

// Registry dispatches extraction over the closed set of supported formats.
type Registry struct {
	extractors map[model.Format]Extractor
}

// NewRegistry builds the registry of all supported statement formats.
func NewRegistry(cfg config.Extraction) *Registry {
	pdf := func(b model.Bank, a model.AccountType) model.Format {
		return model.Format{Bank: b, Account: a, Source: model.SourcePDF}
	}
	csv := func(a model.AccountType) model.Format {
		return model.Format{Bank: model.BankIndustrial, Account: a, Source: model.SourceCSV}
	}

	extractors := map[model.Format]Extractor{}
	register := func(f model.Format, e Extractor) { extractors[f] = e }

	register(pdf(model.BankIndustrial, model.AccountChecking),
		&industrialChecking{base: newBase(cfg, pdf(model.BankIndustrial, model.AccountChecking))})
	register(pdf(model.BankIndustrial, model.AccountUSDChecking),
		&industrialUSDChecking{base: newBase(cfg, pdf(model.BankIndustrial, model.AccountUSDChecking))})
	register(pdf(model.BankIndustrial, model.AccountCredit),
		newIndustrialCredit(cfg, pdf(model.BankIndustrial, model.AccountCredit), model.CurrencyGTQ))
	register(pdf(model.BankIndustrial, model.AccountCreditUSD),
		newIndustrialCredit(cfg, pdf(model.BankIndustrial, model.AccountCreditUSD), model.CurrencyUSD))
	register(pdf(model.BankBAM, model.AccountCredit),
		&bamCredit{base: newBase(cfg, pdf(model.BankBAM, model.AccountCredit))})
	register(pdf(model.BankGyT, model.AccountCredit),
		&gytCredit{base: newBase(cfg, pdf(model.BankGyT, model.AccountCredit))})
	register(csv(model.AccountChecking),
		&industrialCheckingCSV{base: newBase(cfg, csv(model.AccountChecking)), currency: model.CurrencyGTQ})
	register(csv(model.AccountUSDChecking),
		&industrialCheckingCSV{base: newBase(cfg, csv(model.AccountUSDChecking)), currency: model.CurrencyUSD})

	return &Registry{extractors: extractors}
}

// Extract runs the extractor registered for the format, then validates
// every produced transaction and stamps its stable ID.
func (r *Registry) Extract(format model.Format, in Input, opts Options) ([]model.Transaction, error) {
	ex, ok := r.extractors[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", common.ErrUnknownFormat, format)
	}

	txns, err := ex.Extract(in, opts)
	if err != nil {
		return nil, err
	}

	for i := range txns {
		if err := txns[i].Validate(); err != nil {
			return nil, fmt.Errorf("extractor for %s produced invalid transaction: %w", format, err)
		}
		txns[i].ID = txns[i].GenerateHash()
	}
	return txns, nil
}

// Supported enumerates every registered format in a stable order.
func (r *Registry) Supported() []model.Format {
	formats := make([]model.Format, 0, len(r.extractors))
	for f := range r.extractors {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool {
		return formats[i].String() < formats[j].String()
	})
	return formats
}

// base carries the cross-cutting pieces every extractor shares.
type base struct {
	cfg    config.Extraction
	format model.Format
}

func newBase(cfg config.Extraction, format model.Format) base {
	return base{cfg: cfg, format: format}
}

// label resolves the account label, applying the secondary-holder suffix.
func (b base) label(opts Options) string {
	label := b.cfg.Label(b.format)
	if opts.SecondaryHolder {
		label += b.cfg.SecondarySuffix
	}
	return label
}

func (b base) sink(opts Options) Sink {
	if opts.Diagnostics != nil {
		return opts.Diagnostics
	}
	return logSink{}
}
