// Package detect infers the (bank, account type) format of a statement
// from its filename and content.
//
// Filename-pattern matches always win over content inspection: a curated
// filename is an operator-supplied signal, content keywords are a
// heuristic. When neither fires the format is Unknown; a silent
// misclassification of money data is worse than asking the operator.
package detect

import (
	"strings"

	"github.com/castmind/quetzal/internal/model"
)

// filenamePatterns maps curated filename substrings to formats, in match
// priority order. Longer, more specific labels come first.
var filenamePatterns = []struct {
	substr string
	format model.Format
}{
	{"bi checking gtq", model.Format{Bank: model.BankIndustrial, Account: model.AccountChecking}},
	{"bi checking usd", model.Format{Bank: model.BankIndustrial, Account: model.AccountUSDChecking}},
	{"bi credit gtq", model.Format{Bank: model.BankIndustrial, Account: model.AccountCredit}},
	{"bi credit usd", model.Format{Bank: model.BankIndustrial, Account: model.AccountCreditUSD}},
	{"gyt credit", model.Format{Bank: model.BankGyT, Account: model.AccountCredit}},
	{"bam credit", model.Format{Bank: model.BankBAM, Account: model.AccountCredit}},
}

// currencyKeywords signal a USD variant. The "$" check runs against the
// original-case text; the rest against the lowercased text.
var currencyKeywords = []string{"usd", "dolar", "dólar"}

// csvRequiredTokens is the structural keyword set a Banco Industrial
// checking CSV must contain to be recognized at all.
var csvRequiredTokens = []string{"fecha", "tt", "debe", "haber", "saldo"}

// DetectPDF infers the format of a PDF statement. The content argument is
// the acquired document text; it may be empty, in which case only filename
// rules can fire.
func DetectPDF(filename, content string) (model.Format, bool) {
	if f, ok := matchFilename(filename); ok {
		f.Source = model.SourcePDF
		return f, true
	}

	haystack := strings.ToLower(filename) + "\n" + strings.ToLower(content)
	raw := filename + "\n" + content

	f, ok := matchContent(haystack, raw)
	if !ok {
		return model.Format{}, false
	}
	f.Source = model.SourcePDF
	return f, true
}

// DetectCSV infers the format of a CSV statement from its filename and
// decoded text. Only Banco Industrial checking exports exist in CSV form;
// the currency variant is read off the money column headers.
func DetectCSV(filename, text string) (model.Format, bool) {
	if f, ok := matchFilename(filename); ok {
		f.Source = model.SourceCSV
		return f, true
	}

	lower := strings.ToLower(text)
	for _, token := range csvRequiredTokens {
		if !strings.Contains(lower, token) {
			return model.Format{}, false
		}
	}

	account := model.AccountChecking
	if csvHasUSDColumns(lower) {
		account = model.AccountUSDChecking
	}
	return model.Format{Bank: model.BankIndustrial, Account: account, Source: model.SourceCSV}, true
}

func matchFilename(filename string) (model.Format, bool) {
	name := strings.ToLower(filename)
	for _, p := range filenamePatterns {
		if strings.Contains(name, p.substr) {
			return p.format, true
		}
	}
	return model.Format{}, false
}

// matchContent scans bank keyword sets, then sub-classifies checking vs
// credit, then GTQ vs USD. Ambiguous content with no currency signal
// defaults to the GTQ variant.
func matchContent(haystack, raw string) (model.Format, bool) {
	switch {
	case strings.Contains(haystack, "banco industrial") || strings.Contains(haystack, "industrial"):
		switch {
		case strings.Contains(haystack, "tarjeta de credito") ||
			strings.Contains(haystack, "tarjeta de crédito") ||
			strings.Contains(haystack, "credit card"):
			if hasCurrencySignal(haystack, raw) {
				return model.Format{Bank: model.BankIndustrial, Account: model.AccountCreditUSD}, true
			}
			return model.Format{Bank: model.BankIndustrial, Account: model.AccountCredit}, true
		case strings.Contains(haystack, "cuenta corriente") || strings.Contains(haystack, "checking"):
			if hasCurrencySignal(haystack, raw) {
				return model.Format{Bank: model.BankIndustrial, Account: model.AccountUSDChecking}, true
			}
			return model.Format{Bank: model.BankIndustrial, Account: model.AccountChecking}, true
		}

	case strings.Contains(haystack, "banco agromercantil") || strings.Contains(haystack, "bam"):
		if strings.Contains(haystack, "tarjeta") || strings.Contains(haystack, "credit") {
			return model.Format{Bank: model.BankBAM, Account: model.AccountCredit}, true
		}

	case strings.Contains(haystack, "gyt") || strings.Contains(haystack, "g&t") || strings.Contains(haystack, "gyp"):
		if strings.Contains(haystack, "tarjeta") || strings.Contains(haystack, "credit") {
			return model.Format{Bank: model.BankGyT, Account: model.AccountCredit}, true
		}
	}

	return model.Format{}, false
}

func hasCurrencySignal(haystack, raw string) bool {
	if strings.Contains(raw, "$") {
		return true
	}
	for _, kw := range currencyKeywords {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}

// csvHasUSDColumns checks the money column header suffixes.
func csvHasUSDColumns(lower string) bool {
	return strings.Contains(lower, "(usd)") || strings.Contains(lower, "($)")
}
