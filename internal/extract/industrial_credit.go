package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/castmind/quetzal/internal/common"
	"github.com/castmind/quetzal/internal/config"
	"github.com/castmind/quetzal/internal/model"
)

// creditNoise drops legal boilerplate and summary rows printed between
// movement rows on the credit card statement.
var creditNoise = []string{
	"favor de revisar",
	"mes calendario",
	"saldo al final",
}

// Movement-type codes printed by the Banco Industrial credit statement.
// Any code outside these two sets aborts the document.
var (
	creditDebitCodes  = map[string]bool{"DEBITO": true, "CONSUMO": true}
	creditCreditCodes = map[string]bool{"PAGO AGENC": true, "PAGO": true, "CREDITO": true}
)

// industrialCredit extracts the Banco Industrial credit card statement in
// either currency. Rows only start after the column header appears, since
// the first page opens with cardholder details in the same visual layout.
type industrialCredit struct {
	base
	currency string
	line     *regexp.Regexp
}

func newIndustrialCredit(cfg config.Extraction, format model.Format, currency string) *industrialCredit {
	symbol := `Q\.`
	if currency == model.CurrencyUSD {
		symbol = `\$\.`
	}
	return &industrialCredit{
		base:     newBase(cfg, format),
		currency: currency,
		line: regexp.MustCompile(
			`^(\d{2}/\d{2}/\d{4})\s+([A-ZÁÉÍÓÚ\s]+?)\s+(\d+)\s+(.+?)\s+` +
				symbol + `\s*([\d,]+\.\d{2})\s+` + symbol + `\s*([\d,]+\.\d{2})`),
	}
}

func (x *industrialCredit) Extract(in Input, opts Options) ([]model.Transaction, error) {
	sink := x.sink(opts)
	label := x.label(opts)

	var txns []model.Transaction
	unknown := map[string]bool{}
	inTable := false

	for _, raw := range splitLines(in.Text) {
		line := trimmed(raw)
		if line == "" {
			continue
		}

		upper := strings.ToUpper(line)
		if !inTable {
			// The header spells "MOVMIENTO" without the I; match what is printed.
			if strings.Contains(upper, "FECHA") &&
				strings.Contains(upper, "TIPO DE MOVMIENTO") &&
				strings.Contains(upper, "COMERCIO") {
				inTable = true
			}
			continue
		}
		if containsAnyFold(line, creditNoise) {
			sink.Emit(Event{Kind: EventNoiseSkipped, Line: line})
			continue
		}

		m := x.line.FindStringSubmatch(line)
		if m == nil {
			sink.Emit(Event{Kind: EventLineUnmatched, Line: line})
			continue
		}

		date, err := parseStatementDate(m[1])
		if err != nil {
			sink.Emit(Event{Kind: EventBadNumber, Line: line, Detail: err.Error()})
			continue
		}
		amount, err := parseMoney(m[5])
		if err != nil {
			sink.Emit(Event{Kind: EventBadNumber, Line: line, Detail: err.Error()})
			continue
		}

		code := trimmed(m[2])
		typ, ok := creditCodeDirection(code)
		if !ok {
			unknown[code] = true
			continue
		}

		txn := model.Transaction{
			Date:                date,
			Description:         trimmed(m[4]),
			OriginalDescription: trimmed(m[4]),
			Amount:              amount,
			Type:                typ,
			AccountName:         label,
			OriginalCurrency:    x.currency,
			OriginalValue:       amount,
		}
		if x.currency == model.CurrencyUSD {
			txn.Amount = x.toGTQ(amount)
		}
		txns = append(txns, txn)
	}

	if len(unknown) > 0 {
		codes := make([]string, 0, len(unknown))
		for code := range unknown {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		return nil, &common.UnknownCodeError{Codes: codes}
	}
	return txns, nil
}

func creditCodeDirection(code string) (model.TransactionType, bool) {
	switch {
	case creditDebitCodes[code]:
		return model.TypeDebit, true
	case creditCreditCodes[code]:
		return model.TypeCredit, true
	default:
		return "", false
	}
}
