package extract

import (
	"regexp"
	"strings"

	"github.com/castmind/quetzal/internal/model"
)

// gytCreditLine matches a G&T Continental credit card row: date, an
// alphanumeric reference, description, a currency token, and the amount.
// Debits print a minus sign glued to the currency token.
var gytCreditLine = regexp.MustCompile(
	`^(\d{2}/\d{2}/\d{4})\s+([A-Z0-9]+)\s+(.+?)\s+(-?(?:QTZ|GTQ|DOL|USD))\s+([\d,]+\.?\d{2})$`)

var gytNoise = []string{
	"subtotal",
	"total",
	"saldo anterior",
	"saldo actual",
	"disponible",
	"fecha",
	"referencia",
	"descripción",
	"crédito",
	"débito",
}

type gytCredit struct {
	base
}

func (x *gytCredit) Extract(in Input, opts Options) ([]model.Transaction, error) {
	sink := x.sink(opts)
	label := x.label(opts)

	var txns []model.Transaction
	for _, raw := range splitLines(in.Text) {
		line := trimmed(raw)
		if line == "" {
			continue
		}
		if containsAnyFold(line, gytNoise) {
			sink.Emit(Event{Kind: EventNoiseSkipped, Line: line})
			continue
		}

		m := gytCreditLine.FindStringSubmatch(line)
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

		currencyToken := m[4]
		typ := model.TypeCredit
		if strings.HasPrefix(currencyToken, "-") {
			typ = model.TypeDebit
			currencyToken = currencyToken[1:]
		}

		txn := model.Transaction{
			Date:                date,
			Description:         trimmed(m[3]),
			OriginalDescription: trimmed(m[3]),
			Amount:              amount,
			Type:                typ,
			AccountName:         label,
			OriginalCurrency:    model.CurrencyGTQ,
			OriginalValue:       amount,
		}
		if currencyToken == "DOL" || currencyToken == "USD" {
			txn.OriginalCurrency = model.CurrencyUSD
			txn.Amount = x.toGTQ(amount)
		}
		txns = append(txns, txn)
	}

	return txns, nil
}
