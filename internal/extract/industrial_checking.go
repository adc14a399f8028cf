package extract

import (
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/castmind/quetzal/internal/model"
)

// industrialCheckingLine matches one movement row of a Banco Industrial
// checking statement: date, document number, description, amount, balance.
var industrialCheckingLine = regexp.MustCompile(
	`^(\d{2}/\d{2}/\d{4})\s+(\d+)\s+(.+?)\s+([\d,]+\.\d{2})\s+([\d,]+\.\d{2})$`)

// checkingNoise drops headers, subtotal rows, and summary lines that share
// the page with movement rows.
var checkingNoise = []string{
	"subtotal",
	"total",
	"saldo anterior",
	"saldo actual",
	"disponible",
	"fecha",
	"referencia",
	"descripción",
	"débito",
	"crédito",
	"saldo",
}

// industrialChecking extracts the GTQ checking statement. The statement
// prints a running balance but no per-row direction, so credits and debits
// are inferred from consecutive balance differences.
type industrialChecking struct {
	base
}

func (x *industrialChecking) Extract(in Input, opts Options) ([]model.Transaction, error) {
	sink := x.sink(opts)
	label := x.label(opts)

	var txns []model.Transaction
	var prevBalance *decimal.Decimal

	for _, raw := range splitLines(in.Text) {
		line := trimmed(raw)
		if line == "" {
			continue
		}
		if containsAnyFold(line, checkingNoise) {
			sink.Emit(Event{Kind: EventNoiseSkipped, Line: line})
			continue
		}

		m := industrialCheckingLine.FindStringSubmatch(line)
		if m == nil {
			sink.Emit(Event{Kind: EventLineUnmatched, Line: line})
			continue
		}

		date, err := parseStatementDate(m[1])
		if err != nil {
			sink.Emit(Event{Kind: EventBadNumber, Line: line, Detail: err.Error()})
			continue
		}
		amount, err := parseMoney(m[4])
		if err != nil {
			sink.Emit(Event{Kind: EventBadNumber, Line: line, Detail: err.Error()})
			continue
		}
		balance, err := parseMoney(m[5])
		if err != nil {
			sink.Emit(Event{Kind: EventBadNumber, Line: line, Detail: err.Error()})
			continue
		}

		txns = append(txns, model.Transaction{
			Date:                date,
			Description:         trimmed(m[3]),
			OriginalDescription: trimmed(m[3]),
			Amount:              amount,
			Type:                inferDirection(sink, line, prevBalance, balance),
			AccountName:         label,
			OriginalCurrency:    model.CurrencyGTQ,
			OriginalValue:       amount,
		})
		b := balance
		prevBalance = &b
	}

	return txns, nil
}

// inferDirection classifies a row by the sign of the balance change. The
// first row has no previous balance and is assumed to be a credit.
func inferDirection(sink Sink, line string, prev *decimal.Decimal, balance decimal.Decimal) model.TransactionType {
	if prev == nil {
		sink.Emit(Event{Kind: EventDirectionDefaulted, Line: line})
		return model.TypeCredit
	}
	if balance.Sub(*prev).Sign() > 0 {
		return model.TypeCredit
	}
	return model.TypeDebit
}
