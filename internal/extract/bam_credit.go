package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/castmind/quetzal/internal/model"
)

// bamCreditLine matches an OCR'd BAM credit card row: operation date,
// posting date, description, then a debit amount and an optional credit
// amount, each prefixed with its currency symbol. OCR sometimes inserts a
// pipe between the dates and the description.
var bamCreditLine = regexp.MustCompile(
	`^(\d{2}/\d{2}/\d{4})\s+(\d{2}/\d{2}/\d{4})\s*\|?\s*(.+?)\s+(?:([Q$])\.)([\d,]+\.\d{2})(?:\s+(?:[Q$]\.)([\d,]+\.\d{2}))?$`)

var bamNoise = []string{
	"subtotal",
	"****subtotal",
	"total",
	"saldo anterior",
	"saldo actual",
	"disponible",
}

// bamCredit extracts the BAM credit card statement. BAM only issues image
// PDFs, so the text this sees has been through OCR.
type bamCredit struct {
	base
}

func (x *bamCredit) Extract(in Input, opts Options) ([]model.Transaction, error) {
	sink := x.sink(opts)
	label := x.label(opts)

	var txns []model.Transaction
	for _, raw := range splitLines(in.Text) {
		line := trimmed(raw)
		if line == "" {
			continue
		}
		if containsAnyFold(line, bamNoise) {
			sink.Emit(Event{Kind: EventNoiseSkipped, Line: line})
			continue
		}

		m := bamCreditLine.FindStringSubmatch(line)
		if m == nil {
			sink.Emit(Event{Kind: EventLineUnmatched, Line: line})
			continue
		}

		desc := trimmed(m[3])
		if strings.Contains(strings.ToUpper(desc), "SUBTOTAL") {
			sink.Emit(Event{Kind: EventNoiseSkipped, Line: line})
			continue
		}

		date, err := parseStatementDate(m[1])
		if err != nil {
			sink.Emit(Event{Kind: EventBadNumber, Line: line, Detail: err.Error()})
			continue
		}
		debit, err := parseMoney(m[5])
		if err != nil {
			sink.Emit(Event{Kind: EventBadNumber, Line: line, Detail: err.Error()})
			continue
		}
		credit := decimal.Zero
		if m[6] != "" {
			credit, err = parseMoney(m[6])
			if err != nil {
				sink.Emit(Event{Kind: EventBadNumber, Line: line, Detail: err.Error()})
				continue
			}
		}

		var amount decimal.Decimal
		var typ model.TransactionType
		switch {
		case !credit.IsZero():
			amount, typ = credit, model.TypeCredit
		case !debit.IsZero():
			amount, typ = debit, model.TypeDebit
		default:
			// Zero-amount informational rows carry no movement.
			sink.Emit(Event{Kind: EventRowSkipped, Line: line, Detail: "zero amount"})
			continue
		}

		txn := model.Transaction{
			Date:                date,
			Description:         desc,
			OriginalDescription: desc,
			Amount:              amount,
			Type:                typ,
			AccountName:         label,
			OriginalCurrency:    model.CurrencyGTQ,
			OriginalValue:       amount,
		}
		if m[4] == "$" {
			txn.OriginalCurrency = model.CurrencyUSD
			txn.Amount = x.toGTQ(amount)
		}
		txns = append(txns, txn)
	}

	return txns, nil
}
