package extract

import (
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/castmind/quetzal/internal/model"
)

// The USD checking statement sometimes omits the document number, so the
// reference group is optional.
var industrialUSDCheckingLine = regexp.MustCompile(
	`^(\d{2}/\d{2}/\d{4})\s+(\d+)?\s*(.+?)\s+([\d,]+\.\d{2})\s+([\d,]+\.\d{2})$`)

// industrialUSDChecking extracts the USD checking statement. Amounts are
// converted to GTQ at the fixed rate; the USD figure is preserved as the
// original value. Direction inference works on the converted balances,
// which preserves the sign of every difference.
type industrialUSDChecking struct {
	base
}

func (x *industrialUSDChecking) Extract(in Input, opts Options) ([]model.Transaction, error) {
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

		m := industrialUSDCheckingLine.FindStringSubmatch(line)
		if m == nil {
			sink.Emit(Event{Kind: EventLineUnmatched, Line: line})
			continue
		}

		date, err := parseStatementDate(m[1])
		if err != nil {
			sink.Emit(Event{Kind: EventBadNumber, Line: line, Detail: err.Error()})
			continue
		}
		usdAmount, err := parseMoney(m[4])
		if err != nil {
			sink.Emit(Event{Kind: EventBadNumber, Line: line, Detail: err.Error()})
			continue
		}
		usdBalance, err := parseMoney(m[5])
		if err != nil {
			sink.Emit(Event{Kind: EventBadNumber, Line: line, Detail: err.Error()})
			continue
		}

		balance := x.toGTQ(usdBalance)
		txns = append(txns, model.Transaction{
			Date:                date,
			Description:         trimmed(m[3]),
			OriginalDescription: trimmed(m[3]),
			Amount:              x.toGTQ(usdAmount),
			Type:                inferDirection(sink, line, prevBalance, balance),
			AccountName:         label,
			OriginalCurrency:    model.CurrencyUSD,
			OriginalValue:       usdAmount,
		})
		b := balance
		prevBalance = &b
	}

	return txns, nil
}
