// Package export renders transactions in the spreadsheet import schema.
package export

import (
	"time"

	"github.com/castmind/quetzal/internal/model"
)

// Column order of the import schema. The two original-currency columns
// are appended only when the exported set contains foreign currency.
var (
	baseColumns = []string{
		"Date", "Description", "Original Description", "Amount",
		"Transaction Type", "Category", "Account Name", "Labels", "Notes",
	}
	originalColumns = []string{"Original Value", "Original Currency"}
)

var excelEpoch = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// ExcelSerial converts a date to the spreadsheet serial-number form: days
// since 1900-01-01 plus two, covering the epoch offset and the phantom
// leap day of 1900.
func ExcelSerial(t time.Time) int {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return int(day.Sub(excelEpoch)/(24*time.Hour)) + 2
}

// hasForeignCurrency reports whether any transaction originated outside
// GTQ, which switches the export to the extended schema.
func hasForeignCurrency(txns []model.Transaction) bool {
	for i := range txns {
		if txns[i].OriginalCurrency != model.CurrencyGTQ {
			return true
		}
	}
	return false
}

// displayDescription prefers the normalized merchant name when one has
// been assigned.
func displayDescription(txn *model.Transaction) string {
	if txn.MerchantName != "" {
		return txn.MerchantName
	}
	return txn.Description
}
