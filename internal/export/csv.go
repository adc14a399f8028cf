package export

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/castmind/quetzal/internal/model"
)

type csvRow struct {
	Date                int    `csv:"Date"`
	Description         string `csv:"Description"`
	OriginalDescription string `csv:"Original Description"`
	Amount              string `csv:"Amount"`
	TransactionType     string `csv:"Transaction Type"`
	Category            string `csv:"Category"`
	AccountName         string `csv:"Account Name"`
	Labels              string `csv:"Labels"`
	Notes               string `csv:"Notes"`
}

type csvRowWithOriginal struct {
	Date                int    `csv:"Date"`
	Description         string `csv:"Description"`
	OriginalDescription string `csv:"Original Description"`
	Amount              string `csv:"Amount"`
	TransactionType     string `csv:"Transaction Type"`
	Category            string `csv:"Category"`
	AccountName         string `csv:"Account Name"`
	Labels              string `csv:"Labels"`
	Notes               string `csv:"Notes"`
	OriginalValue       string `csv:"Original Value"`
	OriginalCurrency    string `csv:"Original Currency"`
}

// WriteCSV writes transactions in the import schema. When any transaction
// carries a foreign original currency, the extended columns are included
// for every row.
func WriteCSV(w io.Writer, txns []model.Transaction) error {
	if hasForeignCurrency(txns) {
		rows := make([]csvRowWithOriginal, 0, len(txns))
		for i := range txns {
			base := newCSVRow(&txns[i])
			rows = append(rows, csvRowWithOriginal{
				Date:                base.Date,
				Description:         base.Description,
				OriginalDescription: base.OriginalDescription,
				Amount:              base.Amount,
				TransactionType:     base.TransactionType,
				Category:            base.Category,
				AccountName:         base.AccountName,
				OriginalValue:       txns[i].OriginalValue.StringFixed(2),
				OriginalCurrency:    txns[i].OriginalCurrency,
			})
		}
		if err := gocsv.Marshal(rows, w); err != nil {
			return fmt.Errorf("writing csv: %w", err)
		}
		return nil
	}

	rows := make([]csvRow, 0, len(txns))
	for i := range txns {
		rows = append(rows, newCSVRow(&txns[i]))
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

func newCSVRow(txn *model.Transaction) csvRow {
	return csvRow{
		Date:                ExcelSerial(txn.Date),
		Description:         displayDescription(txn),
		OriginalDescription: txn.OriginalDescription,
		Amount:              txn.Amount.StringFixed(2),
		TransactionType:     string(txn.Type),
		Category:            txn.Category,
		AccountName:         txn.AccountName,
	}
}
