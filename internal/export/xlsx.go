package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/castmind/quetzal/internal/model"
)

const sheetName = "Transactions"

// WriteXLSX writes transactions to a spreadsheet workbook with a single
// Transactions sheet, mirroring the CSV schema. Dates are written as raw
// serial numbers to match what the import side expects.
func WriteXLSX(w io.Writer, txns []model.Transaction) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}

	withOriginal := hasForeignCurrency(txns)
	header := make([]any, 0, len(baseColumns)+len(originalColumns))
	for _, c := range baseColumns {
		header = append(header, c)
	}
	if withOriginal {
		for _, c := range originalColumns {
			header = append(header, c)
		}
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i := range txns {
		txn := &txns[i]
		row := []any{
			ExcelSerial(txn.Date),
			displayDescription(txn),
			txn.OriginalDescription,
			txn.Amount.StringFixed(2),
			string(txn.Type),
			txn.Category,
			txn.AccountName,
			"", // Labels
			"", // Notes
		}
		if withOriginal {
			row = append(row, txn.OriginalValue.StringFixed(2), txn.OriginalCurrency)
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("computing cell: %w", err)
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
