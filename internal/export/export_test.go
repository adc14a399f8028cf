package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/castmind/quetzal/internal/model"
)

func TestExcelSerial(t *testing.T) {
	tests := []struct {
		date time.Time
		want int
	}{
		{time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC), 2},
		{time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC), 45931},
		{time.Date(2025, time.October, 2, 15, 30, 0, 0, time.UTC), 45932},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExcelSerial(tt.date), tt.date.String())
	}
}

func exportFixture() []model.Transaction {
	return []model.Transaction{
		{
			Date:                time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC),
			Description:         "SUPERMERCADO LA TORRE #4",
			OriginalDescription: "SUPERMERCADO LA TORRE #4",
			MerchantName:        "La Torre",
			Amount:              decimal.RequireFromString("350.25"),
			OriginalValue:       decimal.RequireFromString("350.25"),
			Type:                model.TypeDebit,
			Category:            "Groceries",
			AccountName:         "Industrial GTQ",
			OriginalCurrency:    model.CurrencyGTQ,
		},
		{
			Date:                time.Date(2025, time.October, 5, 0, 0, 0, 0, time.UTC),
			Description:         "DEPOSITO NOMINA",
			OriginalDescription: "DEPOSITO NOMINA",
			Amount:              decimal.RequireFromString("5000.00"),
			OriginalValue:       decimal.RequireFromString("5000.00"),
			Type:                model.TypeCredit,
			Category:            "Income",
			AccountName:         "Industrial GTQ",
			OriginalCurrency:    model.CurrencyGTQ,
		},
	}
}

func TestWriteCSV_BaseSchema(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, exportFixture()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t,
		"Date,Description,Original Description,Amount,Transaction Type,Category,Account Name,Labels,Notes",
		lines[0])
	assert.Equal(t,
		"45931,La Torre,SUPERMERCADO LA TORRE #4,350.25,debit,Groceries,Industrial GTQ,,",
		lines[1])
	assert.Equal(t,
		"45935,DEPOSITO NOMINA,DEPOSITO NOMINA,5000.00,credit,Income,Industrial GTQ,,",
		lines[2])
}

func TestWriteCSV_ForeignCurrencyAddsColumns(t *testing.T) {
	txns := exportFixture()
	txns = append(txns, model.Transaction{
		Date:                time.Date(2025, time.October, 7, 0, 0, 0, 0, time.UTC),
		Description:         "NETFLIX ENTRETENIMIENTO",
		OriginalDescription: "NETFLIX ENTRETENIMIENTO",
		Amount:              decimal.RequireFromString("124.72"),
		OriginalValue:       decimal.RequireFromString("15.99"),
		Type:                model.TypeDebit,
		AccountName:         "GyT 5978",
		OriginalCurrency:    model.CurrencyUSD,
	})

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, txns))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)

	assert.True(t, strings.HasSuffix(lines[0], ",Original Value,Original Currency"))
	// GTQ rows in a mixed export still fill the extended columns.
	assert.True(t, strings.HasSuffix(lines[1], ",350.25,GTQ"))
	assert.True(t, strings.HasSuffix(lines[3], ",15.99,USD"))
}

func TestWriteXLSX_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, exportFixture()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Transactions")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Date", rows[0][0])
	assert.Equal(t, "45931", rows[1][0])
	assert.Equal(t, "La Torre", rows[1][1])
	assert.Equal(t, "350.25", rows[1][3])
	assert.Equal(t, "credit", rows[2][4])
}
