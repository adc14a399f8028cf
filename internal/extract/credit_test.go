package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castmind/quetzal/internal/common"
	"github.com/castmind/quetzal/internal/model"
)

const industrialCreditStatement = `ESTADO DE CUENTA TARJETA DE CREDITO
NOMBRE DEL TARJETAHABIENTE
01/09/2025 CONSUMO 1 FILA ANTES DEL ENCABEZADO Q. 99.00 Q. 99.00
FECHA TIPO DE MOVMIENTO REFERENCIA COMERCIO MONTO SALDO
05/10/2025 CONSUMO 789 SUPERMERCADO PAIZ Q. 250.00 Q. 1,250.00
08/10/2025 DEBITO 790 CARGO POR MEMBRESIA Q. 150.00 Q. 1,400.00
10/10/2025 PAGO 791 BANCA VIRTUAL Q. 1,000.00 Q. 400.00
FAVOR DE REVISAR SU ESTADO DE CUENTA
`

func TestIndustrialCredit_CodeTable(t *testing.T) {
	r := NewRegistry(testExtraction())
	rec := &Recorder{}

	txns, err := r.Extract(pdfFormat(model.BankIndustrial, model.AccountCredit),
		Input{Text: industrialCreditStatement}, Options{Diagnostics: rec})
	require.NoError(t, err)
	require.Len(t, txns, 3)

	assert.Equal(t, model.TypeDebit, txns[0].Type)
	assert.Equal(t, "SUPERMERCADO PAIZ", txns[0].Description)
	assert.Equal(t, model.TypeDebit, txns[1].Type)
	assert.Equal(t, model.TypeCredit, txns[2].Type)
	assert.Equal(t, "1000", txns[2].Amount.String())

	for _, txn := range txns {
		assert.Equal(t, "BI Credit GTQ", txn.AccountName)
		assert.Equal(t, model.CurrencyGTQ, txn.OriginalCurrency)
		assert.True(t, txn.Amount.Equal(txn.OriginalValue))
	}

	// Only the footer is reported; pre-header lines are dropped silently.
	assert.Equal(t, 1, rec.Count(EventNoiseSkipped))
}

func TestIndustrialCredit_UnknownCodeAborts(t *testing.T) {
	r := NewRegistry(testExtraction())

	text := `FECHA TIPO DE MOVMIENTO REFERENCIA COMERCIO
05/10/2025 CONSUMO 789 SUPERMERCADO PAIZ Q. 250.00 Q. 1,250.00
15/10/2025 EXTORNO 791 AJUSTE POR RECLAMO Q. 10.00 Q. 1,240.00
`
	_, err := r.Extract(pdfFormat(model.BankIndustrial, model.AccountCredit),
		Input{Text: text}, Options{})

	var unknownErr *common.UnknownCodeError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, []string{"EXTORNO"}, unknownErr.Codes)
}

func TestIndustrialCreditUSD_ConvertsAmounts(t *testing.T) {
	r := NewRegistry(testExtraction())

	text := `FECHA TIPO DE MOVMIENTO REFERENCIA COMERCIO
05/10/2025 CONSUMO 789 AMAZON MKTPLACE $. 25.99 $. 125.99
10/10/2025 PAGO 790 BANCA VIRTUAL $. 100.00 $. 25.99
`
	txns, err := r.Extract(pdfFormat(model.BankIndustrial, model.AccountCreditUSD),
		Input{Text: text}, Options{})
	require.NoError(t, err)
	require.Len(t, txns, 2)

	assert.Equal(t, "202.72", txns[0].Amount.StringFixed(2))
	assert.Equal(t, "25.99", txns[0].OriginalValue.StringFixed(2))
	assert.Equal(t, model.CurrencyUSD, txns[0].OriginalCurrency)
	assert.Equal(t, "780.00", txns[1].Amount.StringFixed(2))
	assert.Equal(t, "BI 1116 USD", txns[0].AccountName)
}

func TestBAMCredit_ColumnsAndCurrencies(t *testing.T) {
	r := NewRegistry(testExtraction())
	rec := &Recorder{}

	text := `01/10/2025 02/10/2025 | RESTAURANTE KACAO Q.185.50
05/10/2025 06/10/2025 AMAZON MKTPLACE $.25.99
10/10/2025 10/10/2025 PAGO RECIBIDO Q.0.00 Q.2,000.00
12/10/2025 12/10/2025 NOTA INFORMATIVA Q.0.00
15/10/2025 15/10/2025 ****SUBTOTAL Q.211.49
`
	txns, err := r.Extract(pdfFormat(model.BankBAM, model.AccountCredit),
		Input{Text: text}, Options{Diagnostics: rec})
	require.NoError(t, err)
	require.Len(t, txns, 3)

	assert.Equal(t, model.TypeDebit, txns[0].Type)
	assert.Equal(t, "185.5", txns[0].Amount.String())
	assert.Equal(t, "RESTAURANTE KACAO", txns[0].Description)

	assert.Equal(t, "202.72", txns[1].Amount.StringFixed(2))
	assert.Equal(t, model.CurrencyUSD, txns[1].OriginalCurrency)

	assert.Equal(t, model.TypeCredit, txns[2].Type)
	assert.Equal(t, "2000", txns[2].Amount.String())
	assert.Equal(t, "BAM Credit Card", txns[2].AccountName)

	assert.Equal(t, 1, rec.Count(EventRowSkipped))
	assert.Equal(t, 1, rec.Count(EventNoiseSkipped))
}

func TestGyTCredit_SignedCurrencyTokens(t *testing.T) {
	r := NewRegistry(testExtraction())

	text := `01/10/2025 REF123 SUPERMERCADO LA TORRE -QTZ 450.00
05/10/2025 ABC99 PAGO BANCA VIRTUAL QTZ 1,500.00
07/10/2025 X12 NETFLIX ENTRETENIMIENTO -DOL 15.99
`
	txns, err := r.Extract(pdfFormat(model.BankGyT, model.AccountCredit),
		Input{Text: text}, Options{})
	require.NoError(t, err)
	require.Len(t, txns, 3)

	assert.Equal(t, model.TypeDebit, txns[0].Type)
	assert.Equal(t, "450", txns[0].Amount.String())
	assert.False(t, txns[0].Amount.IsNegative())

	assert.Equal(t, model.TypeCredit, txns[1].Type)
	assert.Equal(t, "1500", txns[1].Amount.String())

	assert.Equal(t, model.TypeDebit, txns[2].Type)
	assert.Equal(t, "124.72", txns[2].Amount.StringFixed(2))
	assert.Equal(t, model.CurrencyUSD, txns[2].OriginalCurrency)
	assert.Equal(t, "15.99", txns[2].OriginalValue.StringFixed(2))
	assert.Equal(t, "GyT 5978", txns[2].AccountName)
}
