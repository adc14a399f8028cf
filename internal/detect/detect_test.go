package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/castmind/quetzal/internal/model"
)

func TestDetectPDF_FilenameWinsOverContent(t *testing.T) {
	// Content says credit card; the curated filename says checking and must win.
	content := "BANCO INDUSTRIAL\nESTADO DE CUENTA TARJETA DE CREDITO\n"
	f, ok := DetectPDF("2025-10 BI Checking GTQ.pdf", content)
	assert.True(t, ok)
	assert.Equal(t, model.BankIndustrial, f.Bank)
	assert.Equal(t, model.AccountChecking, f.Account)
	assert.Equal(t, model.SourcePDF, f.Source)
}

func TestDetectPDF_ContentFallback(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantBank    model.Bank
		wantAccount model.AccountType
		wantOK      bool
	}{
		{
			name:        "industrial checking GTQ",
			content:     "BANCO INDUSTRIAL S.A.\nCUENTA CORRIENTE\nQ. 1,000.00",
			wantBank:    model.BankIndustrial,
			wantAccount: model.AccountChecking,
			wantOK:      true,
		},
		{
			name:        "industrial checking USD via dollar sign",
			content:     "BANCO INDUSTRIAL\nCUENTA CORRIENTE\n$. 1,000.00",
			wantBank:    model.BankIndustrial,
			wantAccount: model.AccountUSDChecking,
			wantOK:      true,
		},
		{
			name:        "industrial credit defaults to GTQ without currency signal",
			content:     "BANCO INDUSTRIAL\nTARJETA DE CREDITO\nSALDO ANTERIOR",
			wantBank:    model.BankIndustrial,
			wantAccount: model.AccountCredit,
			wantOK:      true,
		},
		{
			name:        "industrial credit USD via keyword",
			content:     "BANCO INDUSTRIAL\nTARJETA DE CREDITO EN DOLAR",
			wantBank:    model.BankIndustrial,
			wantAccount: model.AccountCreditUSD,
			wantOK:      true,
		},
		{
			name:        "BAM credit via bank name variant",
			content:     "BANCO AGROMERCANTIL DE GUATEMALA\nTARJETA VISA",
			wantBank:    model.BankBAM,
			wantAccount: model.AccountCredit,
			wantOK:      true,
		},
		{
			name:        "GyT credit via g&t variant",
			content:     "BANCO G&T CONTINENTAL\nTARJETA DE CREDITO",
			wantBank:    model.BankGyT,
			wantAccount: model.AccountCredit,
			wantOK:      true,
		},
		{
			name:    "bank matched but no account keyword is unknown",
			content: "BANCO INDUSTRIAL S.A.\nRESUMEN GENERAL",
			wantOK:  false,
		},
		{
			name:    "nothing recognizable is unknown, never a guess",
			content: "FACTURA ELECTRONICA\nTOTAL: 100",
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := DetectPDF("estado_2025.pdf", tt.content)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantBank, f.Bank)
				assert.Equal(t, tt.wantAccount, f.Account)
			}
		})
	}
}

func TestDetectCSV_RequiresStructuralKeywords(t *testing.T) {
	valid := "Estado de Cuenta\nDel 01/10/2025 al 31/10/2025\nFecha,TT,No. Doc,Descripción,Debe (Q.),Haber (Q.),Saldo (Q.)\n"

	f, ok := DetectCSV("export.csv", valid)
	assert.True(t, ok)
	assert.Equal(t, model.BankIndustrial, f.Bank)
	assert.Equal(t, model.AccountChecking, f.Account)
	assert.Equal(t, model.SourceCSV, f.Source)

	// Missing the TT column keyword: not recognized.
	_, ok = DetectCSV("export.csv", "Fecha,No. Doc,Descripción,Debe,Haber\n")
	assert.False(t, ok)
}

func TestDetectCSV_CurrencyFromColumnSuffix(t *testing.T) {
	usd := "Fecha,TT,No. Doc,Descripción,Debe (USD),Haber (USD),Saldo (USD)\n"
	f, ok := DetectCSV("export.csv", usd)
	assert.True(t, ok)
	assert.Equal(t, model.AccountUSDChecking, f.Account)
}

func TestDetectCSV_FilenameWins(t *testing.T) {
	f, ok := DetectCSV("BI Checking USD octubre.csv", "Fecha,TT,Debe (Q.),Haber (Q.),Saldo (Q.)\n")
	assert.True(t, ok)
	assert.Equal(t, model.AccountUSDChecking, f.Account)
}
