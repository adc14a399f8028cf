package model

import "fmt"

// Bank identifies the issuing bank of a statement.
type Bank string

// Supported banks.
const (
	BankIndustrial Bank = "industrial"
	BankBAM        Bank = "bam"
	BankGyT        Bank = "gyt"
)

// AccountType identifies the account variant within a bank.
type AccountType string

// Supported account types.
const (
	AccountChecking    AccountType = "checking"
	AccountUSDChecking AccountType = "usd_checking"
	AccountCredit      AccountType = "credit"
	AccountCreditUSD   AccountType = "credit_usd"
)

// SourceKind distinguishes the physical document type a statement arrived as.
type SourceKind string

// Source kinds.
const (
	SourcePDF SourceKind = "pdf"
	SourceCSV SourceKind = "csv"
)

// Format is a (bank, account type, source) triple naming one statement
// layout. The set of supported formats is closed; the extract registry
// enumerates it.
type Format struct {
	Bank    Bank
	Account AccountType
	Source  SourceKind
}

// Key returns the configuration key for this format's bank and account,
// e.g. "industrial.checking". The source kind does not change the account
// label, so it is not part of the key.
func (f Format) Key() string {
	return fmt.Sprintf("%s.%s", f.Bank, f.Account)
}

func (f Format) String() string {
	return fmt.Sprintf("%s/%s (%s)", f.Bank, f.Account, f.Source)
}
