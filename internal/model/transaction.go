// Package model defines the core domain types for the quetzal application.
package model

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates the direction of a transaction. Amounts are
// always non-negative; direction is carried here and nowhere else.
type TransactionType string

// Transaction direction constants.
const (
	TypeCredit TransactionType = "credit"
	TypeDebit  TransactionType = "debit"
)

// Currency codes used across the supported statement formats.
const (
	CurrencyGTQ = "GTQ"
	CurrencyUSD = "USD"
)

// Transaction is the canonical record extracted from one statement line or
// CSV row. Amount is always expressed in the settlement currency (GTQ)
// after conversion; the pre-conversion pair is kept for audit.
type Transaction struct {
	Date                time.Time
	ID                  string
	Description         string
	OriginalDescription string
	AccountName         string
	OriginalCurrency    string
	Category            string
	MerchantName        string
	Amount              decimal.Decimal
	OriginalValue       decimal.Decimal
	CategoryConfidence  float64
	Type                TransactionType
	ManuallyCategorized bool
}

// GenerateHash creates a stable identifier for duplicate detection across
// repeated imports of the same statement.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%s:%s:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Amount.StringFixed(2),
		t.Type,
		t.OriginalDescription,
		t.AccountName)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// Validate checks the invariants every extractor must uphold.
func (t *Transaction) Validate() error {
	if t.Date.IsZero() {
		return fmt.Errorf("transaction has no date")
	}
	if t.Amount.IsNegative() {
		return fmt.Errorf("transaction amount %s is negative", t.Amount)
	}
	if t.Type != TypeCredit && t.Type != TypeDebit {
		return fmt.Errorf("invalid transaction type %q", t.Type)
	}
	return nil
}
