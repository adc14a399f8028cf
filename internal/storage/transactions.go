package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/castmind/quetzal/internal/common"
	"github.com/castmind/quetzal/internal/model"
)

const transactionColumns = `id, date, description, original_description, amount, type,
	account_name, original_currency, original_value, category,
	category_confidence, merchant_name, manually_categorized`

// SaveTransactions inserts transactions, silently skipping rows whose
// content hash is already present, and reports how many were new.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, transactions []model.Transaction) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateTransactions(transactions); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO transactions (`+transactionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	inserted := 0
	for i := range transactions {
		txn := &transactions[i]
		res, err := stmt.ExecContext(ctx,
			txn.ID, txn.Date, txn.Description, txn.OriginalDescription,
			txn.Amount.String(), string(txn.Type), txn.AccountName,
			txn.OriginalCurrency, txn.OriginalValue.String(),
			txn.Category, txn.CategoryConfidence, txn.MerchantName,
			txn.ManuallyCategorized,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to save transaction %s: %w", txn.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to read rows affected: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return inserted, nil
}

// GetTransactions returns all transactions ordered by date, then ID.
func (s *SQLiteStorage) GetTransactions(ctx context.Context) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryTransactions(ctx, `
		SELECT `+transactionColumns+` FROM transactions ORDER BY date, id
	`)
}

// GetTransactionsByAccount returns one account's transactions ordered by
// date, then ID.
func (s *SQLiteStorage) GetTransactionsByAccount(ctx context.Context, accountName string) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(accountName, "accountName"); err != nil {
		return nil, err
	}
	return s.queryTransactions(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE account_name = ? ORDER BY date, id
	`, accountName)
}

// GetTransaction returns one transaction by ID.
func (s *SQLiteStorage) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	txns, err := s.queryTransactions(ctx, `
		SELECT `+transactionColumns+` FROM transactions WHERE id = ?
	`, id)
	if err != nil {
		return nil, err
	}
	if len(txns) == 0 {
		return nil, fmt.Errorf("%w: transaction %s", common.ErrNotFound, id)
	}
	return &txns[0], nil
}

// UpdateClassifications writes the category, confidence, and merchant of
// each transaction back to the database. Rows that were manually
// categorized keep their category; only the merchant is updated for them.
func (s *SQLiteStorage) UpdateClassifications(ctx context.Context, transactions []model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if len(transactions) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	classify, err := tx.PrepareContext(ctx, `
		UPDATE transactions
		SET category = ?, category_confidence = ?, merchant_name = ?
		WHERE id = ? AND manually_categorized = 0
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = classify.Close() }()

	merchantOnly, err := tx.PrepareContext(ctx, `
		UPDATE transactions SET merchant_name = ?
		WHERE id = ? AND manually_categorized = 1
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = merchantOnly.Close() }()

	for i := range transactions {
		txn := &transactions[i]
		if _, err := classify.ExecContext(ctx,
			txn.Category, txn.CategoryConfidence, txn.MerchantName, txn.ID); err != nil {
			return fmt.Errorf("failed to update transaction %s: %w", txn.ID, err)
		}
		if _, err := merchantOnly.ExecContext(ctx, txn.MerchantName, txn.ID); err != nil {
			return fmt.Errorf("failed to update merchant for %s: %w", txn.ID, err)
		}
	}

	return tx.Commit()
}

// SetManualCategory assigns a category by hand and latches it against
// future automatic reclassification.
func (s *SQLiteStorage) SetManualCategory(ctx context.Context, id, category string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	if err := validateString(category, "category"); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE transactions
		SET category = ?, category_confidence = 1.0, manually_categorized = 1
		WHERE id = ?
	`, category, id)
	if err != nil {
		return fmt.Errorf("failed to set manual category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: transaction %s", common.ErrNotFound, id)
	}
	return nil
}

// ClearAutoCategories removes every automatically assigned category,
// leaving manual assignments in place. It reports how many rows changed.
func (s *SQLiteStorage) ClearAutoCategories(ctx context.Context) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE transactions
		SET category = '', category_confidence = 0
		WHERE manually_categorized = 0 AND category != ''
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear categories: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n, nil
}

func (s *SQLiteStorage) queryTransactions(ctx context.Context, query string, args ...any) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var txns []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txns, nil
}

func scanTransaction(rows *sql.Rows) (model.Transaction, error) {
	var (
		txn           model.Transaction
		date          time.Time
		amount        string
		txnType       string
		originalValue string
	)
	if err := rows.Scan(
		&txn.ID, &date, &txn.Description, &txn.OriginalDescription,
		&amount, &txnType, &txn.AccountName, &txn.OriginalCurrency,
		&originalValue, &txn.Category, &txn.CategoryConfidence,
		&txn.MerchantName, &txn.ManuallyCategorized,
	); err != nil {
		return model.Transaction{}, fmt.Errorf("failed to scan transaction: %w", err)
	}

	var err error
	txn.Date = date
	txn.Type = model.TransactionType(txnType)
	if txn.Amount, err = decimal.NewFromString(amount); err != nil {
		return model.Transaction{}, fmt.Errorf("corrupt amount for %s: %w", txn.ID, err)
	}
	if txn.OriginalValue, err = decimal.NewFromString(originalValue); err != nil {
		return model.Transaction{}, fmt.Errorf("corrupt original value for %s: %w", txn.ID, err)
	}
	return txn, nil
}
