package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castmind/quetzal/internal/common"
	"github.com/castmind/quetzal/internal/model"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testTransaction(description string, amount string) model.Transaction {
	txn := model.Transaction{
		Date:                time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC),
		Description:         description,
		OriginalDescription: description,
		Amount:              decimal.RequireFromString(amount),
		OriginalValue:       decimal.RequireFromString(amount),
		Type:                model.TypeDebit,
		AccountName:         "Industrial GTQ",
		OriginalCurrency:    model.CurrencyGTQ,
	}
	txn.ID = txn.GenerateHash()
	return txn
}

func TestNewSQLiteStorage_MigratesFreshDatabase(t *testing.T) {
	s := newTestStorage(t)

	version, err := s.schemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)

	// Running migrations again is a no-op.
	require.NoError(t, s.Migrate(context.Background()))
}

func TestSaveTransactions_DeduplicatesByHash(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	txns := []model.Transaction{
		testTransaction("SUPERMERCADO LA TORRE", "350.25"),
		testTransaction("NETFLIX ENTRETENIMIENTO", "124.72"),
	}

	inserted, err := s.SaveTransactions(ctx, txns)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	// Importing the same statement again inserts nothing.
	inserted, err = s.SaveTransactions(ctx, txns)
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)

	stored, err := s.GetTransactions(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestSaveTransactions_RoundTripsDecimals(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	txn := testTransaction("AMAZON MKTPLACE", "202.72")
	txn.OriginalCurrency = model.CurrencyUSD
	txn.OriginalValue = decimal.RequireFromString("25.99")
	txn.ID = txn.GenerateHash()

	_, err := s.SaveTransactions(ctx, []model.Transaction{txn})
	require.NoError(t, err)

	stored, err := s.GetTransaction(ctx, txn.ID)
	require.NoError(t, err)
	assert.True(t, stored.Amount.Equal(txn.Amount))
	assert.True(t, stored.OriginalValue.Equal(txn.OriginalValue))
	assert.Equal(t, model.CurrencyUSD, stored.OriginalCurrency)
}

func TestGetTransactionsByAccount(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	industrial := testTransaction("COMPRA UNO", "10.00")
	bam := testTransaction("COMPRA DOS", "20.00")
	bam.AccountName = "BAM Credit Card"
	bam.ID = bam.GenerateHash()

	_, err := s.SaveTransactions(ctx, []model.Transaction{industrial, bam})
	require.NoError(t, err)

	txns, err := s.GetTransactionsByAccount(ctx, "BAM Credit Card")
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "COMPRA DOS", txns[0].Description)
}

func TestUpdateClassifications_RespectsManualLatch(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	auto := testTransaction("SUPERMERCADO LA TORRE", "350.25")
	manual := testTransaction("REGALO CUMPLEANOS", "100.00")

	_, err := s.SaveTransactions(ctx, []model.Transaction{auto, manual})
	require.NoError(t, err)
	require.NoError(t, s.SetManualCategory(ctx, manual.ID, "Gifts"))

	auto.Category = "Groceries"
	auto.CategoryConfidence = 0.9
	auto.MerchantName = "La Torre"
	manual.Category = "Wrong"
	manual.CategoryConfidence = 0.5
	manual.MerchantName = "Someone"

	require.NoError(t, s.UpdateClassifications(ctx, []model.Transaction{auto, manual}))

	stored, err := s.GetTransaction(ctx, auto.ID)
	require.NoError(t, err)
	assert.Equal(t, "Groceries", stored.Category)
	assert.Equal(t, 0.9, stored.CategoryConfidence)
	assert.Equal(t, "La Torre", stored.MerchantName)

	latched, err := s.GetTransaction(ctx, manual.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gifts", latched.Category)
	assert.True(t, latched.ManuallyCategorized)
	// Merchant normalization still applies to manual rows.
	assert.Equal(t, "Someone", latched.MerchantName)
}

func TestClearAutoCategories(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	auto := testTransaction("SUPERMERCADO LA TORRE", "350.25")
	auto.Category = "Groceries"
	auto.CategoryConfidence = 0.9
	manual := testTransaction("REGALO CUMPLEANOS", "100.00")

	_, err := s.SaveTransactions(ctx, []model.Transaction{auto, manual})
	require.NoError(t, err)
	require.NoError(t, s.SetManualCategory(ctx, manual.ID, "Gifts"))

	cleared, err := s.ClearAutoCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cleared)

	stored, err := s.GetTransaction(ctx, auto.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Category)

	latched, err := s.GetTransaction(ctx, manual.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gifts", latched.Category)
}

func TestSetManualCategory_UnknownTransaction(t *testing.T) {
	s := newTestStorage(t)

	err := s.SetManualCategory(context.Background(), "missing", "Gifts")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestPatterns_EvaluationOrder(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	for _, p := range []model.Pattern{
		{Text: "torre", Target: "Groceries", MatchType: model.MatchContains, Confidence: 0.5, IsActive: true},
		{Text: "supermercado la torre", Target: "Supermarket", MatchType: model.MatchContains, Confidence: 0.9, IsActive: true},
		{Text: "paiz", Target: "Groceries", MatchType: model.MatchContains, Confidence: 0.9, IsActive: true},
	} {
		p := p
		_, err := s.CreateCategoryPattern(ctx, &p)
		require.NoError(t, err)
	}

	inactive := model.Pattern{Text: "old", Target: "Old", MatchType: model.MatchExact, Confidence: 1.0, IsActive: true}
	id, err := s.CreateCategoryPattern(ctx, &inactive)
	require.NoError(t, err)
	require.NoError(t, s.DeactivateCategoryPattern(ctx, id))

	patterns, err := s.GetActiveCategoryPatterns(ctx)
	require.NoError(t, err)
	require.Len(t, patterns, 3)

	assert.Equal(t, "Supermarket", patterns[0].Target)
	assert.Equal(t, "Groceries", patterns[1].Target)
	assert.Equal(t, "paiz", patterns[1].Text)
	assert.Equal(t, "torre", patterns[2].Text)
}

func TestPatterns_TablesAreIndependent(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.CreateCategoryPattern(ctx, &model.Pattern{
		Text: "uber", Target: "Transport", MatchType: model.MatchContains, Confidence: 0.8, IsActive: true,
	})
	require.NoError(t, err)

	merchants, err := s.GetActiveMerchantPatterns(ctx)
	require.NoError(t, err)
	assert.Empty(t, merchants)
}

func TestCreatePattern_RejectsInvalid(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.CreateCategoryPattern(context.Background(), &model.Pattern{
		Text: "uber", Target: "Transport", MatchType: "fuzzy", Confidence: 0.8, IsActive: true,
	})
	assert.Error(t, err)
}

func TestCategories_CRUD(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	id, err := s.CreateCategory(ctx, &model.Category{Name: "Groceries", Color: "#00ff00", IsActive: true})
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	_, err = s.CreateCategory(ctx, &model.Category{Name: "Groceries", IsActive: true})
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)

	category, err := s.GetCategoryByName(ctx, "Groceries")
	require.NoError(t, err)
	assert.Equal(t, id, category.ID)

	_, err = s.GetCategoryByName(ctx, "Missing")
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, s.DeactivateCategory(ctx, id))
	categories, err := s.GetCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, categories)
}
