package storage

import (
	"context"
	"fmt"

	"github.com/castmind/quetzal/internal/common"
	"github.com/castmind/quetzal/internal/model"
)

// The two pattern tables share one shape; table names are fixed here and
// never taken from callers.
const (
	categoryPatternTable = "category_patterns"
	merchantPatternTable = "merchant_patterns"
)

// CreateCategoryPattern inserts a category classification rule.
func (s *SQLiteStorage) CreateCategoryPattern(ctx context.Context, p *model.Pattern) (int64, error) {
	return s.createPattern(ctx, categoryPatternTable, p)
}

// CreateMerchantPattern inserts a merchant normalization rule.
func (s *SQLiteStorage) CreateMerchantPattern(ctx context.Context, p *model.Pattern) (int64, error) {
	return s.createPattern(ctx, merchantPatternTable, p)
}

// GetActiveCategoryPatterns returns active category rules in evaluation
// order: confidence descending, ID ascending.
func (s *SQLiteStorage) GetActiveCategoryPatterns(ctx context.Context) ([]model.Pattern, error) {
	return s.getActivePatterns(ctx, categoryPatternTable)
}

// GetActiveMerchantPatterns returns active merchant rules in evaluation
// order.
func (s *SQLiteStorage) GetActiveMerchantPatterns(ctx context.Context) ([]model.Pattern, error) {
	return s.getActivePatterns(ctx, merchantPatternTable)
}

// DeactivateCategoryPattern soft-deletes a category rule.
func (s *SQLiteStorage) DeactivateCategoryPattern(ctx context.Context, id int64) error {
	return s.deactivatePattern(ctx, categoryPatternTable, id)
}

// DeactivateMerchantPattern soft-deletes a merchant rule.
func (s *SQLiteStorage) DeactivateMerchantPattern(ctx context.Context, id int64) error {
	return s.deactivatePattern(ctx, merchantPatternTable, id)
}

func (s *SQLiteStorage) createPattern(ctx context.Context, table string, p *model.Pattern) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validatePattern(p); err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO `+table+` (text, target, match_type, confidence, is_active)
		VALUES (?, ?, ?, ?, ?)
	`, p.Text, p.Target, string(p.MatchType), p.Confidence, p.IsActive)
	if err != nil {
		return 0, fmt.Errorf("failed to create pattern: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read pattern ID: %w", err)
	}
	return id, nil
}

func (s *SQLiteStorage) getActivePatterns(ctx context.Context, table string) ([]model.Pattern, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, text, target, match_type, confidence, is_active, created_at
		FROM `+table+` WHERE is_active = 1
		ORDER BY confidence DESC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query patterns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var patterns []model.Pattern
	for rows.Next() {
		var p model.Pattern
		var matchType string
		if err := rows.Scan(&p.ID, &p.Text, &p.Target, &matchType, &p.Confidence, &p.IsActive, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pattern: %w", err)
		}
		p.MatchType = model.MatchType(matchType)
		patterns = append(patterns, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate patterns: %w", err)
	}
	return patterns, nil
}

func (s *SQLiteStorage) deactivatePattern(ctx context.Context, table string, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `UPDATE `+table+` SET is_active = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate pattern: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: pattern %d", common.ErrNotFound, id)
	}
	return nil
}
