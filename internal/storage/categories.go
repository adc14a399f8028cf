package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/castmind/quetzal/internal/common"
	"github.com/castmind/quetzal/internal/model"
)

// CreateCategory inserts a category and returns its ID.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, category *model.Category) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if category == nil {
		return 0, fmt.Errorf("%w: category", ErrNilParameter)
	}
	if err := validateString(category.Name, "category name"); err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (name, color, parent_id, is_active)
		VALUES (?, ?, ?, ?)
	`, category.Name, category.Color, category.ParentID, category.IsActive)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return 0, fmt.Errorf("%w: category %s", common.ErrDuplicateEntry, category.Name)
		}
		return 0, fmt.Errorf("failed to create category: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read category ID: %w", err)
	}
	return id, nil
}

// GetCategories returns all active categories ordered by name.
func (s *SQLiteStorage) GetCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, color, parent_id, is_active, created_at
		FROM categories WHERE is_active = 1 ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Color, &c.ParentID, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return categories, nil
}

// GetCategoryByName looks up one category by its exact name.
func (s *SQLiteStorage) GetCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	var c model.Category
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, color, parent_id, is_active, created_at
		FROM categories WHERE name = ?
	`, name).Scan(&c.ID, &c.Name, &c.Color, &c.ParentID, &c.IsActive, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: category %s", common.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	return &c, nil
}

// DeactivateCategory soft-deletes a category.
func (s *SQLiteStorage) DeactivateCategory(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `UPDATE categories SET is_active = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: category %d", common.ErrNotFound, id)
	}
	return nil
}
