// internal/repository/postgres/category_pg.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"auction-listings/internal/domain"
	"auction-listings/internal/repository"
	"auction-listings/internal/util"
)

// CategoryRepository implements repository.CategoryRepository for PostgreSQL.
type CategoryRepository struct{}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository() repository.CategoryRepository {
	return &CategoryRepository{}
}

// GetOrCreateCategory upserts by the unique name so concurrent callers converge on one row.
// The no-op update makes RETURNING yield the existing row on conflict.
func (r *CategoryRepository) GetOrCreateCategory(ctx context.Context, q repository.DBExecutor, name string) (*domain.Category, error) {
	var category domain.Category
	query := `INSERT INTO categories (name) VALUES ($1)
              ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
              RETURNING id, name`
	if err := q.GetContext(ctx, &category, query, name); err != nil {
		return nil, fmt.Errorf("failed to get or create category '%s': %w", name, err)
	}
	return &category, nil
}

func (r *CategoryRepository) GetCategoryByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Category, error) {
	var category domain.Category
	query := `SELECT id, name FROM categories WHERE id = $1`
	err := q.GetContext(ctx, &category, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category by ID %d: %w", id, err)
	}
	return &category, nil
}

func (r *CategoryRepository) ListCategories(ctx context.Context, q repository.DBExecutor) ([]domain.Category, error) {
	categories := []domain.Category{}
	query := `SELECT id, name FROM categories ORDER BY name`
	if err := q.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}
