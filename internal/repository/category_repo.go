// internal/repository/category_repo.go
package repository

import (
	"context"

	"auction-listings/internal/domain"
)

// CategoryRepository defines the interface for category data operations.
type CategoryRepository interface {
	// GetOrCreateCategory returns the category with the given name, creating it if needed.
	GetOrCreateCategory(ctx context.Context, q DBExecutor, name string) (*domain.Category, error)
	GetCategoryByID(ctx context.Context, q DBExecutor, id int64) (*domain.Category, error)
	// ListCategories returns every category ordered by name.
	ListCategories(ctx context.Context, q DBExecutor) ([]domain.Category, error)
}
