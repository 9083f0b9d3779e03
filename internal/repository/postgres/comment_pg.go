// internal/repository/postgres/comment_pg.go
package postgres

import (
	"context"
	"fmt"

	"auction-listings/internal/domain"
	"auction-listings/internal/repository"
)

// CommentRepository implements repository.CommentRepository for PostgreSQL.
type CommentRepository struct{}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository() repository.CommentRepository {
	return &CommentRepository{}
}

func (r *CommentRepository) CreateComment(ctx context.Context, q repository.DBExecutor, comment *domain.Comment) error {
	query := `INSERT INTO comments (listing_id, user_id, content, created_at)
              VALUES ($1, $2, $3, $4) RETURNING id`
	err := q.QueryRowContext(ctx, query, comment.ListingID, comment.UserID, comment.Content, comment.CreatedAt).Scan(&comment.ID)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

func (r *CommentRepository) GetCommentsByListingID(ctx context.Context, q repository.DBExecutor, listingID int64) ([]domain.Comment, error) {
	comments := []domain.Comment{}
	query := `
		SELECT id, listing_id, user_id, content, created_at
		FROM comments
		WHERE listing_id = $1
		ORDER BY created_at DESC, id DESC`
	if err := q.SelectContext(ctx, &comments, query, listingID); err != nil {
		return nil, fmt.Errorf("failed to fetch comments for listing %d: %w", listingID, err)
	}
	return comments, nil
}
