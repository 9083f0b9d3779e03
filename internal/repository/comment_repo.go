// internal/repository/comment_repo.go
package repository

import (
	"context"

	"auction-listings/internal/domain"
)

// CommentRepository defines the interface for comment data operations.
type CommentRepository interface {
	CreateComment(ctx context.Context, q DBExecutor, comment *domain.Comment) error
	// GetCommentsByListingID returns all comments of a listing, newest first.
	GetCommentsByListingID(ctx context.Context, q DBExecutor, listingID int64) ([]domain.Comment, error)
}
