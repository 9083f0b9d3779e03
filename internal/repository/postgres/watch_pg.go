// internal/repository/postgres/watch_pg.go
package postgres

import (
	"context"
	"fmt"

	"auction-listings/internal/domain"
	"auction-listings/internal/repository"
)

// WatchRepository implements repository.WatchRepository for PostgreSQL.
type WatchRepository struct{}

// NewWatchRepository creates a new WatchRepository.
func NewWatchRepository() repository.WatchRepository {
	return &WatchRepository{}
}

// AddWatch inserts the (user, listing) pair. The primary key makes repeats a no-op.
func (r *WatchRepository) AddWatch(ctx context.Context, q repository.DBExecutor, watch *domain.Watch) error {
	query := `INSERT INTO watches (user_id, listing_id, created_at) VALUES ($1, $2, $3)
              ON CONFLICT (user_id, listing_id) DO NOTHING`
	if _, err := q.ExecContext(ctx, query, watch.UserID, watch.ListingID, watch.CreatedAt); err != nil {
		return fmt.Errorf("failed to add listing %d to watchlist of user %d: %w", watch.ListingID, watch.UserID, err)
	}
	return nil
}

// RemoveWatch deletes the pair if present.
func (r *WatchRepository) RemoveWatch(ctx context.Context, q repository.DBExecutor, userID, listingID int64) error {
	query := `DELETE FROM watches WHERE user_id = $1 AND listing_id = $2`
	if _, err := q.ExecContext(ctx, query, userID, listingID); err != nil {
		return fmt.Errorf("failed to remove listing %d from watchlist of user %d: %w", listingID, userID, err)
	}
	return nil
}

// IsWatching reports whether the pair exists.
func (r *WatchRepository) IsWatching(ctx context.Context, q repository.DBExecutor, userID, listingID int64) (bool, error) {
	var watching bool
	query := `SELECT EXISTS (SELECT 1 FROM watches WHERE user_id = $1 AND listing_id = $2)`
	if err := q.GetContext(ctx, &watching, query, userID, listingID); err != nil {
		return false, fmt.Errorf("failed to check watchlist of user %d: %w", userID, err)
	}
	return watching, nil
}
