// internal/repository/watch_repo.go
package repository

import (
	"context"

	"auction-listings/internal/domain"
)

// WatchRepository manages the user/listing watchlist relation.
type WatchRepository interface {
	// AddWatch inserts the pair; an existing pair is left untouched.
	AddWatch(ctx context.Context, q DBExecutor, watch *domain.Watch) error
	// RemoveWatch deletes the pair; a missing pair is not an error.
	RemoveWatch(ctx context.Context, q DBExecutor, userID, listingID int64) error
	// IsWatching reports whether the user watches the listing.
	IsWatching(ctx context.Context, q DBExecutor, userID, listingID int64) (bool, error)
}
