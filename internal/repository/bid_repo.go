// internal/repository/bid_repo.go
package repository

import (
	"context"

	"auction-listings/internal/domain"
)

// BidRepository defines the interface for bid data operations. Bids are append-only.
type BidRepository interface {
	CreateBid(ctx context.Context, q DBExecutor, bid *domain.Bid) error
	// GetHighestBid returns the top bid of a listing, or nil without error when it has none.
	GetHighestBid(ctx context.Context, q DBExecutor, listingID int64) (*domain.Bid, error)
	// GetBidsByListingID returns all bids of a listing, newest first.
	GetBidsByListingID(ctx context.Context, q DBExecutor, listingID int64) ([]domain.Bid, error)
}
