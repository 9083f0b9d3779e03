// internal/repository/listing_repo.go
package repository

import (
	"context"

	"auction-listings/internal/domain"
)

// ListingFilter narrows ListListings. Zero value matches every listing.
type ListingFilter struct {
	ActiveOnly bool
	CategoryID *int64
	WatcherID  *int64
}

// ListingRepository defines the interface for listing data operations.
type ListingRepository interface {
	CreateListing(ctx context.Context, q DBExecutor, listing *domain.Listing) error
	GetListingByID(ctx context.Context, q DBExecutor, id int64) (*domain.Listing, error)
	// GetListingForUpdate reads the listing and locks its row until the transaction ends.
	// q must be a transaction.
	GetListingForUpdate(ctx context.Context, q DBExecutor, id int64) (*domain.Listing, error)
	SetListingActive(ctx context.Context, q DBExecutor, id int64, active bool) error
	// DeleteListing removes the listing; bids, comments and watches cascade.
	DeleteListing(ctx context.Context, q DBExecutor, id int64) error
	// ListListings returns matching listings with their current price, newest first.
	ListListings(ctx context.Context, q DBExecutor, filter ListingFilter) ([]domain.ListingSummary, error)
}
