// internal/repository/postgres/bid_pg.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"auction-listings/internal/domain"
	"auction-listings/internal/repository"
)

// BidRepository implements repository.BidRepository for PostgreSQL.
type BidRepository struct{}

// NewBidRepository creates a new BidRepository.
func NewBidRepository() repository.BidRepository {
	return &BidRepository{}
}

// CreateBid inserts a new bid record into the database using the provided DBExecutor.
func (r *BidRepository) CreateBid(ctx context.Context, q repository.DBExecutor, bid *domain.Bid) error {
	query := `INSERT INTO bids (listing_id, user_id, amount, created_at)
              VALUES ($1, $2, $3, $4) RETURNING id`
	err := q.QueryRowContext(ctx, query, bid.ListingID, bid.UserID, bid.Amount, bid.CreatedAt).Scan(&bid.ID)
	if err != nil {
		return fmt.Errorf("failed to create bid: %w", err)
	}
	return nil
}

// GetHighestBid returns the top bid of a listing: highest amount, latest among equals.
// A listing without bids yields (nil, nil).
func (r *BidRepository) GetHighestBid(ctx context.Context, q repository.DBExecutor, listingID int64) (*domain.Bid, error) {
	var bid domain.Bid
	query := `
		SELECT id, listing_id, user_id, amount, created_at
		FROM bids
		WHERE listing_id = $1
		ORDER BY amount DESC, created_at DESC, id DESC
		LIMIT 1`
	err := q.GetContext(ctx, &bid, query, listingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get highest bid for listing %d: %w", listingID, err)
	}
	return &bid, nil
}

// GetBidsByListingID returns every bid of a listing, newest first.
func (r *BidRepository) GetBidsByListingID(ctx context.Context, q repository.DBExecutor, listingID int64) ([]domain.Bid, error) {
	bids := []domain.Bid{}
	query := `
		SELECT id, listing_id, user_id, amount, created_at
		FROM bids
		WHERE listing_id = $1
		ORDER BY created_at DESC, id DESC`
	if err := q.SelectContext(ctx, &bids, query, listingID); err != nil {
		return nil, fmt.Errorf("failed to fetch bids for listing %d: %w", listingID, err)
	}
	return bids, nil
}
