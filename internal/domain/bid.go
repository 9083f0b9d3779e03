// internal/domain/bid.go
package domain

import (
	"fmt"
	"time"

	"auction-listings/internal/util"

	"github.com/shopspring/decimal"
)

// Bid is an append-only offer on a listing.
type Bid struct {
	ID        int64           `db:"id" json:"id"`                 // Primary key, BIGSERIAL in DB
	ListingID int64           `db:"listing_id" json:"listing_id"` // Foreign key to Listing
	UserID    int64           `db:"user_id" json:"user_id"`       // Foreign key to User
	Amount    decimal.Decimal `db:"amount" json:"amount"`         // NUMERIC(10, 2) in DB
	CreatedAt time.Time       `db:"created_at" json:"created_at"` // Timestamp of placement
}

// NewBid creates a new Bid instance.
func NewBid(listingID, userID int64, amount decimal.Decimal) *Bid {
	return &Bid{
		ListingID: listingID,
		UserID:    userID,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}
}

// BidRule names the check a rejected bid failed.
type BidRule string

const (
	// BidRuleNoBidsYet applies to the first bid: amount must reach the starting price.
	BidRuleNoBidsYet BidRule = "no_bids_yet"
	// BidRuleBelowCurrentPrice applies once bids exist: amount must beat the current price.
	BidRuleBelowCurrentPrice BidRule = "below_current_price"
)

// BidRejection explains why a proposed amount was refused.
// It matches util.ErrBidTooLow with errors.Is.
type BidRejection struct {
	Rule    BidRule
	Minimum decimal.Decimal
	Amount  decimal.Decimal
}

func (r *BidRejection) Error() string {
	if r.Rule == BidRuleNoBidsYet {
		return fmt.Sprintf("your bid must be at least the starting price ($%s)", r.Minimum.StringFixed(2))
	}
	return fmt.Sprintf("your bid must be greater than the current price ($%s)", r.Minimum.StringFixed(2))
}

func (r *BidRejection) Unwrap() error {
	return util.ErrBidTooLow
}
