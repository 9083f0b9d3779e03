// internal/domain/listing.go
package domain

import (
	"time"

	"github.com/shopspring/decimal" // For precise monetary calculations
)

// DefaultBidIncrease is the quick-bid step used when a listing does not set one.
var DefaultBidIncrease = decimal.RequireFromString("1.00")

// Category groups listings under a unique name.
type Category struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Listing is an auction item posted by an owner.
type Listing struct {
	ID            int64           `db:"id" json:"id"`                         // Primary key, BIGSERIAL in DB
	Name          string          `db:"name" json:"name"`                     // Title shown to bidders
	Description   string          `db:"description" json:"description"`       // Free text
	StartingPrice decimal.Decimal `db:"starting_price" json:"starting_price"` // Price floor, NUMERIC(10, 2) in DB
	BidIncrease   decimal.Decimal `db:"bid_increase" json:"bid_increase"`     // Quick-bid step, NUMERIC(10, 2) in DB
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`         // Set once at creation
	OwnerID       int64           `db:"owner_id" json:"owner_id"`             // Foreign key to User
	Active        bool            `db:"active" json:"active"`                 // Sole authority on open/closed state
	EndTime       *time.Time      `db:"end_time" json:"end_time"`             // Stored only, never used for activity
	ImageURL      *string         `db:"image_url" json:"image_url"`           // Optional picture
	CategoryID    *int64          `db:"category_id" json:"category_id"`       // Nullable, SET NULL when the category is deleted
}

// NewListing creates an open Listing owned by ownerID.
func NewListing(ownerID int64, name, description string, startingPrice, bidIncrease decimal.Decimal) *Listing {
	return &Listing{
		Name:          name,
		Description:   description,
		StartingPrice: startingPrice,
		BidIncrease:   bidIncrease,
		CreatedAt:     time.Now().UTC(),
		OwnerID:       ownerID,
		Active:        true,
	}
}

// IsOwnedBy reports whether userID owns the listing.
func (l *Listing) IsOwnedBy(userID int64) bool {
	return l.OwnerID == userID
}

// Close moves the listing to the closed state. There is no way back.
func (l *Listing) Close() {
	l.Active = false
}

// ListingSummary is a listing row joined with its current price, used by list views.
type ListingSummary struct {
	Listing
	CurrentPrice decimal.Decimal `db:"current_price" json:"current_price"`
}

// Comment is an immutable note left on a listing.
type Comment struct {
	ID        int64     `db:"id" json:"id"`
	ListingID int64     `db:"listing_id" json:"listing_id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// NewComment creates a new Comment instance.
func NewComment(listingID, userID int64, content string) *Comment {
	return &Comment{
		ListingID: listingID,
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}

// Watch is one row of the user/listing watchlist relation.
// The pair (UserID, ListingID) is unique.
type Watch struct {
	UserID    int64     `db:"user_id" json:"user_id"`
	ListingID int64     `db:"listing_id" json:"listing_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// WatchState is the membership of a listing in a user's watchlist after a change.
type WatchState struct {
	ListingID int64 `json:"listing_id"`
	Watching  bool  `json:"watching"`
}
