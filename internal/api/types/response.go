// internal/api/types/response.go
package types

import (
	"time"

	"github.com/shopspring/decimal"

	"auction-listings/internal/domain"
	"auction-listings/internal/service"
)

// ListResponse wraps a collection so the top-level JSON value is always an object.
// T represents the type of data contained in the 'Data' slice.
type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Count int `json:"count"`
}

// NewListResponse builds a ListResponse, rendering a nil slice as [].
func NewListResponse[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Data: items, Count: len(items)}
}

// Money renders an amount with exactly two fractional digits.
func Money(d decimal.Decimal) string {
	return d.StringFixed(domain.MoneyPlaces)
}

type ListingResponse struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	StartingPrice string     `json:"starting_price"`
	BidIncrease   string     `json:"bid_increase"`
	CurrentPrice  string     `json:"current_price"`
	OwnerID       int64      `json:"owner_id"`
	Active        bool       `json:"active"`
	EndTime       *time.Time `json:"end_time"`
	ImageURL      *string    `json:"image_url"`
	CategoryID    *int64     `json:"category_id"`
	CreatedAt     time.Time  `json:"created_at"`
}

func NewListingResponse(l *domain.Listing, currentPrice decimal.Decimal) ListingResponse {
	return ListingResponse{
		ID:            l.ID,
		Name:          l.Name,
		Description:   l.Description,
		StartingPrice: Money(l.StartingPrice),
		BidIncrease:   Money(l.BidIncrease),
		CurrentPrice:  Money(currentPrice),
		OwnerID:       l.OwnerID,
		Active:        l.Active,
		EndTime:       l.EndTime,
		ImageURL:      l.ImageURL,
		CategoryID:    l.CategoryID,
		CreatedAt:     l.CreatedAt,
	}
}

// NewListingSummaries converts list-view rows.
func NewListingSummaries(rows []domain.ListingSummary) []ListingResponse {
	out := make([]ListingResponse, 0, len(rows))
	for i := range rows {
		out = append(out, NewListingResponse(&rows[i].Listing, rows[i].CurrentPrice))
	}
	return out
}

type BidResponse struct {
	ID        int64     `json:"id"`
	ListingID int64     `json:"listing_id"`
	UserID    int64     `json:"user_id"`
	Amount    string    `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

func NewBidResponse(b *domain.Bid) BidResponse {
	return BidResponse{
		ID:        b.ID,
		ListingID: b.ListingID,
		UserID:    b.UserID,
		Amount:    Money(b.Amount),
		CreatedAt: b.CreatedAt,
	}
}

// ListingDetailResponse is the listing page: the listing plus its bids, comments and viewer state.
type ListingDetailResponse struct {
	ListingResponse
	HighestBid *BidResponse     `json:"highest_bid"`
	WinnerID   *int64           `json:"winner_id"`
	Watching   bool             `json:"watching"`
	Bids       []BidResponse    `json:"bids"`
	Comments   []domain.Comment `json:"comments"`
}

func NewListingDetailResponse(d *service.ListingDetail) ListingDetailResponse {
	resp := ListingDetailResponse{
		ListingResponse: NewListingResponse(d.Listing, d.CurrentPrice),
		WinnerID:        d.WinnerID,
		Watching:        d.Watching,
		Bids:            make([]BidResponse, 0, len(d.Bids)),
		Comments:        d.Comments,
	}
	if d.HighestBid != nil {
		top := NewBidResponse(d.HighestBid)
		resp.HighestBid = &top
	}
	for i := range d.Bids {
		resp.Bids = append(resp.Bids, NewBidResponse(&d.Bids[i]))
	}
	if resp.Comments == nil {
		resp.Comments = []domain.Comment{}
	}
	return resp
}

// ErrorResponse is the body of every non-2xx reply.
// Rule and Minimum are set only for rejected bids.
type ErrorResponse struct {
	Error   string `json:"error"`
	Rule    string `json:"rule,omitempty"`
	Minimum string `json:"minimum,omitempty"`
}
