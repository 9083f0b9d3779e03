// internal/api/handler/listing.go
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"auction-listings/internal/api/types"
	"auction-listings/internal/domain"
	"auction-listings/internal/service"
	"auction-listings/internal/util"
	"auction-listings/pkg/auth"
)

// ListingHandler handles HTTP requests for listings, bids, comments, watchlists and categories.
type ListingHandler struct {
	responder
	service service.AuctionService
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(svc service.AuctionService, logger *slog.Logger) *ListingHandler {
	return &ListingHandler{responder: responder{logger: logger}, service: svc}
}

// formValue accepts either a JSON string or a bare JSON number and keeps the raw text,
// so money fields can be parsed with the listing form's lenient defaults.
type formValue string

func (v *formValue) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = formValue(s)
		return nil
	}
	*v = formValue(b)
	return nil
}

// CreateListingRequest represents the request body for a new listing.
type CreateListingRequest struct {
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	StartingPrice formValue `json:"starting_price"`
	BidIncrease   formValue `json:"bid_increase"`
	EndTime       string    `json:"end_time"`
	ImageURL      string    `json:"image_url"`
	Category      string    `json:"category"`
}

// PlaceBidRequest represents the request body for a custom bid.
type PlaceBidRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

// CommentRequest represents the request body for a comment.
type CommentRequest struct {
	Content string `json:"content"`
}

// userFrom returns the authenticated caller. Routes behind RequireAuth always have one.
func (h *ListingHandler) userFrom(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.respondWithError(w, util.ErrUnauthorized)
	}
	return userID, ok
}

// ListActive returns the open listings, newest first.
// GET /listings
func (h *ListingHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	listings, err := h.service.ListActiveListings(r.Context())
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, types.NewListResponse(types.NewListingSummaries(listings)))
}

// Create posts a new listing owned by the caller.
// POST /listings
func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userFrom(w, r)
	if !ok {
		return
	}

	var req CreateListingRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}

	listing, err := h.service.CreateListing(r.Context(), userID, service.CreateListingInput{
		Name:          req.Name,
		Description:   req.Description,
		StartingPrice: string(req.StartingPrice),
		BidIncrease:   string(req.BidIncrease),
		EndTime:       req.EndTime,
		ImageURL:      req.ImageURL,
		CategoryName:  req.Category,
	})
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.logger.Info("Listing created", "listing_id", listing.ID, "owner_id", userID)
	h.respondWithJSON(w, http.StatusCreated, types.NewListingResponse(listing, listing.StartingPrice))
}

// Get returns the listing page.
// GET /listings/{listingID}
func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	listingID, err := idParam(r, "listingID")
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	var viewerID *int64
	if userID, ok := auth.UserIDFromContext(r.Context()); ok {
		viewerID = &userID
	}

	detail, err := h.service.GetListing(r.Context(), listingID, viewerID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, types.NewListingDetailResponse(detail))
}

// Delete removes the caller's listing.
// DELETE /listings/{listingID}
func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userFrom(w, r)
	if !ok {
		return
	}
	listingID, err := idParam(r, "listingID")
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	if err := h.service.DeleteListing(r.Context(), listingID, userID); err != nil {
		h.respondWithError(w, err)
		return
	}

	h.logger.Info("Listing deleted", "listing_id", listingID, "user_id", userID)
	w.WriteHeader(http.StatusNoContent)
}

// PlaceBid places a custom-amount bid.
// POST /listings/{listingID}/bids
func (h *ListingHandler) PlaceBid(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userFrom(w, r)
	if !ok {
		return
	}
	listingID, err := idParam(r, "listingID")
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	var req PlaceBidRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}
	if req.Amount == nil {
		h.respondWithError(w, fmt.Errorf("%w: amount is required", util.ErrInvalidInput))
		return
	}

	bid, err := h.service.PlaceBid(r.Context(), listingID, userID, *req.Amount)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.logger.Info("Bid placed", "listing_id", listingID, "user_id", userID, "amount", types.Money(bid.Amount))
	h.respondWithJSON(w, http.StatusCreated, types.NewBidResponse(bid))
}

// PlaceQuickBid bids the current price plus the listing's increment.
// POST /listings/{listingID}/bids/quick
func (h *ListingHandler) PlaceQuickBid(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userFrom(w, r)
	if !ok {
		return
	}
	listingID, err := idParam(r, "listingID")
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	bid, err := h.service.PlaceQuickBid(r.Context(), listingID, userID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.logger.Info("Quick bid placed", "listing_id", listingID, "user_id", userID, "amount", types.Money(bid.Amount))
	h.respondWithJSON(w, http.StatusCreated, types.NewBidResponse(bid))
}

// PostComment adds a comment to a listing.
// POST /listings/{listingID}/comments
func (h *ListingHandler) PostComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userFrom(w, r)
	if !ok {
		return
	}
	listingID, err := idParam(r, "listingID")
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	var req CommentRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondWithError(w, err)
		return
	}

	comment, err := h.service.PostComment(r.Context(), listingID, userID, req.Content)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusCreated, comment)
}

// Close ends bidding on the caller's listing.
// POST /listings/{listingID}/close
func (h *ListingHandler) Close(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userFrom(w, r)
	if !ok {
		return
	}
	listingID, err := idParam(r, "listingID")
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	listing, err := h.service.CloseListing(r.Context(), listingID, userID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.logger.Info("Listing closed", "listing_id", listingID, "user_id", userID)
	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"listing_id": listing.ID,
		"active":     listing.Active,
	})
}

// ToggleWatch flips the listing in the caller's watchlist.
// POST /listings/{listingID}/watch
func (h *ListingHandler) ToggleWatch(w http.ResponseWriter, r *http.Request) {
	h.changeWatch(w, r, h.service.ToggleWatch)
}

// Watch adds the listing to the caller's watchlist.
// PUT /listings/{listingID}/watch
func (h *ListingHandler) Watch(w http.ResponseWriter, r *http.Request) {
	h.changeWatch(w, r, h.service.AddToWatchlist)
}

// Unwatch removes the listing from the caller's watchlist.
// DELETE /listings/{listingID}/watch
func (h *ListingHandler) Unwatch(w http.ResponseWriter, r *http.Request) {
	h.changeWatch(w, r, h.service.RemoveFromWatchlist)
}

type watchChange func(ctx context.Context, listingID, userID int64) (*domain.WatchState, error)

func (h *ListingHandler) changeWatch(w http.ResponseWriter, r *http.Request, change watchChange) {
	userID, ok := h.userFrom(w, r)
	if !ok {
		return
	}
	listingID, err := idParam(r, "listingID")
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	state, err := change(r.Context(), listingID, userID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, state)
}

// Watchlist returns the caller's watched listings, open and closed.
// GET /watchlist
func (h *ListingHandler) Watchlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userFrom(w, r)
	if !ok {
		return
	}

	listings, err := h.service.ListWatchlist(r.Context(), userID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, types.NewListResponse(types.NewListingSummaries(listings)))
}

// ListCategories returns every category by name.
// GET /categories
func (h *ListingHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, types.NewListResponse(categories))
}

// ListCategoryListings returns the open listings of one category.
// GET /categories/{categoryID}/listings
func (h *ListingHandler) ListCategoryListings(w http.ResponseWriter, r *http.Request) {
	categoryID, err := idParam(r, "categoryID")
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	listings, err := h.service.ListActiveByCategory(r.Context(), categoryID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, types.NewListResponse(types.NewListingSummaries(listings)))
}
