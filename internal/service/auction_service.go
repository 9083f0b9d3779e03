// internal/service/auction_service.go
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"auction-listings/internal/domain"
	"auction-listings/internal/repository"
	"auction-listings/internal/util"
	"auction-listings/pkg/db"

	"github.com/shopspring/decimal"
)

// AuctionService defines the interface for listing, bidding, comment and watchlist logic.
type AuctionService interface {
	CreateListing(ctx context.Context, ownerID int64, input CreateListingInput) (*domain.Listing, error)
	GetListing(ctx context.Context, listingID int64, viewerID *int64) (*ListingDetail, error)
	PlaceBid(ctx context.Context, listingID, userID int64, amount decimal.Decimal) (*domain.Bid, error)
	PlaceQuickBid(ctx context.Context, listingID, userID int64) (*domain.Bid, error)
	PostComment(ctx context.Context, listingID, userID int64, content string) (*domain.Comment, error)
	CloseListing(ctx context.Context, listingID, userID int64) (*domain.Listing, error)
	DeleteListing(ctx context.Context, listingID, userID int64) error
	ToggleWatch(ctx context.Context, listingID, userID int64) (*domain.WatchState, error)
	AddToWatchlist(ctx context.Context, listingID, userID int64) (*domain.WatchState, error)
	RemoveFromWatchlist(ctx context.Context, listingID, userID int64) (*domain.WatchState, error)
	ListActiveListings(ctx context.Context) ([]domain.ListingSummary, error)
	ListWatchlist(ctx context.Context, userID int64) ([]domain.ListingSummary, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListActiveByCategory(ctx context.Context, categoryID int64) ([]domain.ListingSummary, error)
}

// ListingDetail is everything the listing page shows.
type ListingDetail struct {
	Listing      *domain.Listing
	CurrentPrice decimal.Decimal
	HighestBid   *domain.Bid
	WinnerID     *int64 // set only once the listing is closed and had bids
	Bids         []domain.Bid
	Comments     []domain.Comment
	Watching     bool
}

// auctionService implements the AuctionService interface.
type auctionService struct {
	dbBeginner   db.DBTxBeginner       // For starting transactions (e.g., *sqlx.DB)
	dbExecutor   repository.DBExecutor // For non-transactional reads (e.g., *sqlx.DB)
	listingRepo  repository.ListingRepository
	bidRepo      repository.BidRepository
	commentRepo  repository.CommentRepository
	categoryRepo repository.CategoryRepository
	watchRepo    repository.WatchRepository
	beginTx      db.BeginTxFunc
	commitTx     db.CommitTxFunc
	rollbackTx   db.RollbackTxFunc
	location     *time.Location
	now          func() time.Time
}

// NewAuctionService creates a new instance of AuctionService.
// location is the zone naive end times are read in.
func NewAuctionService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	listingRepo repository.ListingRepository,
	bidRepo repository.BidRepository,
	commentRepo repository.CommentRepository,
	categoryRepo repository.CategoryRepository,
	watchRepo repository.WatchRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
	location *time.Location,
) AuctionService {
	if location == nil {
		location = time.UTC
	}
	return &auctionService{
		dbBeginner:   dbBeginner,
		dbExecutor:   dbExecutor,
		listingRepo:  listingRepo,
		bidRepo:      bidRepo,
		commentRepo:  commentRepo,
		categoryRepo: categoryRepo,
		watchRepo:    watchRepo,
		beginTx:      beginTx,
		commitTx:     commitTx,
		rollbackTx:   rollbackTx,
		location:     location,
		now:          time.Now,
	}
}

// withTx runs fn inside a transaction and commits when fn succeeds.
func (s *auctionService) withTx(ctx context.Context, op string, fn func(q repository.DBExecutor) error) error {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return fmt.Errorf("%s: transaction controller does not implement DBExecutor", op)
	}

	if err := fn(txExecutor); err != nil {
		return err
	}

	if err := s.commitTx(txController); err != nil {
		return fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}
	return nil
}

// CreateListing validates the form and stores a new open listing, resolving its category by name.
func (s *auctionService) CreateListing(ctx context.Context, ownerID int64, input CreateListingInput) (*domain.Listing, error) {
	in, err := normalizeListingInput(input, s.location, s.now())
	if err != nil {
		return nil, err
	}

	listing := domain.NewListing(ownerID, in.name, in.description, in.startingPrice, in.bidIncrease)
	listing.EndTime = in.endTime
	listing.ImageURL = in.imageURL

	err = s.withTx(ctx, "create listing", func(q repository.DBExecutor) error {
		if in.categoryName != "" {
			category, err := s.categoryRepo.GetOrCreateCategory(ctx, q, in.categoryName)
			if err != nil {
				return fmt.Errorf("create listing: failed to resolve category: %w", err)
			}
			listing.CategoryID = &category.ID
		}
		if err := s.listingRepo.CreateListing(ctx, q, listing); err != nil {
			return fmt.Errorf("create listing: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return listing, nil
}

// GetListing loads a listing with its bids, comments and the viewer's watch state.
func (s *auctionService) GetListing(ctx context.Context, listingID int64, viewerID *int64) (*ListingDetail, error) {
	listing, err := s.listingRepo.GetListingByID(ctx, s.dbExecutor, listingID)
	if err != nil {
		return nil, fmt.Errorf("get listing: failed to get listing %d: %w", listingID, err)
	}
	bids, err := s.bidRepo.GetBidsByListingID(ctx, s.dbExecutor, listingID)
	if err != nil {
		return nil, fmt.Errorf("get listing: %w", err)
	}
	comments, err := s.commentRepo.GetCommentsByListingID(ctx, s.dbExecutor, listingID)
	if err != nil {
		return nil, fmt.Errorf("get listing: %w", err)
	}

	top := domain.HighestBid(bids)
	detail := &ListingDetail{
		Listing:      listing,
		CurrentPrice: domain.CurrentPrice(listing, top),
		HighestBid:   top,
		Bids:         bids,
		Comments:     comments,
	}
	if winnerID, ok := domain.Winner(listing, top); ok {
		detail.WinnerID = &winnerID
	}
	if viewerID != nil {
		watching, err := s.watchRepo.IsWatching(ctx, s.dbExecutor, *viewerID, listingID)
		if err != nil {
			return nil, fmt.Errorf("get listing: %w", err)
		}
		detail.Watching = watching
	}
	return detail, nil
}

// PlaceBid records a custom-amount bid. The amount is taken as given: sub-cent or
// oversized values are invalid input, never rounded.
func (s *auctionService) PlaceBid(ctx context.Context, listingID, userID int64, amount decimal.Decimal) (*domain.Bid, error) {
	amount, err := domain.CheckMoney(amount)
	if err != nil {
		return nil, fmt.Errorf("place bid: %w", err)
	}
	return s.placeBid(ctx, "place bid", listingID, userID, func(*domain.Listing, *domain.Bid) decimal.Decimal {
		return amount
	})
}

// PlaceQuickBid records a bid at the current price plus the listing's increment.
func (s *auctionService) PlaceQuickBid(ctx context.Context, listingID, userID int64) (*domain.Bid, error) {
	return s.placeBid(ctx, "place quick bid", listingID, userID, domain.QuickIncrementAmount)
}

// placeBid validates and inserts a bid atomically. The listing row stays locked from the
// read of the highest bid until commit, so two racing bidders are evaluated one after the other.
func (s *auctionService) placeBid(
	ctx context.Context,
	op string,
	listingID, userID int64,
	amountFor func(*domain.Listing, *domain.Bid) decimal.Decimal,
) (*domain.Bid, error) {
	var bid *domain.Bid
	err := s.withTx(ctx, op, func(q repository.DBExecutor) error {
		listing, err := s.listingRepo.GetListingForUpdate(ctx, q, listingID)
		if err != nil {
			return fmt.Errorf("%s: failed to get listing %d: %w", op, listingID, err)
		}
		if !domain.IsActive(listing) {
			return fmt.Errorf("%s: listing %d: %w", op, listingID, util.ErrListingClosed)
		}

		top, err := s.bidRepo.GetHighestBid(ctx, q, listingID)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		amount := amountFor(listing, top)
		if amount.GreaterThan(domain.MaxMoney) {
			return fmt.Errorf("%s: %w: bid amount exceeds %s", op, util.ErrInvalidInput, domain.MaxMoney.StringFixed(domain.MoneyPlaces))
		}
		if err := domain.ValidateBid(listing, top, amount); err != nil {
			return err
		}

		bid = domain.NewBid(listingID, userID, amount)
		if err := s.bidRepo.CreateBid(ctx, q, bid); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return bid, nil
}

// PostComment appends a trimmed, non-empty comment to a listing.
func (s *auctionService) PostComment(ctx context.Context, listingID, userID int64, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: comment cannot be empty", util.ErrInvalidInput)
	}

	if _, err := s.listingRepo.GetListingByID(ctx, s.dbExecutor, listingID); err != nil {
		return nil, fmt.Errorf("post comment: failed to get listing %d: %w", listingID, err)
	}

	comment := domain.NewComment(listingID, userID, content)
	if err := s.commentRepo.CreateComment(ctx, s.dbExecutor, comment); err != nil {
		return nil, fmt.Errorf("post comment: %w", err)
	}
	return comment, nil
}

// CloseListing ends bidding on a listing. Only the owner may close; closing twice is a no-op.
func (s *auctionService) CloseListing(ctx context.Context, listingID, userID int64) (*domain.Listing, error) {
	var listing *domain.Listing
	err := s.withTx(ctx, "close listing", func(q repository.DBExecutor) error {
		var err error
		listing, err = s.listingRepo.GetListingForUpdate(ctx, q, listingID)
		if err != nil {
			return fmt.Errorf("close listing: failed to get listing %d: %w", listingID, err)
		}
		if !listing.IsOwnedBy(userID) {
			return fmt.Errorf("close listing %d: %w", listingID, util.ErrForbidden)
		}
		if !domain.IsActive(listing) {
			return nil
		}
		if err := s.listingRepo.SetListingActive(ctx, q, listingID, false); err != nil {
			return fmt.Errorf("close listing: %w", err)
		}
		listing.Close()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return listing, nil
}

// DeleteListing removes an owner's listing together with its bids, comments and watches.
func (s *auctionService) DeleteListing(ctx context.Context, listingID, userID int64) error {
	return s.withTx(ctx, "delete listing", func(q repository.DBExecutor) error {
		listing, err := s.listingRepo.GetListingForUpdate(ctx, q, listingID)
		if err != nil {
			return fmt.Errorf("delete listing: failed to get listing %d: %w", listingID, err)
		}
		if !listing.IsOwnedBy(userID) {
			return fmt.Errorf("delete listing %d: %w", listingID, util.ErrForbidden)
		}
		if err := s.listingRepo.DeleteListing(ctx, q, listingID); err != nil {
			return fmt.Errorf("delete listing: %w", err)
		}
		return nil
	})
}

// ToggleWatch flips the listing's membership in the user's watchlist.
func (s *auctionService) ToggleWatch(ctx context.Context, listingID, userID int64) (*domain.WatchState, error) {
	state := &domain.WatchState{ListingID: listingID}
	err := s.withTx(ctx, "toggle watch", func(q repository.DBExecutor) error {
		if _, err := s.listingRepo.GetListingForUpdate(ctx, q, listingID); err != nil {
			return fmt.Errorf("toggle watch: failed to get listing %d: %w", listingID, err)
		}
		watching, err := s.watchRepo.IsWatching(ctx, q, userID, listingID)
		if err != nil {
			return fmt.Errorf("toggle watch: %w", err)
		}
		if watching {
			err = s.watchRepo.RemoveWatch(ctx, q, userID, listingID)
		} else {
			err = s.watchRepo.AddWatch(ctx, q, &domain.Watch{UserID: userID, ListingID: listingID, CreatedAt: s.now().UTC()})
		}
		if err != nil {
			return fmt.Errorf("toggle watch: %w", err)
		}
		state.Watching = !watching
		return nil
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

// AddToWatchlist watches a listing. Already watching is a successful no-op.
func (s *auctionService) AddToWatchlist(ctx context.Context, listingID, userID int64) (*domain.WatchState, error) {
	if _, err := s.listingRepo.GetListingByID(ctx, s.dbExecutor, listingID); err != nil {
		return nil, fmt.Errorf("add to watchlist: failed to get listing %d: %w", listingID, err)
	}
	watch := &domain.Watch{UserID: userID, ListingID: listingID, CreatedAt: s.now().UTC()}
	if err := s.watchRepo.AddWatch(ctx, s.dbExecutor, watch); err != nil {
		return nil, fmt.Errorf("add to watchlist: %w", err)
	}
	return &domain.WatchState{ListingID: listingID, Watching: true}, nil
}

// RemoveFromWatchlist stops watching a listing. Not watching is a successful no-op.
func (s *auctionService) RemoveFromWatchlist(ctx context.Context, listingID, userID int64) (*domain.WatchState, error) {
	if _, err := s.listingRepo.GetListingByID(ctx, s.dbExecutor, listingID); err != nil {
		return nil, fmt.Errorf("remove from watchlist: failed to get listing %d: %w", listingID, err)
	}
	if err := s.watchRepo.RemoveWatch(ctx, s.dbExecutor, userID, listingID); err != nil {
		return nil, fmt.Errorf("remove from watchlist: %w", err)
	}
	return &domain.WatchState{ListingID: listingID, Watching: false}, nil
}

// ListActiveListings returns open listings, newest first.
func (s *auctionService) ListActiveListings(ctx context.Context) ([]domain.ListingSummary, error) {
	listings, err := s.listingRepo.ListListings(ctx, s.dbExecutor, repository.ListingFilter{ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("list active listings: %w", err)
	}
	return listings, nil
}

// ListWatchlist returns every listing the user watches, open or closed, newest first.
func (s *auctionService) ListWatchlist(ctx context.Context, userID int64) ([]domain.ListingSummary, error) {
	listings, err := s.listingRepo.ListListings(ctx, s.dbExecutor, repository.ListingFilter{WatcherID: &userID})
	if err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}
	return listings, nil
}

// ListCategories returns every category by name.
func (s *auctionService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categoryRepo.ListCategories(ctx, s.dbExecutor)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// ListActiveByCategory returns the open listings of one category, newest first.
func (s *auctionService) ListActiveByCategory(ctx context.Context, categoryID int64) ([]domain.ListingSummary, error) {
	if _, err := s.categoryRepo.GetCategoryByID(ctx, s.dbExecutor, categoryID); err != nil {
		return nil, fmt.Errorf("list category listings: failed to get category %d: %w", categoryID, err)
	}
	listings, err := s.listingRepo.ListListings(ctx, s.dbExecutor, repository.ListingFilter{
		ActiveOnly: true,
		CategoryID: &categoryID,
	})
	if err != nil {
		return nil, fmt.Errorf("list category listings: %w", err)
	}
	return listings, nil
}
