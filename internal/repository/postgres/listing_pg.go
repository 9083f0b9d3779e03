// internal/repository/postgres/listing_pg.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"auction-listings/internal/domain"
	"auction-listings/internal/repository"
	"auction-listings/internal/util"

	"github.com/Masterminds/squirrel"
)

const listingColumns = `id, name, description, starting_price, bid_increase, created_at, owner_id, active, end_time, image_url, category_id`

// listingSummaryColumns are qualified with the "l" alias used by ListListings.
var listingSummaryColumns = []string{
	"l.id", "l.name", "l.description", "l.starting_price", "l.bid_increase", "l.created_at",
	"l.owner_id", "l.active", "l.end_time", "l.image_url", "l.category_id",
	// MAX(amount) equals the highest bid amount whatever the tie-break between equal amounts.
	"COALESCE((SELECT MAX(b.amount) FROM bids b WHERE b.listing_id = l.id), l.starting_price) AS current_price",
}

// ListingRepository implements repository.ListingRepository for PostgreSQL.
type ListingRepository struct{}

// NewListingRepository creates a new ListingRepository.
func NewListingRepository() repository.ListingRepository {
	return &ListingRepository{}
}

// CreateListing inserts a new listing into the database using the provided DBExecutor.
func (r *ListingRepository) CreateListing(ctx context.Context, q repository.DBExecutor, listing *domain.Listing) error {
	query := `INSERT INTO listings (name, description, starting_price, bid_increase, created_at,
                                    owner_id, active, end_time, image_url, category_id)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		listing.Name,
		listing.Description,
		listing.StartingPrice,
		listing.BidIncrease,
		listing.CreatedAt,
		listing.OwnerID,
		listing.Active,
		listing.EndTime,
		listing.ImageURL,
		listing.CategoryID,
	).Scan(&listing.ID)
	if err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}

// GetListingByID retrieves a listing by its ID using the provided DBExecutor.
func (r *ListingRepository) GetListingByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Listing, error) {
	return r.getListing(ctx, q, `SELECT `+listingColumns+` FROM listings WHERE id = $1`, id)
}

// GetListingForUpdate retrieves a listing and holds a row lock on it until the transaction ends.
func (r *ListingRepository) GetListingForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Listing, error) {
	return r.getListing(ctx, q, `SELECT `+listingColumns+` FROM listings WHERE id = $1 FOR UPDATE`, id)
}

func (r *ListingRepository) getListing(ctx context.Context, q repository.DBExecutor, query string, id int64) (*domain.Listing, error) {
	var listing domain.Listing
	err := q.GetContext(ctx, &listing, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get listing by ID %d: %w", id, err)
	}
	return &listing, nil
}

// SetListingActive updates the open/closed flag of a listing.
func (r *ListingRepository) SetListingActive(ctx context.Context, q repository.DBExecutor, id int64, active bool) error {
	result, err := q.ExecContext(ctx, `UPDATE listings SET active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("failed to update listing %d: %w", id, err)
	}
	return expectOneRow(result, id)
}

// DeleteListing deletes a listing; dependent bids, comments and watches cascade in the schema.
func (r *ListingRepository) DeleteListing(ctx context.Context, q repository.DBExecutor, id int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete listing %d: %w", id, err)
	}
	return expectOneRow(result, id)
}

// ListListings returns listings matching filter with their current price, newest first.
func (r *ListingRepository) ListListings(ctx context.Context, q repository.DBExecutor, filter repository.ListingFilter) ([]domain.ListingSummary, error) {
	builder := squirrel.Select(listingSummaryColumns...).
		From("listings l").
		PlaceholderFormat(squirrel.Dollar)

	if filter.WatcherID != nil {
		builder = builder.
			Join("watches w ON w.listing_id = l.id").
			Where(squirrel.Eq{"w.user_id": *filter.WatcherID})
	}
	if filter.ActiveOnly {
		builder = builder.Where(squirrel.Eq{"l.active": true})
	}
	if filter.CategoryID != nil {
		builder = builder.Where(squirrel.Eq{"l.category_id": *filter.CategoryID})
	}
	builder = builder.OrderBy("l.created_at DESC", "l.id DESC")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build listing query: %w", err)
	}

	listings := []domain.ListingSummary{}
	if err := q.SelectContext(ctx, &listings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	return listings, nil
}

func expectOneRow(result sql.Result, id int64) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for listing %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("listing %d: %w", id, util.ErrNotFound)
	}
	return nil
}
