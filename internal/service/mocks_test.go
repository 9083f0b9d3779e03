// internal/service/mocks_test.go
package service

import (
	"context"
	"database/sql"
	"time"

	"auction-listings/internal/domain"
	"auction-listings/internal/repository"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"
)

// MockDBExecutor is a mock implementation of repository.DBExecutor.
type MockDBExecutor struct {
	mock.Mock
}

func (m *MockDBExecutor) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	argsCalled := m.Called(ctx, query, args)
	return argsCalled.Get(0).(sql.Result), argsCalled.Error(1)
}

func (m *MockDBExecutor) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	m.Called(ctx, query, args)
	return &sql.Row{}
}

// MockDBBeginner is a mock implementation of db.DBTxBeginner.
type MockDBBeginner struct {
	mock.Mock
}

func (m *MockDBBeginner) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	args := m.Called(ctx, opts)
	return &sqlx.Tx{}, args.Error(1)
}

// MockTxController is a mock implementation of db.TxController.
// It embeds MockDBExecutor so it also satisfies repository.DBExecutor.
type MockTxController struct {
	mock.Mock
	MockDBExecutor
}

func (m *MockTxController) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTxController) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, q repository.DBExecutor, user *domain.User) error {
	args := m.Called(ctx, q, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByUsername(ctx context.Context, q repository.DBExecutor, username string) (*domain.User, error) {
	args := m.Called(ctx, q, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockListingRepository is a mock implementation of repository.ListingRepository.
type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) CreateListing(ctx context.Context, q repository.DBExecutor, listing *domain.Listing) error {
	args := m.Called(ctx, q, listing)
	return args.Error(0)
}

func (m *MockListingRepository) GetListingByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Listing, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

func (m *MockListingRepository) GetListingForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Listing, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

func (m *MockListingRepository) SetListingActive(ctx context.Context, q repository.DBExecutor, id int64, active bool) error {
	args := m.Called(ctx, q, id, active)
	return args.Error(0)
}

func (m *MockListingRepository) DeleteListing(ctx context.Context, q repository.DBExecutor, id int64) error {
	args := m.Called(ctx, q, id)
	return args.Error(0)
}

func (m *MockListingRepository) ListListings(ctx context.Context, q repository.DBExecutor, filter repository.ListingFilter) ([]domain.ListingSummary, error) {
	args := m.Called(ctx, q, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ListingSummary), args.Error(1)
}

// MockBidRepository is a mock implementation of repository.BidRepository.
type MockBidRepository struct {
	mock.Mock
}

func (m *MockBidRepository) CreateBid(ctx context.Context, q repository.DBExecutor, bid *domain.Bid) error {
	args := m.Called(ctx, q, bid)
	return args.Error(0)
}

func (m *MockBidRepository) GetHighestBid(ctx context.Context, q repository.DBExecutor, listingID int64) (*domain.Bid, error) {
	args := m.Called(ctx, q, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bid), args.Error(1)
}

func (m *MockBidRepository) GetBidsByListingID(ctx context.Context, q repository.DBExecutor, listingID int64) ([]domain.Bid, error) {
	args := m.Called(ctx, q, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Bid), args.Error(1)
}

// MockCommentRepository is a mock implementation of repository.CommentRepository.
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) CreateComment(ctx context.Context, q repository.DBExecutor, comment *domain.Comment) error {
	args := m.Called(ctx, q, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) GetCommentsByListingID(ctx context.Context, q repository.DBExecutor, listingID int64) ([]domain.Comment, error) {
	args := m.Called(ctx, q, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Comment), args.Error(1)
}

// MockCategoryRepository is a mock implementation of repository.CategoryRepository.
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) GetOrCreateCategory(ctx context.Context, q repository.DBExecutor, name string) (*domain.Category, error) {
	args := m.Called(ctx, q, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetCategoryByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Category, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) ListCategories(ctx context.Context, q repository.DBExecutor) ([]domain.Category, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

// MockWatchRepository is a mock implementation of repository.WatchRepository.
type MockWatchRepository struct {
	mock.Mock
}

func (m *MockWatchRepository) AddWatch(ctx context.Context, q repository.DBExecutor, watch *domain.Watch) error {
	args := m.Called(ctx, q, watch)
	return args.Error(0)
}

func (m *MockWatchRepository) RemoveWatch(ctx context.Context, q repository.DBExecutor, userID, listingID int64) error {
	args := m.Called(ctx, q, userID, listingID)
	return args.Error(0)
}

func (m *MockWatchRepository) IsWatching(ctx context.Context, q repository.DBExecutor, userID, listingID int64) (bool, error) {
	args := m.Called(ctx, q, userID, listingID)
	return args.Bool(0), args.Error(1)
}

// MockTokenIssuer is a mock implementation of TokenIssuer.
type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Generate(userID int64) (string, time.Time, error) {
	args := m.Called(userID)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}
