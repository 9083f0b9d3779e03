// internal/api/router_test.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"auction-listings/internal/api/handler"
	"auction-listings/internal/domain"
	"auction-listings/internal/service"
	"auction-listings/internal/util"
)

// MockAuctionService is a mock implementation of service.AuctionService.
type MockAuctionService struct {
	mock.Mock
}

func (m *MockAuctionService) CreateListing(ctx context.Context, ownerID int64, input service.CreateListingInput) (*domain.Listing, error) {
	args := m.Called(ctx, ownerID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

func (m *MockAuctionService) GetListing(ctx context.Context, listingID int64, viewerID *int64) (*service.ListingDetail, error) {
	args := m.Called(ctx, listingID, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListingDetail), args.Error(1)
}

func (m *MockAuctionService) PlaceBid(ctx context.Context, listingID, userID int64, amount decimal.Decimal) (*domain.Bid, error) {
	args := m.Called(ctx, listingID, userID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bid), args.Error(1)
}

func (m *MockAuctionService) PlaceQuickBid(ctx context.Context, listingID, userID int64) (*domain.Bid, error) {
	args := m.Called(ctx, listingID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bid), args.Error(1)
}

func (m *MockAuctionService) PostComment(ctx context.Context, listingID, userID int64, content string) (*domain.Comment, error) {
	args := m.Called(ctx, listingID, userID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}

func (m *MockAuctionService) CloseListing(ctx context.Context, listingID, userID int64) (*domain.Listing, error) {
	args := m.Called(ctx, listingID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

func (m *MockAuctionService) DeleteListing(ctx context.Context, listingID, userID int64) error {
	args := m.Called(ctx, listingID, userID)
	return args.Error(0)
}

func (m *MockAuctionService) ToggleWatch(ctx context.Context, listingID, userID int64) (*domain.WatchState, error) {
	return m.watchCall("ToggleWatch", ctx, listingID, userID)
}

func (m *MockAuctionService) AddToWatchlist(ctx context.Context, listingID, userID int64) (*domain.WatchState, error) {
	return m.watchCall("AddToWatchlist", ctx, listingID, userID)
}

func (m *MockAuctionService) RemoveFromWatchlist(ctx context.Context, listingID, userID int64) (*domain.WatchState, error) {
	return m.watchCall("RemoveFromWatchlist", ctx, listingID, userID)
}

func (m *MockAuctionService) watchCall(method string, ctx context.Context, listingID, userID int64) (*domain.WatchState, error) {
	args := m.MethodCalled(method, ctx, listingID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WatchState), args.Error(1)
}

func (m *MockAuctionService) ListActiveListings(ctx context.Context) ([]domain.ListingSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ListingSummary), args.Error(1)
}

func (m *MockAuctionService) ListWatchlist(ctx context.Context, userID int64) ([]domain.ListingSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ListingSummary), args.Error(1)
}

func (m *MockAuctionService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockAuctionService) ListActiveByCategory(ctx context.Context, categoryID int64) ([]domain.ListingSummary, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ListingSummary), args.Error(1)
}

// MockAccountService is a mock implementation of service.AccountService.
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) Register(ctx context.Context, input service.RegisterInput) (*service.AuthToken, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthToken), args.Error(1)
}

func (m *MockAccountService) Login(ctx context.Context, username, password string) (*service.AuthToken, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthToken), args.Error(1)
}

func (m *MockAccountService) CurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// staticVerifier accepts the tokens in its map.
type staticVerifier map[string]int64

func (v staticVerifier) Verify(token string) (int64, error) {
	if id, ok := v[token]; ok {
		return id, nil
	}
	return 0, errors.New("unknown token")
}

const aliceToken = "alice-token"

type routerFixture struct {
	auctions *MockAuctionService
	accounts *MockAccountService
	handler  http.Handler
}

func newRouterFixture(t *testing.T) *routerFixture {
	logger := util.NewLogger(io.Discard, "error")
	f := &routerFixture{
		auctions: new(MockAuctionService),
		accounts: new(MockAccountService),
	}
	f.handler = NewRouter(
		handler.NewListingHandler(f.auctions, logger),
		handler.NewAuthHandler(f.accounts, logger),
		handler.NewAuthenticator(staticVerifier{aliceToken: 7}, logger),
		logger,
	)
	t.Cleanup(func() {
		mock.AssertExpectationsForObjects(t, f.auctions, f.accounts)
	})
	return f
}

func (f *routerFixture) do(method, path, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func listing(id, ownerID int64, startingPrice string) *domain.Listing {
	l := domain.NewListing(ownerID, "Desk lamp", "Brass", decimal.RequireFromString(startingPrice), domain.DefaultBidIncrease)
	l.ID = id
	return l
}

func TestHealth(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodGet, "/health", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestListActiveRendersMoneyAsStrings(t *testing.T) {
	f := newRouterFixture(t)
	rows := []domain.ListingSummary{{Listing: *listing(1, 2, "10"), CurrentPrice: decimal.RequireFromString("12.5")}}
	f.auctions.On("ListActiveListings", mock.Anything).Return(rows, nil).Once()

	rec := f.do(http.MethodGet, "/listings", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["count"])
	first := body["data"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "10.00", first["starting_price"])
	assert.Equal(t, "12.50", first["current_price"])
	assert.Equal(t, "1.00", first["bid_increase"])
}

func TestListActiveEmptyIsArray(t *testing.T) {
	f := newRouterFixture(t)
	f.auctions.On("ListActiveListings", mock.Anything).Return(nil, nil).Once()

	rec := f.do(http.MethodGet, "/listings", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[],"count":0}`, rec.Body.String())
}

func TestCreateListing(t *testing.T) {
	t.Run("RequiresToken", func(t *testing.T) {
		f := newRouterFixture(t)

		rec := f.do(http.MethodPost, "/listings", "", `{"name":"Lamp"}`)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		f.auctions.AssertNotCalled(t, "CreateListing", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("RejectsUnknownToken", func(t *testing.T) {
		f := newRouterFixture(t)

		rec := f.do(http.MethodPost, "/listings", "forged", `{"name":"Lamp"}`)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("AcceptsNumbersAndStrings", func(t *testing.T) {
		f := newRouterFixture(t)
		want := service.CreateListingInput{
			Name:          "Lamp",
			StartingPrice: "10.5",
			BidIncrease:   "2",
			EndTime:       "2030-01-01T10:00",
			CategoryName:  "Home",
		}
		f.auctions.On("CreateListing", mock.Anything, int64(7), want).Return(listing(3, 7, "10.5"), nil).Once()

		rec := f.do(http.MethodPost, "/listings", aliceToken,
			`{"name":"Lamp","starting_price":10.5,"bid_increase":"2","end_time":"2030-01-01T10:00","category":"Home"}`)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		body := decodeBody(t, rec)
		assert.Equal(t, float64(3), body["id"])
		assert.Equal(t, "10.50", body["current_price"])
	})

	t.Run("ValidationError", func(t *testing.T) {
		f := newRouterFixture(t)
		f.auctions.On("CreateListing", mock.Anything, int64(7), mock.Anything).
			Return(nil, fmt.Errorf("%w: listing name is required", util.ErrInvalidInput)).Once()

		rec := f.do(http.MethodPost, "/listings", aliceToken, `{"name":""}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeBody(t, rec)["error"], "listing name is required")
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		f := newRouterFixture(t)

		rec := f.do(http.MethodPost, "/listings", aliceToken, `{"name":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPlaceBid(t *testing.T) {
	t.Run("Accepted", func(t *testing.T) {
		f := newRouterFixture(t)
		bid := &domain.Bid{ID: 5, ListingID: 1, UserID: 7, Amount: decimal.RequireFromString("12"), CreatedAt: time.Now().UTC()}
		f.auctions.On("PlaceBid", mock.Anything, int64(1), int64(7), mock.MatchedBy(func(d decimal.Decimal) bool {
			return d.Equal(decimal.RequireFromString("12"))
		})).Return(bid, nil).Once()

		rec := f.do(http.MethodPost, "/listings/1/bids", aliceToken, `{"amount":"12"}`)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "12.00", decodeBody(t, rec)["amount"])
	})

	t.Run("RejectedCarriesRuleAndMinimum", func(t *testing.T) {
		f := newRouterFixture(t)
		rejection := &domain.BidRejection{
			Rule:    domain.BidRuleNoBidsYet,
			Minimum: decimal.RequireFromString("10"),
			Amount:  decimal.RequireFromString("8"),
		}
		f.auctions.On("PlaceBid", mock.Anything, int64(1), int64(7), mock.Anything).Return(nil, rejection).Once()

		rec := f.do(http.MethodPost, "/listings/1/bids", aliceToken, `{"amount":8}`)

		require.Equal(t, http.StatusConflict, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "no_bids_yet", body["rule"])
		assert.Equal(t, "10.00", body["minimum"])
		assert.Equal(t, "your bid must be at least the starting price ($10.00)", body["error"])
	})

	t.Run("ClosedListing", func(t *testing.T) {
		f := newRouterFixture(t)
		f.auctions.On("PlaceBid", mock.Anything, int64(1), int64(7), mock.Anything).
			Return(nil, fmt.Errorf("place bid: listing 1: %w", util.ErrListingClosed)).Once()

		rec := f.do(http.MethodPost, "/listings/1/bids", aliceToken, `{"amount":"99"}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "Listing is closed", decodeBody(t, rec)["error"])
	})

	t.Run("MissingAmount", func(t *testing.T) {
		f := newRouterFixture(t)

		rec := f.do(http.MethodPost, "/listings/1/bids", aliceToken, `{}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeBody(t, rec)["error"], "amount is required")
	})

	t.Run("BadListingID", func(t *testing.T) {
		f := newRouterFixture(t)

		rec := f.do(http.MethodPost, "/listings/abc/bids", aliceToken, `{"amount":"1"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Quick", func(t *testing.T) {
		f := newRouterFixture(t)
		bid := &domain.Bid{ID: 6, ListingID: 1, UserID: 7, Amount: decimal.RequireFromString("13")}
		f.auctions.On("PlaceQuickBid", mock.Anything, int64(1), int64(7)).Return(bid, nil).Once()

		rec := f.do(http.MethodPost, "/listings/1/bids/quick", aliceToken, "")

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "13.00", decodeBody(t, rec)["amount"])
	})
}

func TestGetListing(t *testing.T) {
	detail := &service.ListingDetail{
		Listing:      listing(1, 2, "10"),
		CurrentPrice: decimal.RequireFromString("10"),
	}

	t.Run("Anonymous", func(t *testing.T) {
		f := newRouterFixture(t)
		f.auctions.On("GetListing", mock.Anything, int64(1), (*int64)(nil)).Return(detail, nil).Once()

		rec := f.do(http.MethodGet, "/listings/1", "", "")

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, false, body["watching"])
		assert.Equal(t, []interface{}{}, body["bids"])
		assert.Nil(t, body["winner_id"])
	})

	t.Run("ViewerPassedThrough", func(t *testing.T) {
		f := newRouterFixture(t)
		f.auctions.On("GetListing", mock.Anything, int64(1), mock.MatchedBy(func(v *int64) bool {
			return v != nil && *v == 7
		})).Return(detail, nil).Once()

		rec := f.do(http.MethodGet, "/listings/1", aliceToken, "")

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("InvalidTokenRejected", func(t *testing.T) {
		f := newRouterFixture(t)

		rec := f.do(http.MethodGet, "/listings/1", "forged", "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("NotFound", func(t *testing.T) {
		f := newRouterFixture(t)
		f.auctions.On("GetListing", mock.Anything, int64(404), (*int64)(nil)).Return(nil, util.ErrNotFound).Once()

		rec := f.do(http.MethodGet, "/listings/404", "", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCloseAndDelete(t *testing.T) {
	t.Run("CloseForbidden", func(t *testing.T) {
		f := newRouterFixture(t)
		f.auctions.On("CloseListing", mock.Anything, int64(1), int64(7)).
			Return(nil, fmt.Errorf("close listing 1: %w", util.ErrForbidden)).Once()

		rec := f.do(http.MethodPost, "/listings/1/close", aliceToken, "")

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("Close", func(t *testing.T) {
		f := newRouterFixture(t)
		closed := listing(1, 7, "10")
		closed.Close()
		f.auctions.On("CloseListing", mock.Anything, int64(1), int64(7)).Return(closed, nil).Once()

		rec := f.do(http.MethodPost, "/listings/1/close", aliceToken, "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"listing_id":1,"active":false}`, rec.Body.String())
	})

	t.Run("Delete", func(t *testing.T) {
		f := newRouterFixture(t)
		f.auctions.On("DeleteListing", mock.Anything, int64(1), int64(7)).Return(nil).Once()

		rec := f.do(http.MethodDelete, "/listings/1", aliceToken, "")

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestWatchRoutes(t *testing.T) {
	tests := []struct {
		method   string
		call     string
		watching bool
	}{
		{http.MethodPost, "ToggleWatch", true},
		{http.MethodPut, "AddToWatchlist", true},
		{http.MethodDelete, "RemoveFromWatchlist", false},
	}
	for _, tt := range tests {
		t.Run(tt.call, func(t *testing.T) {
			f := newRouterFixture(t)
			f.auctions.On(tt.call, mock.Anything, int64(1), int64(7)).
				Return(&domain.WatchState{ListingID: 1, Watching: tt.watching}, nil).Once()

			rec := f.do(tt.method, "/listings/1/watch", aliceToken, "")

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.watching, decodeBody(t, rec)["watching"])
		})
	}

	t.Run("Watchlist", func(t *testing.T) {
		f := newRouterFixture(t)
		f.auctions.On("ListWatchlist", mock.Anything, int64(7)).Return([]domain.ListingSummary{}, nil).Once()

		rec := f.do(http.MethodGet, "/watchlist", aliceToken, "")

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestCategoryRoutes(t *testing.T) {
	t.Run("List", func(t *testing.T) {
		f := newRouterFixture(t)
		f.auctions.On("ListCategories", mock.Anything).Return([]domain.Category{{ID: 1, Name: "Books"}}, nil).Once()

		rec := f.do(http.MethodGet, "/categories", "", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"data":[{"id":1,"name":"Books"}],"count":1}`, rec.Body.String())
	})

	t.Run("UnknownCategory", func(t *testing.T) {
		f := newRouterFixture(t)
		f.auctions.On("ListActiveByCategory", mock.Anything, int64(9)).Return(nil, util.ErrNotFound).Once()

		rec := f.do(http.MethodGet, "/categories/9/listings", "", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAuthRoutes(t *testing.T) {
	t.Run("RegisterDuplicate", func(t *testing.T) {
		f := newRouterFixture(t)
		f.accounts.On("Register", mock.Anything, service.RegisterInput{Username: "alice", Password: "pw", Confirmation: "pw"}).
			Return(nil, fmt.Errorf("register: %w", util.ErrDuplicateEntry)).Once()

		rec := f.do(http.MethodPost, "/auth/register", "", `{"username":"alice","password":"pw","confirmation":"pw"}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("LoginSuccess", func(t *testing.T) {
		f := newRouterFixture(t)
		token := &service.AuthToken{Token: "jwt", ExpiresAt: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), User: &domain.User{ID: 7, Username: "alice", PasswordHash: "secret-hash"}}
		f.accounts.On("Login", mock.Anything, "alice", "pw").Return(token, nil).Once()

		rec := f.do(http.MethodPost, "/auth/login", "", `{"username":"alice","password":"pw"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "jwt", decodeBody(t, rec)["token"])
		assert.NotContains(t, rec.Body.String(), "secret-hash")
	})

	t.Run("LoginUnauthorized", func(t *testing.T) {
		f := newRouterFixture(t)
		f.accounts.On("Login", mock.Anything, "alice", "bad").
			Return(nil, fmt.Errorf("%w: invalid username and/or password", util.ErrUnauthorized)).Once()

		rec := f.do(http.MethodPost, "/auth/login", "", `{"username":"alice","password":"bad"}`)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("MeReturnsCaller", func(t *testing.T) {
		f := newRouterFixture(t)
		f.accounts.On("CurrentUser", mock.Anything, int64(7)).
			Return(&domain.User{ID: 7, Username: "alice", PasswordHash: "secret-hash"}, nil).Once()

		rec := f.do(http.MethodGet, "/auth/me", aliceToken, "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "alice", decodeBody(t, rec)["username"])
		assert.NotContains(t, rec.Body.String(), "secret-hash")
	})

	t.Run("MeRequiresToken", func(t *testing.T) {
		f := newRouterFixture(t)

		rec := f.do(http.MethodGet, "/auth/me", "", "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		f.accounts.AssertNotCalled(t, "CurrentUser", mock.Anything, mock.Anything)
	})

	t.Run("RegisterPasswordTooLong", func(t *testing.T) {
		f := newRouterFixture(t)
		f.accounts.On("Register", mock.Anything, mock.AnythingOfType("service.RegisterInput")).
			Return(nil, fmt.Errorf("%w: password must be at most 72 bytes", util.ErrInvalidInput)).Once()

		rec := f.do(http.MethodPost, "/auth/register", "", `{"username":"alice","password":"pw","confirmation":"pw"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUnhandledErrorIsInternal(t *testing.T) {
	f := newRouterFixture(t)
	f.auctions.On("ListCategories", mock.Anything).Return(nil, errors.New("connection reset")).Once()

	rec := f.do(http.MethodGet, "/categories", "", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
}
