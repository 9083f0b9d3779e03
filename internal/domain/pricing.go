// internal/domain/pricing.go
package domain

import (
	"fmt"
	"math/big"

	"auction-listings/internal/util"

	"github.com/shopspring/decimal"
)

const (
	// MoneyPlaces is the number of fractional digits kept for every monetary value.
	MoneyPlaces = 2
	// moneyIntDigits is the integer part a NUMERIC(10, 2) column holds.
	moneyIntDigits = 8
)

// MaxMoney is the largest amount that can be stored.
var MaxMoney = decimal.RequireFromString("99999999.99")

// CheckMoney accepts d only if it fits NUMERIC(10, 2) exactly: at most MoneyPlaces
// fractional digits and at most eight integer digits. Sub-cent amounts are rejected,
// never rounded. It works on the coefficient and exponent alone, so inputs such as
// 1e100000000 or 1e-100000000 are refused without being expanded.
func CheckMoney(d decimal.Decimal) (decimal.Decimal, error) {
	coef := d.Coefficient()
	if coef.Sign() == 0 {
		return decimal.Zero, nil
	}
	exp := int64(d.Exponent())

	ten := big.NewInt(10)
	q, r := new(big.Int), new(big.Int)
	for {
		q.QuoRem(coef, ten, r)
		if r.Sign() != 0 {
			break
		}
		coef.Set(q)
		exp++
	}

	if exp < -MoneyPlaces {
		return decimal.Decimal{}, fmt.Errorf("%w: amounts take at most %d decimal places", util.ErrInvalidInput, MoneyPlaces)
	}
	digits := int64(len(new(big.Int).Abs(coef).String()))
	if digits+exp > moneyIntDigits {
		return decimal.Decimal{}, fmt.Errorf("%w: amount exceeds %s", util.ErrInvalidInput, MaxMoney.StringFixed(MoneyPlaces))
	}
	return decimal.NewFromBigInt(coef, int32(exp)), nil
}

// HighestBid picks the top bid: highest amount first, then latest created_at, then highest id.
// It returns nil for an empty slice.
func HighestBid(bids []Bid) *Bid {
	var top *Bid
	for i := range bids {
		b := &bids[i]
		if top == nil {
			top = b
			continue
		}
		switch b.Amount.Cmp(top.Amount) {
		case 1:
			top = b
		case 0:
			if b.CreatedAt.After(top.CreatedAt) || (b.CreatedAt.Equal(top.CreatedAt) && b.ID > top.ID) {
				top = b
			}
		}
	}
	return top
}

// CurrentPrice is the price to beat: the top bid amount, or the starting price without bids.
func CurrentPrice(l *Listing, top *Bid) decimal.Decimal {
	if top != nil {
		return top.Amount
	}
	return l.StartingPrice
}

// IsActive reports the stored open/closed flag. EndTime is deliberately ignored:
// closing is a manual owner action.
func IsActive(l *Listing) bool {
	return l.Active
}

// Winner returns the id of the winning bidder. It reports false while the listing is
// open and when a closed listing never received a bid.
func Winner(l *Listing, top *Bid) (int64, bool) {
	if IsActive(l) || top == nil {
		return 0, false
	}
	return top.UserID, true
}

// ValidateBid checks amount against the listing state and its current top bid.
// The first bid must be at least the starting price; later bids must exceed the current price.
func ValidateBid(l *Listing, top *Bid, amount decimal.Decimal) error {
	if top == nil {
		if amount.GreaterThanOrEqual(l.StartingPrice) {
			return nil
		}
		return &BidRejection{Rule: BidRuleNoBidsYet, Minimum: l.StartingPrice, Amount: amount}
	}
	current := CurrentPrice(l, top)
	if amount.GreaterThan(current) {
		return nil
	}
	return &BidRejection{Rule: BidRuleBelowCurrentPrice, Minimum: current, Amount: amount}
}

// QuickIncrementAmount is the one-click bid amount: current price plus the listing's increment.
// Both operands are stored money, so the sum needs no rounding; callers still pass it
// through ValidateBid and the MaxMoney bound.
func QuickIncrementAmount(l *Listing, top *Bid) decimal.Decimal {
	return CurrentPrice(l, top).Add(l.BidIncrease)
}
