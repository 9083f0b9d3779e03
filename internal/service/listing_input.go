// internal/service/listing_input.go
package service

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"auction-listings/internal/domain"
	"auction-listings/internal/util"

	"github.com/shopspring/decimal"
)

// End time layouts accepted from datetime-local style inputs, with and without seconds.
var endTimeLayouts = []string{"2006-01-02T15:04", "2006-01-02T15:04:05"}

var defaultStartingPrice = decimal.Zero

// CreateListingInput carries the raw, untrimmed fields of a listing form.
type CreateListingInput struct {
	Name          string
	Description   string
	StartingPrice string
	BidIncrease   string
	EndTime       string
	ImageURL      string
	CategoryName  string
}

// normalizedListing is CreateListingInput after trimming, parsing and validation.
type normalizedListing struct {
	name          string
	description   string
	startingPrice decimal.Decimal
	bidIncrease   decimal.Decimal
	endTime       *time.Time
	imageURL      *string
	categoryName  string
}

// normalizeListingInput validates in. Unparseable money falls back to the policy
// defaults (0 for the starting price, 1.00 for the increase) instead of failing;
// a parsed amount that does not fit the money column is rejected.
func normalizeListingInput(in CreateListingInput, loc *time.Location, now time.Time) (*normalizedListing, error) {
	out := &normalizedListing{
		name:         strings.TrimSpace(in.Name),
		description:  strings.TrimSpace(in.Description),
		categoryName: strings.TrimSpace(in.CategoryName),
	}

	if out.name == "" {
		return nil, fmt.Errorf("%w: listing name is required", util.ErrInvalidInput)
	}

	var err error
	if out.startingPrice, err = parseMoneyOr(in.StartingPrice, defaultStartingPrice); err != nil {
		return nil, fmt.Errorf("starting price: %w", err)
	}
	if out.startingPrice.IsNegative() {
		return nil, fmt.Errorf("%w: starting price cannot be negative", util.ErrInvalidInput)
	}
	if out.bidIncrease, err = parseMoneyOr(in.BidIncrease, domain.DefaultBidIncrease); err != nil {
		return nil, fmt.Errorf("bid increase: %w", err)
	}

	if raw := strings.TrimSpace(in.EndTime); raw != "" {
		endTime, err := parseEndTime(raw, loc)
		if err != nil {
			return nil, err
		}
		if !endTime.After(now) {
			return nil, fmt.Errorf("%w: end time must be in the future", util.ErrInvalidInput)
		}
		out.endTime = &endTime
	}

	if raw := strings.TrimSpace(in.ImageURL); raw != "" {
		u, err := url.ParseRequestURI(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, fmt.Errorf("%w: image url must be an absolute http(s) url", util.ErrInvalidInput)
		}
		out.imageURL = &raw
	}

	return out, nil
}

func parseMoneyOr(raw string, fallback decimal.Decimal) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return fallback, nil
	}
	return domain.CheckMoney(d)
}

func parseEndTime(raw string, loc *time.Location) (time.Time, error) {
	for _, layout := range endTimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid end time format", util.ErrInvalidInput)
}
