// Package payment talks to the hosted payment provider: it registers catalog
// products and prices there and opens hosted checkout sessions.
package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency is the single currency the shop sells in (ISO 4217, lower case as
// the provider expects).
const Currency = "eur"

// Provider is the subset of the payment provider the shop uses.
type Provider interface {
	// CreateProduct registers a product and returns the provider's id for it.
	CreateProduct(ctx context.Context, name, description string) (string, error)
	// UpdateProduct changes the name and description of an existing product.
	UpdateProduct(ctx context.Context, productID, name, description string) error
	// CreatePrice creates an immutable price for productID and returns its id.
	CreatePrice(ctx context.Context, productID string, amountCents int64) (string, error)
	// CreateCheckoutSession opens a hosted payment page for the given lines.
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*Session, error)
}

// LineItem is one entry on the hosted payment page. Either PriceID is set
// (charge an existing provider price) or the inline Name and UnitCents are
// used to build an ad-hoc price from the current catalog data.
type LineItem struct {
	PriceID     string
	Name        string
	Description string
	UnitCents   int64
	Quantity    int64
}

type CheckoutRequest struct {
	Reference  string
	Lines      []LineItem
	SuccessURL string
	CancelURL  string
}

// Session is a created hosted checkout; the buyer is redirected to URL.
type Session struct {
	ID  string
	URL string
}

// MaxUnitAmount is the largest unit price, in cents, the provider accepts.
const MaxUnitAmount = 99999999

var ErrAmountOutOfRange = errors.New("payment: amount out of range")

// MinorUnits converts a currency amount to cents, rounding half away from
// zero at the cent. Amounts that do not round to 0..MaxUnitAmount cents are
// rejected with ErrAmountOutOfRange.
func MinorUnits(amount decimal.Decimal) (int64, error) {
	cents := amount.Shift(2).Round(0)
	if cents.IsNegative() || cents.GreaterThan(decimal.NewFromInt(MaxUnitAmount)) {
		return 0, fmt.Errorf("%w: %s", ErrAmountOutOfRange, amount)
	}
	return cents.IntPart(), nil
}
