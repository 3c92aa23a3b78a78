package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a photo print offered in the shop.
//
// The price is kept in minor units (cents) so every backend stores a plain
// integer. Price() turns it back into a currency amount for display and for
// the edit form.
//
// StripeProductID and StripePriceID point at the payment provider's records.
// Editing a product creates a new provider price and repoints StripePriceID;
// the old price is left on the provider.
type Product struct {
	ID              int64     `json:"id"              gorm:"primaryKey"`
	Name            string    `json:"name"            gorm:"size:250;not null"`
	Description     string    `json:"description"     gorm:"size:250;not null"`
	ImageURL        string    `json:"imageUrl"        gorm:"column:img_url;size:250;not null"`
	PriceCents      int64     `json:"priceCents"      gorm:"column:price_cents;not null"`
	Quantity        int       `json:"quantity"        gorm:"not null"`
	StripeProductID string    `json:"stripeProductId" gorm:"column:stripe_product_id;size:250;not null"`
	StripePriceID   string    `json:"stripePriceId"   gorm:"column:stripe_price_id;size:250;not null"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Price returns the unit price as a currency amount (two decimal places).
func (p Product) Price() decimal.Decimal {
	return decimal.New(p.PriceCents, -2)
}

// InStock reports whether at least one unit is left.
func (p Product) InStock() bool {
	return p.Quantity > 0
}
