package model

import "github.com/shopspring/decimal"

// CartLine is one row of a user's cart: how many units of a product the
// buyer intends to purchase. A (BuyerID, ProductID) pair appears at most once.
type CartLine struct {
	ID        int64 `json:"id"        gorm:"primaryKey"`
	BuyerID   int64 `json:"buyerId"   gorm:"column:buyer_id;not null;uniqueIndex:idx_purchase_buyer_product"`
	ProductID int64 `json:"productId" gorm:"column:product_id;not null;uniqueIndex:idx_purchase_buyer_product"`
	Quantity  int   `json:"quantity"  gorm:"not null;default:1"`
}

// TableName keeps the ORM on the same table name as the SQL backends.
func (CartLine) TableName() string { return "product_purchase" }

// CartItem is a cart line joined with the product it refers to.
type CartItem struct {
	ProductID   int64
	Name        string
	Description string
	ImageURL    string
	PriceCents  int64
	Quantity    int
}

// Price returns the unit price as a currency amount.
func (i CartItem) Price() decimal.Decimal {
	return decimal.New(i.PriceCents, -2)
}

// SubtotalCents is the unit price times the cart quantity.
func (i CartItem) SubtotalCents() int64 {
	return i.PriceCents * int64(i.Quantity)
}

// Subtotal returns SubtotalCents as a currency amount.
func (i CartItem) Subtotal() decimal.Decimal {
	return decimal.New(i.SubtotalCents(), -2)
}

// CartTotal sums the subtotals of items.
func CartTotal(items []CartItem) decimal.Decimal {
	var cents int64
	for _, it := range items {
		cents += it.SubtotalCents()
	}
	return decimal.New(cents, -2)
}
