package model

// CheckoutMode tells a success callback what to do with a pending checkout.
type CheckoutMode string

const (
	// CheckoutSingle is "buy now" for one unit of one product.
	CheckoutSingle CheckoutMode = "single"
	// CheckoutCart buys the whole cart; fulfilment also empties it.
	CheckoutCart CheckoutMode = "cart"
)

// Checkout is the snapshot taken when a hosted payment session is created.
// It lives in the buyer's session until the success page consumes it.
//
// Lines are copied from the cart (or the single product) at checkout time,
// so a cart changed during payment does not change what gets fulfilled.
type Checkout struct {
	Reference string
	Mode      CheckoutMode
	UserID    int64
	Lines     []CheckoutLine
}

// CheckoutLine is one product and quantity inside a Checkout.
type CheckoutLine struct {
	ProductID int64
	Name      string
	Quantity  int
	UnitCents int64
}
