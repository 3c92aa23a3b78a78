package form

import (
	"strconv"

	"github.com/shopspring/decimal"
)

type Register struct {
	Name     string `form:"name"     validate:"required,max=100"`
	Email    string `form:"email"    validate:"required,email,max=100"`
	Password string `form:"password" validate:"required,max=72"`
}

type Login struct {
	Email    string `form:"email"    validate:"required"`
	Password string `form:"password" validate:"required"`
}

// Product is the create/edit form. Every field is required on both.
type Product struct {
	Name        string `form:"name"        validate:"required,max=250"`
	Description string `form:"description" validate:"required,max=250"`
	Price       string `form:"price"       validate:"required,price"`
	ImageURL    string `form:"img_url"     validate:"required,url,max=250"`
	Quantity    string `form:"quantity"    validate:"required,positiveint"`
}

// PriceAmount is the validated price. Call only after Validate succeeded.
func (p Product) PriceAmount() decimal.Decimal {
	d, _ := decimal.NewFromString(p.Price)
	return d
}

// QuantityInt is the validated quantity. Call only after Validate succeeded.
func (p Product) QuantityInt() int {
	n, _ := strconv.Atoi(p.Quantity)
	return n
}

type Comment struct {
	Text string `form:"comment_text" validate:"required"`
}
