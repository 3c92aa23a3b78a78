// Package repository declares the persistence contracts used by the service
// layer. Implementations live in the sqlite, postgres and gormstore
// sub-packages; services only ever see these interfaces.
package repository

import (
	"context"

	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/model"
)

// UserRepository stores accounts. Create returns apperror.ErrConflict when the
// email or the name is already taken, and the Get methods return
// apperror.ErrNotFound for unknown keys.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByName(ctx context.Context, name string) (*model.User, error)
}

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *model.Product) error
	GetProduct(ctx context.Context, id int64) (*model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	// UpdateProduct overwrites every editable field of the stored row.
	UpdateProduct(ctx context.Context, product *model.Product) error
	// DeleteProduct removes the product together with its cart rows and comments.
	DeleteProduct(ctx context.Context, id int64) error
}

type CommentRepository interface {
	CreateComment(ctx context.Context, comment *model.Comment) error
	GetComment(ctx context.Context, id int64) (*model.Comment, error)
	// ListComments returns the comments of a product, oldest first, with the
	// author's name and email filled in.
	ListComments(ctx context.Context, productID int64) ([]model.Comment, error)
	DeleteComment(ctx context.Context, id int64) error
}

type CartRepository interface {
	// AddToCart inserts a line with quantity 1, or bumps the existing line by one.
	AddToCart(ctx context.Context, buyerID, productID int64) (*model.CartLine, error)
	// RemoveFromCart deletes the line whatever its quantity.
	RemoveFromCart(ctx context.Context, buyerID, productID int64) error
	ListCart(ctx context.Context, buyerID int64) ([]model.CartItem, error)
	// FulfillCheckout applies a paid checkout in one transaction: stock is
	// reduced by each line's quantity and, for cart checkouts, the matching
	// cart lines are removed.
	FulfillCheckout(ctx context.Context, checkout *model.Checkout) error
}

// Store is everything a backend provides.
type Store interface {
	UserRepository
	ProductRepository
	CommentRepository
	CartRepository
	Close() error
}
