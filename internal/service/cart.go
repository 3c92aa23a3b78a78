package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/model"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/repository"
)

type CartService struct {
	cart     repository.CartRepository
	products repository.ProductRepository
	logger   *slog.Logger
}

func NewCartService(cart repository.CartRepository, products repository.ProductRepository, logger *slog.Logger) *CartService {
	return &CartService{cart: cart, products: products, logger: logger}
}

// Add puts one more unit of the product in the user's cart. Stock is not
// checked here.
func (s *CartService) Add(ctx context.Context, userID, productID int64) (*model.CartLine, error) {
	if _, err := s.products.GetProduct(ctx, productID); err != nil {
		return nil, fmt.Errorf("service/cart: fetching product %d: %w", productID, err)
	}
	line, err := s.cart.AddToCart(ctx, userID, productID)
	if err != nil {
		return nil, fmt.Errorf("service/cart: adding product %d: %w", productID, err)
	}
	s.logger.Debug("cart line updated",
		slog.Int64("userID", userID),
		slog.Int64("productID", productID),
		slog.Int("quantity", line.Quantity),
	)
	return line, nil
}

// Remove drops the product from the cart whatever its quantity.
func (s *CartService) Remove(ctx context.Context, userID, productID int64) error {
	if err := s.cart.RemoveFromCart(ctx, userID, productID); err != nil {
		return fmt.Errorf("service/cart: removing product %d: %w", productID, err)
	}
	return nil
}

// Cart is a user's cart with its total.
type Cart struct {
	Items []model.CartItem
	Total decimal.Decimal
}

func (s *CartService) List(ctx context.Context, userID int64) (*Cart, error) {
	items, err := s.cart.ListCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/cart: listing cart of user %d: %w", userID, err)
	}
	return &Cart{Items: items, Total: model.CartTotal(items)}, nil
}
