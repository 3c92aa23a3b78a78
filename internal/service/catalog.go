package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/apperror"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/model"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/payment"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/repository"
)

// ProductInput is a validated create/edit form.
type ProductInput struct {
	Name        string
	Description string
	ImageURL    string
	Price       decimal.Decimal
	Quantity    int
}

// CatalogService manages products. Every product also exists at the payment
// provider, so create and edit go there first and only then touch the
// local row.
type CatalogService struct {
	products repository.ProductRepository
	comments repository.CommentRepository
	provider payment.Provider
	logger   *slog.Logger
}

func NewCatalogService(
	products repository.ProductRepository,
	comments repository.CommentRepository,
	provider payment.Provider,
	logger *slog.Logger,
) *CatalogService {
	return &CatalogService{
		products: products,
		comments: comments,
		provider: provider,
		logger:   logger,
	}
}

func (s *CatalogService) List(ctx context.Context) ([]model.Product, error) {
	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/catalog: listing products: %w", err)
	}
	return products, nil
}

func (s *CatalogService) Get(ctx context.Context, id int64) (*model.Product, error) {
	p, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/catalog: fetching product %d: %w", id, err)
	}
	return p, nil
}

// ProductPage is a product together with its comments.
type ProductPage struct {
	Product  *model.Product
	Comments []model.Comment
}

func (s *CatalogService) ProductPage(ctx context.Context, id int64) (*ProductPage, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListComments(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/catalog: listing comments of product %d: %w", id, err)
	}
	return &ProductPage{Product: p, Comments: comments}, nil
}

// checkInput validates in and returns its price in cents.
func checkInput(in ProductInput) (int64, error) {
	if !in.Price.IsPositive() {
		return 0, apperror.ValidationFailed("price", "Price must be a positive number.")
	}
	cents, err := payment.MinorUnits(in.Price)
	if err != nil {
		return 0, apperror.ValidationFailed("price", "Price cannot be more than 999999.99.")
	}
	if cents <= 0 {
		return 0, apperror.ValidationFailed("price", "Price must be at least 0.01.")
	}
	if in.Quantity < 1 {
		return 0, apperror.ValidationFailed("quantity", "Number must be at least 1.")
	}
	return cents, nil
}

// Create registers the product and its price with the provider, then stores
// it locally with both provider ids. A provider failure leaves nothing behind
// locally.
func (s *CatalogService) Create(ctx context.Context, in ProductInput) (*model.Product, error) {
	cents, err := checkInput(in)
	if err != nil {
		return nil, err
	}

	providerID, err := s.provider.CreateProduct(ctx, in.Name, in.Description)
	if err != nil {
		return nil, fmt.Errorf("service/catalog: registering product with provider: %w", err)
	}
	priceID, err := s.provider.CreatePrice(ctx, providerID, cents)
	if err != nil {
		return nil, fmt.Errorf("service/catalog: creating provider price: %w", err)
	}

	p := &model.Product{
		Name:            in.Name,
		Description:     in.Description,
		ImageURL:        in.ImageURL,
		PriceCents:      cents,
		Quantity:        in.Quantity,
		StripeProductID: providerID,
		StripePriceID:   priceID,
	}
	if err := s.products.CreateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("service/catalog: storing product: %w", err)
	}

	s.logger.Info("product created",
		slog.Int64("productID", p.ID),
		slog.String("stripeProductID", providerID),
		slog.String("price", p.Price().StringFixed(2)),
	)
	return p, nil
}

// Update renames the provider product, creates a fresh provider price (prices
// are immutable there) and overwrites every local field.
func (s *CatalogService) Update(ctx context.Context, id int64, in ProductInput) (*model.Product, error) {
	cents, err := checkInput(in)
	if err != nil {
		return nil, err
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.provider.UpdateProduct(ctx, p.StripeProductID, in.Name, in.Description); err != nil {
		return nil, fmt.Errorf("service/catalog: updating provider product %s: %w", p.StripeProductID, err)
	}
	priceID, err := s.provider.CreatePrice(ctx, p.StripeProductID, cents)
	if err != nil {
		return nil, fmt.Errorf("service/catalog: creating provider price: %w", err)
	}

	p.Name = in.Name
	p.Description = in.Description
	p.ImageURL = in.ImageURL
	p.PriceCents = cents
	p.Quantity = in.Quantity
	p.StripePriceID = priceID
	if err := s.products.UpdateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("service/catalog: updating product %d: %w", id, err)
	}

	s.logger.Info("product updated", slog.Int64("productID", p.ID), slog.String("stripePriceID", priceID))
	return p, nil
}

// Remove deletes the local product. The provider product is left as is.
func (s *CatalogService) Remove(ctx context.Context, id int64) error {
	if err := s.products.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("service/catalog: deleting product %d: %w", id, err)
	}
	s.logger.Info("product removed", slog.Int64("productID", id))
	return nil
}
