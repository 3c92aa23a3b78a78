package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rs/xid"

	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/apperror"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/model"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/payment"
	"github.com/Zummiee/eCommerceSite-for-photos-with-postgresql/internal/repository"
)

// Paths the provider sends the buyer back to. They are joined to the site
// domain.
const (
	SingleSuccessPath = "/checkout/single/success"
	CartSuccessPath   = "/checkout/success"
	CancelPath        = "/checkout/cancel"
)

// ProviderError is a failure reported by the payment provider while opening a
// hosted checkout. Its message is the provider's own text.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string { return e.Err.Error() }
func (e *ProviderError) Unwrap() error { return e.Err }

// CheckoutService opens hosted checkouts and applies them once the buyer
// comes back on a success URL.
//
// The success redirect is trusted as proof of payment; nothing is confirmed
// with the provider. Each pending checkout is a snapshot stored in the buyer's
// session by the caller, and Complete must be given that snapshot at most once.
type CheckoutService struct {
	cart       repository.CartRepository
	products   repository.ProductRepository
	provider   payment.Provider
	siteDomain string
	logger     *slog.Logger
}

func NewCheckoutService(
	cart repository.CartRepository,
	products repository.ProductRepository,
	provider payment.Provider,
	siteDomain string,
	logger *slog.Logger,
) *CheckoutService {
	return &CheckoutService{
		cart:       cart,
		products:   products,
		provider:   provider,
		siteDomain: strings.TrimRight(siteDomain, "/"),
		logger:     logger,
	}
}

// Started is an opened hosted checkout: the snapshot to keep in the session
// and the provider session to redirect to.
type Started struct {
	Checkout *model.Checkout
	Session  *payment.Session
}

// StartSingle opens a "buy now" checkout for one unit of a product at its
// stored provider price. Stock is not checked.
func (s *CheckoutService) StartSingle(ctx context.Context, userID, productID int64) (*Started, error) {
	p, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("service/checkout: fetching product %d: %w", productID, err)
	}

	line := payment.LineItem{PriceID: p.StripePriceID, Quantity: 1}
	if p.StripePriceID == "" {
		line = payment.LineItem{Name: p.Name, Description: p.Description, UnitCents: p.PriceCents, Quantity: 1}
	}

	c := &model.Checkout{
		Reference: xid.New().String(),
		Mode:      model.CheckoutSingle,
		UserID:    userID,
		Lines: []model.CheckoutLine{
			{ProductID: p.ID, Name: p.Name, Quantity: 1, UnitCents: p.PriceCents},
		},
	}
	return s.open(ctx, c, []payment.LineItem{line}, SingleSuccessPath)
}

// StartCart opens a checkout for the whole cart. Every line is priced from
// the product's current price rather than its stored provider price.
func (s *CheckoutService) StartCart(ctx context.Context, userID int64) (*Started, error) {
	items, err := s.cart.ListCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/checkout: listing cart of user %d: %w", userID, err)
	}
	if len(items) == 0 {
		return nil, apperror.ValidationFailed("cart", "Your cart is empty.")
	}

	c := &model.Checkout{
		Reference: xid.New().String(),
		Mode:      model.CheckoutCart,
		UserID:    userID,
		Lines:     make([]model.CheckoutLine, 0, len(items)),
	}
	lines := make([]payment.LineItem, 0, len(items))
	for _, it := range items {
		c.Lines = append(c.Lines, model.CheckoutLine{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitCents: it.PriceCents,
		})
		lines = append(lines, payment.LineItem{
			Name:        it.Name,
			Description: it.Description,
			UnitCents:   it.PriceCents,
			Quantity:    int64(it.Quantity),
		})
	}
	return s.open(ctx, c, lines, CartSuccessPath)
}

func (s *CheckoutService) open(ctx context.Context, c *model.Checkout, lines []payment.LineItem, successPath string) (*Started, error) {
	sess, err := s.provider.CreateCheckoutSession(ctx, payment.CheckoutRequest{
		Reference:  c.Reference,
		Lines:      lines,
		SuccessURL: s.siteDomain + successPath,
		CancelURL:  s.siteDomain + CancelPath,
	})
	if err != nil {
		return nil, &ProviderError{Err: err}
	}

	s.logger.Info("checkout started",
		slog.String("reference", c.Reference),
		slog.String("mode", string(c.Mode)),
		slog.Int64("userID", c.UserID),
		slog.String("sessionID", sess.ID),
	)
	return &Started{Checkout: c, Session: sess}, nil
}

// Complete applies a pending checkout: stock goes down by each line's
// quantity and, for a cart checkout, the bought lines leave the cart.
//
// The snapshot must belong to userID and match the success URL it arrived
// on. Stock may go negative; that is logged, not refused.
func (s *CheckoutService) Complete(ctx context.Context, userID int64, c *model.Checkout, mode model.CheckoutMode) error {
	if c == nil {
		return apperror.ValidationFailed("checkout", "no pending checkout")
	}
	if c.UserID != userID {
		return apperror.Forbidden("checkout belongs to another user")
	}
	if c.Mode != mode {
		return apperror.ValidationFailed("checkout", fmt.Sprintf("pending checkout is %q, not %q", c.Mode, mode))
	}

	if err := s.cart.FulfillCheckout(ctx, c); err != nil {
		return fmt.Errorf("service/checkout: fulfilling %s: %w", c.Reference, err)
	}
	s.logger.Info("checkout fulfilled",
		slog.String("reference", c.Reference),
		slog.String("mode", string(c.Mode)),
		slog.Int64("userID", userID),
		slog.Int("lines", len(c.Lines)),
	)

	s.warnOversold(ctx, c)
	return nil
}

func (s *CheckoutService) warnOversold(ctx context.Context, c *model.Checkout) {
	for _, l := range c.Lines {
		p, err := s.products.GetProduct(ctx, l.ProductID)
		if err != nil {
			if !errors.Is(err, apperror.ErrNotFound) {
				s.logger.Error("failed to re-read product after checkout",
					slog.Int64("productID", l.ProductID),
					slog.String("error", err.Error()),
				)
			}
			continue
		}
		if p.Quantity < 0 {
			s.logger.Warn("product oversold",
				slog.Int64("productID", p.ID),
				slog.Int("quantity", p.Quantity),
				slog.String("reference", c.Reference),
			)
		}
	}
}
