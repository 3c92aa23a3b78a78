package payment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/client"
)

var _ Provider = (*Stripe)(nil)

// Stripe implements Provider on the Stripe API.
type Stripe struct {
	api *client.API
	log *slog.Logger
}

// NewStripe returns a provider authenticated with apiKey. backends may be nil
// to use Stripe's production endpoints; tests pass backends pointing at a
// local server.
func NewStripe(apiKey string, backends *stripe.Backends, log *slog.Logger) *Stripe {
	if backends == nil {
		cfg := &stripe.BackendConfig{LeveledLogger: leveledLogger{log}}
		backends = &stripe.Backends{
			API:     stripe.GetBackendWithConfig(stripe.APIBackend, cfg),
			Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, cfg),
			Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, cfg),
		}
	}

	api := &client.API{}
	api.Init(apiKey, backends)
	return &Stripe{api: api, log: log}
}

func (s *Stripe) CreateProduct(ctx context.Context, name, description string) (string, error) {
	params := &stripe.ProductParams{
		Name:        stripe.String(name),
		Description: stripe.String(description),
	}
	params.Context = ctx

	p, err := s.api.Products.New(params)
	if err != nil {
		return "", fmt.Errorf("payment: creating product %q: %w", name, err)
	}
	return p.ID, nil
}

func (s *Stripe) UpdateProduct(ctx context.Context, productID, name, description string) error {
	params := &stripe.ProductParams{
		Name:        stripe.String(name),
		Description: stripe.String(description),
	}
	params.Context = ctx

	if _, err := s.api.Products.Update(productID, params); err != nil {
		return fmt.Errorf("payment: updating product %s: %w", productID, err)
	}
	return nil
}

func (s *Stripe) CreatePrice(ctx context.Context, productID string, amountCents int64) (string, error) {
	params := &stripe.PriceParams{
		Product:    stripe.String(productID),
		UnitAmount: stripe.Int64(amountCents),
		Currency:   stripe.String(Currency),
	}
	params.Context = ctx

	p, err := s.api.Prices.New(params)
	if err != nil {
		return "", fmt.Errorf("payment: creating price for %s: %w", productID, err)
	}
	return p.ID, nil
}

func (s *Stripe) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*Session, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
		ClientReferenceID: stripe.String(req.Reference),
	}
	params.Context = ctx

	for _, line := range req.Lines {
		item := &stripe.CheckoutSessionLineItemParams{Quantity: stripe.Int64(line.Quantity)}
		if line.PriceID != "" {
			item.Price = stripe.String(line.PriceID)
		} else {
			item.PriceData = &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(Currency),
				UnitAmount: stripe.Int64(line.UnitCents),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:        stripe.String(line.Name),
					Description: stripe.String(line.Description),
				},
			}
		}
		params.LineItems = append(params.LineItems, item)
	}

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		s.log.Error("failed to create stripe checkout session", "reference", req.Reference, "error", err)
		return nil, err
	}
	return &Session{ID: sess.ID, URL: sess.URL}, nil
}

// leveledLogger adapts slog to the logger interface stripe-go expects.
type leveledLogger struct {
	log *slog.Logger
}

func (l leveledLogger) Debugf(format string, v ...interface{}) {
	l.log.Debug(fmt.Sprintf(format, v...), "component", "stripe")
}

func (l leveledLogger) Infof(format string, v ...interface{}) {
	l.log.Debug(fmt.Sprintf(format, v...), "component", "stripe")
}

func (l leveledLogger) Warnf(format string, v ...interface{}) {
	l.log.Warn(fmt.Sprintf(format, v...), "component", "stripe")
}

func (l leveledLogger) Errorf(format string, v ...interface{}) {
	l.log.Error(fmt.Sprintf(format, v...), "component", "stripe")
}
