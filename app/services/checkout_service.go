// Package services holds the business logic. Services depend on small
// interfaces satisfied by the repositories so they can be exercised against
// in-memory fakes.
package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/maplecart/app/models"
	"github.com/shashiranjanraj/maplecart/app/payment"
	"github.com/shashiranjanraj/maplecart/config"
	"github.com/shashiranjanraj/maplecart/pkg/apperr"
	"github.com/shashiranjanraj/maplecart/pkg/metrics"
)

// Gateway opens hosted payment sessions.
type Gateway interface {
	CreateSession(ctx context.Context, in payment.SessionInput) (payment.Session, error)
}

type productFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error)
}

// CheckoutItem is one cart line submitted for payment.
type CheckoutItem struct {
	ProductID string `json:"product" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// CheckoutService turns a cart into a hosted payment session. Nothing is
// written locally; the order is only recorded after the customer pays.
type CheckoutService struct {
	products productFinder
	gateway  Gateway
}

func NewCheckoutService(products productFinder, gateway Gateway) *CheckoutService {
	return &CheckoutService{products: products, gateway: gateway}
}

// BuildSession prices each cart line from the current catalog, attaches the
// flat shipping rate and opens a checkout session. Prices are integer cents.
func (s *CheckoutService) BuildSession(ctx context.Context, email string, items []CheckoutItem) (payment.Session, error) {
	if len(items) == 0 {
		return payment.Session{}, apperr.Validation("cart is empty")
	}

	lines := make([]payment.LineItem, 0, len(items))
	for _, it := range items {
		id, err := primitive.ObjectIDFromHex(it.ProductID)
		if err != nil {
			return payment.Session{}, apperr.Validation("invalid product id %q", it.ProductID)
		}
		p, err := s.products.FindByID(ctx, id)
		if err != nil {
			return payment.Session{}, err
		}
		lines = append(lines, payment.LineItem{
			Name:       p.Name,
			UnitAmount: p.Price,
			Quantity:   int64(it.Quantity),
		})
	}

	sess, err := s.gateway.CreateSession(ctx, payment.SessionInput{
		LineItems:      lines,
		ShippingAmount: config.ShippingAmount(),
		Currency:       config.Currency(),
		CustomerEmail:  email,
		SuccessURL:     config.ClientURL() + "/orders",
		CancelURL:      config.ClientURL() + "/cancel.html",
	})
	if err != nil {
		metrics.PaymentSessions.WithLabelValues("failed").Inc()
		return payment.Session{}, apperr.PaymentGateway(err, "could not create payment session")
	}
	metrics.PaymentSessions.WithLabelValues("created").Inc()
	return sess, nil
}
