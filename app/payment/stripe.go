// Package payment wraps the Stripe Checkout API behind a small gateway type
// so the checkout service can be tested against a fake.
package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"

	"github.com/shashiranjanraj/maplecart/config"
)

// LineItem is one purchasable line in a checkout session. UnitAmount is in
// the currency's smallest unit (cents).
type LineItem struct {
	Name       string
	UnitAmount int64
	Quantity   int64
}

// SessionInput carries everything needed to open a hosted checkout session.
type SessionInput struct {
	LineItems      []LineItem
	ShippingAmount int64
	Currency       string
	CustomerEmail  string
	SuccessURL     string
	CancelURL      string
}

// Session is the gateway's handle for a created checkout session. URL is
// where the customer completes payment; Status is the session's payment
// status as reported by the processor ("unpaid" until completed).
type Session struct {
	ID     string
	Status string
	URL    string
}

// StripeGateway creates hosted checkout sessions against Stripe.
type StripeGateway struct{}

// NewStripeGateway configures the Stripe client from the environment.
func NewStripeGateway() *StripeGateway {
	stripe.Key = config.StripeKey()
	return &StripeGateway{}
}

// CreateSession opens a payment-mode checkout session with a fixed shipping
// rate and a 5-7 business day delivery estimate.
func (g *StripeGateway) CreateSession(ctx context.Context, in SessionInput) (Session, error) {
	items := make([]*stripe.CheckoutSessionLineItemParams, 0, len(in.LineItems))
	for _, li := range in.LineItems {
		items = append(items, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(in.Currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(li.Name),
				},
				UnitAmount: stripe.Int64(li.UnitAmount),
			},
			Quantity: stripe.Int64(li.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:      stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: items,
		ShippingOptions: []*stripe.CheckoutSessionShippingOptionParams{{
			ShippingRateData: &stripe.CheckoutSessionShippingOptionShippingRateDataParams{
				Type:        stripe.String("fixed_amount"),
				DisplayName: stripe.String("Standard shipping"),
				FixedAmount: &stripe.CheckoutSessionShippingOptionShippingRateDataFixedAmountParams{
					Amount:   stripe.Int64(in.ShippingAmount),
					Currency: stripe.String(in.Currency),
				},
				DeliveryEstimate: &stripe.CheckoutSessionShippingOptionShippingRateDataDeliveryEstimateParams{
					Minimum: &stripe.CheckoutSessionShippingOptionShippingRateDataDeliveryEstimateMinimumParams{
						Unit:  stripe.String("business_day"),
						Value: stripe.Int64(5),
					},
					Maximum: &stripe.CheckoutSessionShippingOptionShippingRateDataDeliveryEstimateMaximumParams{
						Unit:  stripe.String("business_day"),
						Value: stripe.Int64(7),
					},
				},
			},
		}},
		SuccessURL: stripe.String(in.SuccessURL),
		CancelURL:  stripe.String(in.CancelURL),
	}
	if in.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(in.CustomerEmail)
	}
	params.Context = ctx

	s, err := session.New(params)
	if err != nil {
		return Session{}, fmt.Errorf("stripe session: %w", err)
	}
	return Session{ID: s.ID, Status: string(s.PaymentStatus), URL: s.URL}, nil
}
