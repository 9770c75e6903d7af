package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/maplecart/app/models"
	"github.com/shashiranjanraj/maplecart/pkg/apperr"
)

func TestBuildSessionPricesFromCatalog(t *testing.T) {
	p := &models.Product{Name: "Maple Syrup 500ml", Price: 1000, Stock: 10}
	products := newFakeProducts(p)
	gw := &fakeGateway{}
	svc := NewCheckoutService(products, gw)

	sess, err := svc.BuildSession(context.Background(), "buyer@example.com", []CheckoutItem{
		{ProductID: p.ID.Hex(), Quantity: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_123", sess.ID)
	assert.Equal(t, "unpaid", sess.Status)
	assert.NotEmpty(t, sess.URL)

	require.Len(t, gw.lastInput.LineItems, 1)
	assert.Equal(t, "Maple Syrup 500ml", gw.lastInput.LineItems[0].Name)
	assert.Equal(t, int64(1000), gw.lastInput.LineItems[0].UnitAmount)
	assert.Equal(t, int64(2), gw.lastInput.LineItems[0].Quantity)
	assert.Equal(t, int64(500), gw.lastInput.ShippingAmount)
	assert.Equal(t, "buyer@example.com", gw.lastInput.CustomerEmail)
}

func TestBuildSessionUnknownProduct(t *testing.T) {
	svc := NewCheckoutService(newFakeProducts(), &fakeGateway{})

	_, err := svc.BuildSession(context.Background(), "buyer@example.com", []CheckoutItem{
		{ProductID: primitive.NewObjectID().Hex(), Quantity: 1},
	})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestBuildSessionEmptyCart(t *testing.T) {
	svc := NewCheckoutService(newFakeProducts(), &fakeGateway{})

	_, err := svc.BuildSession(context.Background(), "buyer@example.com", nil)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestBuildSessionGatewayFailure(t *testing.T) {
	p := &models.Product{Name: "Toque", Price: 2500, Stock: 3}
	products := newFakeProducts(p)
	gw := &fakeGateway{err: errBackend}
	svc := NewCheckoutService(products, gw)

	_, err := svc.BuildSession(context.Background(), "buyer@example.com", []CheckoutItem{
		{ProductID: p.ID.Hex(), Quantity: 1},
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindPaymentGateway))

	// the failed attempt must leave the catalog untouched
	stored, _ := products.FindByID(context.Background(), p.ID)
	assert.Equal(t, 3, stored.Stock)
}

func TestBuildSessionInvalidProductID(t *testing.T) {
	svc := NewCheckoutService(newFakeProducts(), &fakeGateway{})

	_, err := svc.BuildSession(context.Background(), "buyer@example.com", []CheckoutItem{
		{ProductID: "not-an-id", Quantity: 1},
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}
