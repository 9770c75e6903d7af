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

func placedOrder(lines ...models.OrderItem) *models.Order {
	return &models.Order{
		User:        primitive.NewObjectID(),
		OrderItems:  lines,
		OrderStatus: models.StatusProcessing,
		TotalPrice:  2500,
	}
}

func TestCreateOrderSnapshotsCatalog(t *testing.T) {
	p := &models.Product{
		Name:   "Canoe Paddle",
		Price:  4500,
		Stock:  10,
		Images: []models.Image{{URL: "https://img.example/paddle.jpg"}},
	}
	products := newFakeProducts(p)
	orders := newFakeOrders()
	svc := NewOrderService(orders, products)
	userID := primitive.NewObjectID()

	order, err := svc.Create(context.Background(), userID, CreateOrderInput{
		Items:       []CheckoutItem{{ProductID: p.ID.Hex(), Quantity: 2}},
		PaymentInfo: models.PaymentInfo{ID: "pi_123", Status: "succeeded"},
		TaxPrice:    585,
	})
	require.NoError(t, err)
	require.Len(t, order.OrderItems, 1)
	assert.Equal(t, "Canoe Paddle", order.OrderItems[0].Name)
	assert.Equal(t, int64(4500), order.OrderItems[0].Price)
	assert.Equal(t, "https://img.example/paddle.jpg", order.OrderItems[0].Image)
	assert.Equal(t, int64(9000), order.ItemsPrice)
	assert.Equal(t, int64(9000+585+500), order.TotalPrice)
	assert.Equal(t, models.StatusProcessing, order.OrderStatus)

	// placing the order alone never touches stock
	stored, _ := products.FindByID(context.Background(), p.ID)
	assert.Equal(t, 10, stored.Stock)

	// later catalog edits must not leak into the snapshot
	p.Price = 9999
	p.Name = "Renamed"
	fetched, err := svc.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Canoe Paddle", fetched.OrderItems[0].Name)
	assert.Equal(t, int64(4500), fetched.OrderItems[0].Price)
}

func TestUpdateStatusShippedDecrementsStockOnce(t *testing.T) {
	p := &models.Product{Name: "Parka", Price: 12000, Stock: 10}
	products := newFakeProducts(p)
	order := placedOrder(models.OrderItem{Product: p.ID, Quantity: 3, Price: 12000})
	orders := newFakeOrders(order)
	svc := NewOrderService(orders, products)

	updated, err := svc.UpdateStatus(context.Background(), order.ID, models.StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, updated.OrderStatus)

	stored, _ := products.FindByID(context.Background(), p.ID)
	assert.Equal(t, 7, stored.Stock)

	// a repeated Shipped is rejected and must not decrement again
	_, err = svc.UpdateStatus(context.Background(), order.ID, models.StatusShipped)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	stored, _ = products.FindByID(context.Background(), p.ID)
	assert.Equal(t, 7, stored.Stock)
}

func TestUpdateStatusRejectsSkippingShipped(t *testing.T) {
	p := &models.Product{Name: "Toboggan", Price: 9500, Stock: 10}
	products := newFakeProducts(p)
	order := placedOrder(models.OrderItem{Product: p.ID, Quantity: 3, Price: 9500})
	orders := newFakeOrders(order)
	svc := NewOrderService(orders, products)

	// Delivered straight from Processing would bypass the decrement
	_, err := svc.UpdateStatus(context.Background(), order.ID, models.StatusDelivered)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	stored, _ := orders.FindByID(context.Background(), order.ID)
	assert.Equal(t, models.StatusProcessing, stored.OrderStatus)
	prod, _ := products.FindByID(context.Background(), p.ID)
	assert.Equal(t, 10, prod.Stock)
}

func TestUpdateStatusRejectsBackwardMoves(t *testing.T) {
	p := &models.Product{Name: "Parka", Price: 12000, Stock: 5}
	products := newFakeProducts(p)
	order := placedOrder(models.OrderItem{Product: p.ID, Quantity: 1, Price: 12000})
	order.OrderStatus = models.StatusDelivered
	orders := newFakeOrders(order)
	svc := NewOrderService(orders, products)

	for _, next := range []models.OrderStatus{models.StatusProcessing, models.StatusShipped} {
		_, err := svc.UpdateStatus(context.Background(), order.ID, next)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation), "to %s", next)
	}
	stored, _ := products.FindByID(context.Background(), p.ID)
	assert.Equal(t, 5, stored.Stock)
}

func TestUpdateStatusPersistFailureLeavesStockUntouched(t *testing.T) {
	p := &models.Product{Name: "Kayak", Price: 64000, Stock: 8}
	products := newFakeProducts(p)
	order := placedOrder(models.OrderItem{Product: p.ID, Quantity: 2, Price: 64000})
	orders := newFakeOrders(order)
	orders.updateStatusErr = errBackend
	svc := NewOrderService(orders, products)

	_, err := svc.UpdateStatus(context.Background(), order.ID, models.StatusShipped)
	require.Error(t, err)

	// the order stayed Processing, so no decrement may have happened and a
	// retry after the write recovers will decrement exactly once
	stored, _ := orders.FindByID(context.Background(), order.ID)
	assert.Equal(t, models.StatusProcessing, stored.OrderStatus)
	prod, _ := products.FindByID(context.Background(), p.ID)
	assert.Equal(t, 8, prod.Stock)

	orders.updateStatusErr = nil
	_, err = svc.UpdateStatus(context.Background(), order.ID, models.StatusShipped)
	require.NoError(t, err)
	prod, _ = products.FindByID(context.Background(), p.ID)
	assert.Equal(t, 6, prod.Stock)
}

func TestUpdateStatusDeliveredStampsTime(t *testing.T) {
	p := &models.Product{Name: "Mittens", Price: 1500, Stock: 5}
	products := newFakeProducts(p)
	order := placedOrder(models.OrderItem{Product: p.ID, Quantity: 1, Price: 1500})
	order.OrderStatus = models.StatusShipped
	orders := newFakeOrders(order)
	svc := NewOrderService(orders, products)

	updated, err := svc.UpdateStatus(context.Background(), order.ID, models.StatusDelivered)
	require.NoError(t, err)
	require.NotNil(t, updated.DeliveredAt)

	// Shipped already decremented earlier; Delivered must not touch stock
	stored, _ := products.FindByID(context.Background(), p.ID)
	assert.Equal(t, 5, stored.Stock)
}

func TestUpdateStatusShippedPartialDecrementContinues(t *testing.T) {
	good := &models.Product{Name: "Snowshoes", Price: 8000, Stock: 6}
	bad := &models.Product{Name: "Thermos", Price: 3000, Stock: 6}
	products := newFakeProducts(good, bad)
	products.decrementErrFor[bad.ID] = errBackend

	order := placedOrder(
		models.OrderItem{Product: bad.ID, Quantity: 2, Price: 3000},
		models.OrderItem{Product: good.ID, Quantity: 2, Price: 8000},
	)
	orders := newFakeOrders(order)
	svc := NewOrderService(orders, products)

	updated, err := svc.UpdateStatus(context.Background(), order.ID, models.StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, updated.OrderStatus)

	// the failing line is skipped, the healthy one still decrements
	g, _ := products.FindByID(context.Background(), good.ID)
	b, _ := products.FindByID(context.Background(), bad.ID)
	assert.Equal(t, 4, g.Stock)
	assert.Equal(t, 6, b.Stock)
}

func TestUpdateStatusUnknownStatus(t *testing.T) {
	svc := NewOrderService(newFakeOrders(), newFakeProducts())
	_, err := svc.UpdateStatus(context.Background(), primitive.NewObjectID(), "Cancelled")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestDeleteOrderDoesNotRestoreStock(t *testing.T) {
	p := &models.Product{Name: "Flannel Shirt", Price: 4000, Stock: 10}
	products := newFakeProducts(p)
	order := placedOrder(models.OrderItem{Product: p.ID, Quantity: 4, Price: 4000})
	orders := newFakeOrders(order)
	svc := NewOrderService(orders, products)

	_, err := svc.UpdateStatus(context.Background(), order.ID, models.StatusShipped)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), order.ID))

	_, err = svc.Get(context.Background(), order.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	stored, _ := products.FindByID(context.Background(), p.ID)
	assert.Equal(t, 6, stored.Stock)
}

func TestListAllWithTotalSumsRevenue(t *testing.T) {
	orders := newFakeOrders(
		&models.Order{User: primitive.NewObjectID(), TotalPrice: 1000, OrderStatus: models.StatusProcessing},
		&models.Order{User: primitive.NewObjectID(), TotalPrice: 2500, OrderStatus: models.StatusShipped},
		&models.Order{User: primitive.NewObjectID(), TotalPrice: 499, OrderStatus: models.StatusDelivered},
	)
	svc := NewOrderService(orders, newFakeProducts())

	all, total, err := svc.ListAllWithTotal(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, int64(3999), total)
}

func TestListByUserFiltersOthers(t *testing.T) {
	me := primitive.NewObjectID()
	orders := newFakeOrders(
		&models.Order{User: me, TotalPrice: 100, OrderStatus: models.StatusProcessing},
		&models.Order{User: primitive.NewObjectID(), TotalPrice: 200, OrderStatus: models.StatusProcessing},
		&models.Order{User: me, TotalPrice: 300, OrderStatus: models.StatusDelivered},
	)
	svc := NewOrderService(orders, newFakeProducts())

	mine, err := svc.ListByUser(context.Background(), me)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}
