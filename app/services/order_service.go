package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/maplecart/app/models"
	"github.com/shashiranjanraj/maplecart/config"
	"github.com/shashiranjanraj/maplecart/pkg/apperr"
	"github.com/shashiranjanraj/maplecart/pkg/event"
	"github.com/shashiranjanraj/maplecart/pkg/logger"
	"github.com/shashiranjanraj/maplecart/pkg/metrics"
)

type orderStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Order, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	All(ctx context.Context) ([]models.Order, error)
	Create(ctx context.Context, o *models.Order) error
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus, deliveredAt *time.Time) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type stockStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	DecrementStock(ctx context.Context, id primitive.ObjectID, quantity int) error
}

// CreateOrderInput is the payload for placing an order after payment.
type CreateOrderInput struct {
	ShippingInfo models.ShippingInfo `json:"shippingInfo"`
	Items        []CheckoutItem      `json:"orderItems" validate:"required"`
	PaymentInfo  models.PaymentInfo  `json:"paymentInfo"`
	TaxPrice     int64               `json:"taxPrice" validate:"gte=0"`
}

// StatusChange is the payload broadcast on the order.status event.
type StatusChange struct {
	OrderID string             `json:"orderId"`
	Status  models.OrderStatus `json:"status"`
}

// OrderService owns the order lifecycle. Status only moves forward, and the
// move into Shipped is the single point where stock is decremented.
type OrderService struct {
	orders   orderStore
	products stockStore
}

func NewOrderService(orders orderStore, products stockStore) *OrderService {
	return &OrderService{orders: orders, products: products}
}

// Create records a paid order. Each line is snapshotted from the catalog at
// this moment; later product edits never touch it. Stock is not adjusted
// here.
func (s *OrderService) Create(ctx context.Context, userID primitive.ObjectID, in CreateOrderInput) (models.Order, error) {
	if len(in.Items) == 0 {
		return models.Order{}, apperr.Validation("order has no items")
	}

	items := make([]models.OrderItem, 0, len(in.Items))
	var itemsPrice int64
	for _, it := range in.Items {
		pid, err := primitive.ObjectIDFromHex(it.ProductID)
		if err != nil {
			return models.Order{}, apperr.Validation("invalid product id %q", it.ProductID)
		}
		p, err := s.products.FindByID(ctx, pid)
		if err != nil {
			return models.Order{}, err
		}
		image := ""
		if len(p.Images) > 0 {
			image = p.Images[0].URL
		}
		items = append(items, models.OrderItem{
			Name:     p.Name,
			Price:    p.Price,
			Quantity: it.Quantity,
			Image:    image,
			Product:  p.ID,
		})
		itemsPrice += p.Price * int64(it.Quantity)
	}

	order := models.Order{
		ShippingInfo: in.ShippingInfo,
		OrderItems:   items,
		User:         userID,
		PaymentInfo:  in.PaymentInfo,
		PaidAt:       time.Now(),
		ItemsPrice:   itemsPrice,
		TaxPrice:     in.TaxPrice,
		ShippingCost: config.ShippingAmount(),
		OrderStatus:  models.StatusProcessing,
	}
	order.TotalPrice = order.ItemsPrice + order.TaxPrice + order.ShippingCost

	if err := s.orders.Create(ctx, &order); err != nil {
		return models.Order{}, err
	}
	metrics.OrdersCreated.Inc()
	logger.WithCtx(ctx).Info("order created",
		"order_id", order.ID.Hex(), "user_id", userID.Hex(), "total", order.TotalPrice)
	return order, nil
}

// Get returns a single order.
func (s *OrderService) Get(ctx context.Context, id primitive.ObjectID) (models.Order, error) {
	return s.orders.FindByID(ctx, id)
}

// ListByUser returns the orders placed by one user.
func (s *OrderService) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return s.orders.FindByUser(ctx, userID)
}

// ListAllWithTotal returns every order plus the revenue sum of their totals.
func (s *OrderService) ListAllWithTotal(ctx context.Context) ([]models.Order, int64, error) {
	orders, err := s.orders.All(ctx)
	if err != nil {
		return nil, 0, err
	}
	var total int64
	for _, o := range orders {
		total += o.TotalPrice
	}
	return orders, total, nil
}

// UpdateStatus applies a lifecycle transition. Moves other than the single
// forward step are rejected, which also makes the Shipped stock decrement
// at-most-once. The new status is persisted before the decrement fan-out so
// a retry after a write failure cannot decrement the same lines twice. The
// decrement itself is best effort per line: a failing product is logged and
// skipped, the remaining lines still run.
func (s *OrderService) UpdateStatus(ctx context.Context, id primitive.ObjectID, next models.OrderStatus) (models.Order, error) {
	if !next.Valid() {
		return models.Order{}, apperr.Validation("unknown order status %q", next)
	}

	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	if !order.OrderStatus.CanTransitionTo(next) {
		return models.Order{}, apperr.Validation(
			"cannot move order from %s to %s", order.OrderStatus, next)
	}

	var deliveredAt *time.Time
	if next == models.StatusDelivered {
		now := time.Now()
		deliveredAt = &now
	}
	if err := s.orders.UpdateStatus(ctx, id, next, deliveredAt); err != nil {
		return models.Order{}, err
	}
	order.OrderStatus = next
	order.DeliveredAt = deliveredAt

	if next == models.StatusShipped {
		if failures := s.decrementStock(ctx, order); len(failures) > 0 {
			logger.WithCtx(ctx).Warn("shipment completed with partial stock decrement",
				"order_id", order.ID.Hex(),
				"failed_lines", len(failures), "total_lines", len(order.OrderItems))
		}
	}

	metrics.OrderStatusUpdates.WithLabelValues(string(next)).Inc()
	if payload, err := json.Marshal(StatusChange{OrderID: order.ID.Hex(), Status: next}); err == nil {
		event.Fire("order.status", payload)
	}
	logger.WithCtx(ctx).Info("order status updated",
		"order_id", order.ID.Hex(), "status", string(next))
	return order, nil
}

// Delete removes an order. Stock already decremented for it is not restored.
func (s *OrderService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.orders.Delete(ctx, id)
}

// decrementStock applies the per-line decrement to every line, collecting
// failures instead of aborting. A failed line means the order status and the
// catalog have diverged, which is logged apart from ordinary errors so it
// can be reconciled out of band.
func (s *OrderService) decrementStock(ctx context.Context, order models.Order) []error {
	var failures []error
	for _, item := range order.OrderItems {
		if err := s.products.DecrementStock(ctx, item.Product, item.Quantity); err != nil {
			metrics.StockDecrements.WithLabelValues("failed").Inc()
			failures = append(failures,
				fmt.Errorf("product %s qty %d: %w", item.Product.Hex(), item.Quantity, err))
			logger.WithCtx(ctx).Error("stock decrement failed, order and catalog have diverged",
				"order_id", order.ID.Hex(), "product_id", item.Product.Hex(),
				"quantity", item.Quantity, "error", err)
			continue
		}
		metrics.StockDecrements.WithLabelValues("success").Inc()
	}
	return failures
}
