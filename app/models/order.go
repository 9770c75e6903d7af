package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

// Order lifecycle states. Transitions advance one step at a time:
// Processing -> Shipped -> Delivered.
const (
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "Delivered"
)

var statusNext = map[OrderStatus]OrderStatus{
	StatusProcessing: StatusShipped,
	StatusShipped:    StatusDelivered,
}

// Valid reports whether s is a known lifecycle state.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusProcessing, StatusShipped, StatusDelivered:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to next is allowed. Each
// state has exactly one successor; repeats, backward moves, and skips
// (Processing straight to Delivered) are all rejected.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	return statusNext[s] == next && next != ""
}

// ShippingInfo is the delivery address captured at checkout.
type ShippingInfo struct {
	Address  string `bson:"address" json:"address" validate:"required"`
	City     string `bson:"city" json:"city" validate:"required"`
	Province string `bson:"province" json:"province" validate:"required,in=NL,PE,NS,NB,QC,ON,MB,SK,BC,AB,YT,NT,NU"`
	Country  string `bson:"country" json:"country" validate:"required"`
	PinCode  string `bson:"pinCode" json:"pinCode" validate:"required"`
	PhoneNo  string `bson:"phoneNo" json:"phoneNo" validate:"required"`
}

// OrderItem snapshots a product line at the moment the order is placed.
// Later catalog edits never change it.
type OrderItem struct {
	Name     string             `bson:"name" json:"name"`
	Price    int64              `bson:"price" json:"price"`
	Quantity int                `bson:"quantity" json:"quantity"`
	Image    string             `bson:"image" json:"image"`
	Product  primitive.ObjectID `bson:"product" json:"product"`
}

// PaymentInfo records the gateway's identifier and outcome for the order.
type PaymentInfo struct {
	ID     string `bson:"id" json:"id"`
	Status string `bson:"status" json:"status"`
}

// Order is a placed order document.
type Order struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	ShippingInfo ShippingInfo       `bson:"shippingInfo" json:"shippingInfo"`
	OrderItems   []OrderItem        `bson:"orderItems" json:"orderItems"`
	User         primitive.ObjectID `bson:"user" json:"user"`
	PaymentInfo  PaymentInfo        `bson:"paymentInfo" json:"paymentInfo"`
	PaidAt       time.Time          `bson:"paidAt" json:"paidAt"`
	ItemsPrice   int64              `bson:"itemsPrice" json:"itemsPrice"`
	TaxPrice     int64              `bson:"taxPrice" json:"taxPrice"`
	ShippingCost int64              `bson:"shippingPrice" json:"shippingPrice"`
	TotalPrice   int64              `bson:"totalPrice" json:"totalPrice"`
	OrderStatus  OrderStatus        `bson:"orderStatus" json:"orderStatus"`
	DeliveredAt  *time.Time         `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
