package models

import (
	"strings"
	"time"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusAccepted   OrderStatus = "Order Accepted!"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusAccepted:   {OrderStatusProcessing, OrderStatusShipped, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
}

// ParseOrderStatus matches s case-insensitively against the known statuses.
// "accepted" is accepted as shorthand for the initial status.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	in := strings.TrimSpace(s)
	if strings.EqualFold(in, "accepted") {
		return OrderStatusAccepted, true
	}
	for _, st := range []OrderStatus{
		OrderStatusAccepted,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled,
	} {
		if strings.EqualFold(in, string(st)) {
			return st, true
		}
	}
	return "", false
}

// CanTransitionTo reports whether an order may move from s to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

func (s OrderStatus) String() string {
	return string(s)
}

// Order is the model for the 'orders' table
type Order struct {
	ID          int64       `db:"order_id"`
	Email       string      `db:"email"`
	OrderDate   time.Time   `db:"order_date"`
	TotalAmount float64     `db:"total_amount"`
	Status      OrderStatus `db:"order_status"`

	Payment *Payment    `db:"-"`
	Items   []OrderItem `db:"-"`
}

// OrderItem is the model for the 'order_items' table.
// Discount and OrderedProductPrice are copied from the cart item at checkout.
type OrderItem struct {
	ID                  int64   `db:"order_item_id"`
	OrderID             int64   `db:"order_id"`
	ProductID           int64   `db:"product_id"`
	Quantity            int     `db:"quantity"`
	Discount            float64 `db:"discount"`
	OrderedProductPrice float64 `db:"ordered_product_price"`

	Product Product `db:"-"`
}

// Payment is the model for the 'payments' table
type Payment struct {
	ID            int64  `db:"payment_id"`
	OrderID       int64  `db:"order_id"`
	PaymentMethod string `db:"payment_method"`
}
