// Package events publishes order lifecycle notifications.
package events

import (
	"context"
	"time"
)

const (
	TypeOrderPlaced        = "order.placed"
	TypeOrderStatusChanged = "order.status_changed"
)

type OrderLine struct {
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type OrderPlaced struct {
	OrderID       int64       `json:"order_id"`
	Email         string      `json:"email"`
	TotalAmount   float64     `json:"total_amount"`
	PaymentMethod string      `json:"payment_method"`
	Items         []OrderLine `json:"items"`
	PlacedAt      time.Time   `json:"placed_at"`
}

type OrderStatusChanged struct {
	OrderID   int64     `json:"order_id"`
	Email     string    `json:"email"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	ChangedAt time.Time `json:"changed_at"`
}

type Publisher interface {
	PublishOrderPlaced(ctx context.Context, ev OrderPlaced) error
	PublishOrderStatusChanged(ctx context.Context, ev OrderStatusChanged) error
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishOrderPlaced(context.Context, OrderPlaced) error { return nil }

func (NopPublisher) PublishOrderStatusChanged(context.Context, OrderStatusChanged) error { return nil }
