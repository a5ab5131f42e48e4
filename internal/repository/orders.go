package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/01moynul/storefront-golang/internal/models"
)

// orderDateLayout matches the DATE column on both dialects.
const orderDateLayout = "2006-01-02"

var orderSortColumns = map[string]string{
	"orderId":     "order_id",
	"orderDate":   "order_date",
	"totalAmount": "total_amount",
	"email":       "email",
	"orderStatus": "order_status",
}

const orderColumns = "order_id, email, order_date, total_amount, order_status"

func scanOrder(s scanner, o *models.Order) error {
	var status string
	if err := s.Scan(&o.ID, &o.Email, &o.OrderDate, &o.TotalAmount, &status); err != nil {
		return err
	}
	o.Status = models.OrderStatus(status)
	return nil
}

func (q *Queries) CreateOrder(ctx context.Context, o *models.Order) error {
	query := `
		INSERT INTO orders (email, order_date, total_amount, order_status)
		VALUES (?, ?, ?, ?)`

	result, err := q.db.ExecContext(ctx, query,
		o.Email, o.OrderDate.Format(orderDateLayout), o.TotalAmount, string(o.Status))
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get new order ID: %w", err)
	}
	o.ID = id
	return nil
}

func (q *Queries) CreatePayment(ctx context.Context, p *models.Payment) error {
	result, err := q.db.ExecContext(ctx,
		"INSERT INTO payments (order_id, payment_method) VALUES (?, ?)", p.OrderID, p.PaymentMethod)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get new payment ID: %w", err)
	}
	p.ID = id
	return nil
}

// CreateOrderItems writes every line in one statement and returns the stored rows.
func (q *Queries) CreateOrderItems(ctx context.Context, orderID int64, items []models.OrderItem) ([]models.OrderItem, error) {
	if len(items) == 0 {
		return nil, nil
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO order_items (order_id, product_id, quantity, discount, ordered_product_price) VALUES ")
	args := make([]any, 0, len(items)*5)
	for i, it := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(?, ?, ?, ?, ?)")
		args = append(args, orderID, it.ProductID, it.Quantity, it.Discount, it.OrderedProductPrice)
	}

	if _, err := q.db.ExecContext(ctx, sb.String(), args...); err != nil {
		return nil, fmt.Errorf("failed to insert order items: %w", err)
	}
	return q.ListOrderItems(ctx, orderID)
}

func (q *Queries) UpdateOrderStatus(ctx context.Context, orderID int64, status models.OrderStatus) error {
	_, err := q.db.ExecContext(ctx, "UPDATE orders SET order_status = ? WHERE order_id = ?", string(status), orderID)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	return nil
}

// GetOrderByID loads an order with its payment and items.
func (q *Queries) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	return q.getOrder(ctx, "SELECT "+orderColumns+" FROM orders WHERE order_id = ?", id)
}

// GetOrderByEmailAndID loads an order only when it belongs to email.
func (q *Queries) GetOrderByEmailAndID(ctx context.Context, email string, id int64) (*models.Order, error) {
	return q.getOrder(ctx, "SELECT "+orderColumns+" FROM orders WHERE email = ? AND order_id = ?", email, id)
}

func (q *Queries) getOrder(ctx context.Context, query string, args ...any) (*models.Order, error) {
	var o models.Order
	if err := scanOrder(q.db.QueryRowContext(ctx, query, args...), &o); err != nil {
		return nil, notFoundOr(err, "order")
	}
	if err := q.loadOrderJoins(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// ListOrdersByEmail returns every order placed by email, oldest first.
func (q *Queries) ListOrdersByEmail(ctx context.Context, email string) ([]models.Order, error) {
	return q.queryOrders(ctx, "SELECT "+orderColumns+" FROM orders WHERE email = ? ORDER BY order_id", email)
}

// ListOrders returns one page of all orders and the total count.
func (q *Queries) ListOrders(ctx context.Context, page PageQuery) ([]models.Order, int64, error) {
	order, err := orderClause(orderSortColumns, page, "order_id")
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	orders, err := q.queryOrders(ctx,
		"SELECT "+orderColumns+" FROM orders"+order+" LIMIT ? OFFSET ?", page.Limit, page.Offset)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (q *Queries) queryOrders(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		if err := scanOrder(rows, &o); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	for i := range orders {
		if err := q.loadOrderJoins(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (q *Queries) loadOrderJoins(ctx context.Context, o *models.Order) error {
	var p models.Payment
	err := q.db.QueryRowContext(ctx,
		"SELECT payment_id, order_id, payment_method FROM payments WHERE order_id = ?", o.ID).
		Scan(&p.ID, &p.OrderID, &p.PaymentMethod)
	switch {
	case err == nil:
		o.Payment = &p
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("failed to get payment: %w", err)
	}

	items, err := q.ListOrderItems(ctx, o.ID)
	if err != nil {
		return err
	}
	o.Items = items
	return nil
}

// ListOrderItems returns an order's lines. The product is left joined: a line
// whose product was deleted from the catalog keeps its id and snapshot prices.
func (q *Queries) ListOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	query := `
		SELECT oi.order_item_id, oi.order_id, oi.product_id, oi.quantity, oi.discount, oi.ordered_product_price,
			p.product_name, p.image, p.description, p.quantity, p.price, p.discount, p.special_price, p.category_id
		FROM order_items oi
		LEFT JOIN products p ON p.product_id = oi.product_id
		WHERE oi.order_id = ?
		ORDER BY oi.order_item_id`

	rows, err := q.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var (
			it                            models.OrderItem
			name, image, description      sql.NullString
			quantity, categoryID          sql.NullInt64
			price, discount, specialPrice sql.NullFloat64
		)
		err := rows.Scan(
			&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.Discount, &it.OrderedProductPrice,
			&name, &image, &description, &quantity, &price, &discount, &specialPrice, &categoryID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		it.Product = models.Product{
			ID:           it.ProductID,
			Name:         name.String,
			Image:        image.String,
			Description:  description.String,
			Quantity:     int(quantity.Int64),
			Price:        price.Float64,
			Discount:     discount.Float64,
			SpecialPrice: specialPrice.Float64,
			CategoryID:   categoryID.Int64,
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
