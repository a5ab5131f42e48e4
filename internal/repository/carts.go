package repository

import (
	"context"
	"fmt"

	"github.com/01moynul/storefront-golang/internal/models"
)

const cartSelect = `
	SELECT c.cart_id, c.user_id, c.total_price, u.email
	FROM carts c
	JOIN users u ON u.user_id = c.user_id`

func scanCart(s scanner, c *models.Cart) error {
	return s.Scan(&c.ID, &c.UserID, &c.TotalPrice, &c.Email)
}

func (q *Queries) CreateCart(ctx context.Context, c *models.Cart) error {
	result, err := q.db.ExecContext(ctx,
		"INSERT INTO carts (user_id, total_price) VALUES (?, ?)", c.UserID, c.TotalPrice)
	if err != nil {
		return fmt.Errorf("failed to insert cart: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get new cart ID: %w", err)
	}
	c.ID = id
	return nil
}

// GetCart loads a cart with its items by id.
func (q *Queries) GetCart(ctx context.Context, id int64) (*models.Cart, error) {
	return q.getCart(ctx, cartSelect+" WHERE c.cart_id = ?", id)
}

// GetCartByUserID loads the single cart owned by a user.
func (q *Queries) GetCartByUserID(ctx context.Context, userID int64) (*models.Cart, error) {
	return q.getCart(ctx, cartSelect+" WHERE c.user_id = ?", userID)
}

// GetCartByEmail loads the cart owned by the user with the given email.
func (q *Queries) GetCartByEmail(ctx context.Context, email string) (*models.Cart, error) {
	return q.getCart(ctx, cartSelect+" WHERE u.email = ?", email)
}

// GetCartByEmailAndID loads a cart only when it belongs to email.
func (q *Queries) GetCartByEmailAndID(ctx context.Context, email string, id int64) (*models.Cart, error) {
	return q.getCart(ctx, cartSelect+" WHERE u.email = ? AND c.cart_id = ?", email, id)
}

func (q *Queries) getCart(ctx context.Context, query string, args ...any) (*models.Cart, error) {
	var c models.Cart
	if err := scanCart(q.db.QueryRowContext(ctx, query, args...), &c); err != nil {
		return nil, notFoundOr(err, "cart")
	}
	items, err := q.ListCartItems(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	c.Items = items
	return &c, nil
}

// ListCarts returns every cart with its items, ordered by id.
func (q *Queries) ListCarts(ctx context.Context) ([]models.Cart, error) {
	rows, err := q.db.QueryContext(ctx, cartSelect+" ORDER BY c.cart_id")
	if err != nil {
		return nil, fmt.Errorf("failed to query carts: %w", err)
	}

	var carts []models.Cart
	for rows.Next() {
		var c models.Cart
		if err := scanCart(rows, &c); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan cart: %w", err)
		}
		carts = append(carts, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	for i := range carts {
		items, err := q.ListCartItems(ctx, carts[i].ID)
		if err != nil {
			return nil, err
		}
		carts[i].Items = items
	}
	return carts, nil
}

func (q *Queries) UpdateCartTotal(ctx context.Context, cartID int64, total float64) error {
	_, err := q.db.ExecContext(ctx, "UPDATE carts SET total_price = ? WHERE cart_id = ?", total, cartID)
	if err != nil {
		return fmt.Errorf("failed to update cart total: %w", err)
	}
	return nil
}

func (q *Queries) DeleteCart(ctx context.Context, cartID int64) error {
	if _, err := q.db.ExecContext(ctx, "DELETE FROM cart_items WHERE cart_id = ?", cartID); err != nil {
		return fmt.Errorf("failed to delete cart items: %w", err)
	}
	if _, err := q.db.ExecContext(ctx, "DELETE FROM carts WHERE cart_id = ?", cartID); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}

const cartItemSelect = `
	SELECT ci.cart_item_id, ci.cart_id, ci.product_id, ci.quantity, ci.discount, ci.product_price,
		` + productColumns + `
	FROM cart_items ci
	JOIN products p ON p.product_id = ci.product_id`

func scanCartItem(s scanner, ci *models.CartItem) error {
	p := &ci.Product
	return s.Scan(
		&ci.ID, &ci.CartID, &ci.ProductID, &ci.Quantity, &ci.Discount, &ci.ProductPrice,
		&p.ID, &p.Name, &p.Image, &p.Description, &p.Quantity,
		&p.Price, &p.Discount, &p.SpecialPrice, &p.CategoryID,
	)
}

// ListCartItems returns a cart's lines with their live products, in insertion order.
func (q *Queries) ListCartItems(ctx context.Context, cartID int64) ([]models.CartItem, error) {
	rows, err := q.db.QueryContext(ctx, cartItemSelect+" WHERE ci.cart_id = ? ORDER BY ci.cart_item_id", cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	var items []models.CartItem
	for rows.Next() {
		var ci models.CartItem
		if err := scanCartItem(rows, &ci); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, ci)
	}
	return items, rows.Err()
}

// GetCartItem returns the line for productID in cartID.
func (q *Queries) GetCartItem(ctx context.Context, cartID, productID int64) (*models.CartItem, error) {
	var ci models.CartItem
	row := q.db.QueryRowContext(ctx, cartItemSelect+" WHERE ci.cart_id = ? AND ci.product_id = ?", cartID, productID)
	if err := scanCartItem(row, &ci); err != nil {
		return nil, notFoundOr(err, "cart item")
	}
	return &ci, nil
}

func (q *Queries) CreateCartItem(ctx context.Context, ci *models.CartItem) error {
	query := `
		INSERT INTO cart_items (cart_id, product_id, quantity, discount, product_price)
		VALUES (?, ?, ?, ?, ?)`

	result, err := q.db.ExecContext(ctx, query, ci.CartID, ci.ProductID, ci.Quantity, ci.Discount, ci.ProductPrice)
	if err != nil {
		return fmt.Errorf("failed to insert cart item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get new cart item ID: %w", err)
	}
	ci.ID = id
	return nil
}

func (q *Queries) UpdateCartItem(ctx context.Context, ci *models.CartItem) error {
	_, err := q.db.ExecContext(ctx,
		"UPDATE cart_items SET quantity = ?, discount = ?, product_price = ? WHERE cart_item_id = ?",
		ci.Quantity, ci.Discount, ci.ProductPrice, ci.ID)
	if err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}
	return nil
}

func (q *Queries) DeleteCartItem(ctx context.Context, cartID, productID int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM cart_items WHERE cart_id = ? AND product_id = ?", cartID, productID)
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	return nil
}

// ListCartIDsWithProduct returns every cart holding a line for productID.
func (q *Queries) ListCartIDsWithProduct(ctx context.Context, productID int64) ([]int64, error) {
	return q.listIDs(ctx, "SELECT cart_id FROM cart_items WHERE product_id = ? ORDER BY cart_id", productID)
}
