package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/01moynul/storefront-golang/internal/models"
)

const productColumns = `p.product_id, p.product_name, p.image, p.description, p.quantity,
	p.price, p.discount, p.special_price, p.category_id`

var productSortColumns = map[string]string{
	"productId":    "p.product_id",
	"productName":  "p.product_name",
	"price":        "p.price",
	"specialPrice": "p.special_price",
	"discount":     "p.discount",
	"quantity":     "p.quantity",
}

func scanProduct(s scanner, p *models.Product) error {
	return s.Scan(
		&p.ID,
		&p.Name,
		&p.Image,
		&p.Description,
		&p.Quantity,
		&p.Price,
		&p.Discount,
		&p.SpecialPrice,
		&p.CategoryID,
	)
}

func (q *Queries) CreateProduct(ctx context.Context, p *models.Product) error {
	query := `
		INSERT INTO products
		(product_name, image, description, quantity, price, discount, special_price, category_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := q.db.ExecContext(ctx, query,
		p.Name, p.Image, p.Description, p.Quantity, p.Price, p.Discount, p.SpecialPrice, p.CategoryID)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get new product ID: %w", err)
	}
	p.ID = id
	return nil
}

func (q *Queries) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	var p models.Product
	row := q.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products p WHERE p.product_id = ?", id)
	if err := scanProduct(row, &p); err != nil {
		return nil, notFoundOr(err, "product")
	}
	return &p, nil
}

// FindProductInCategory looks a product up by exact name within one category.
func (q *Queries) FindProductInCategory(ctx context.Context, categoryID int64, name string) (*models.Product, error) {
	var p models.Product
	row := q.db.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products p WHERE p.category_id = ? AND p.product_name = ?",
		categoryID, name)
	if err := scanProduct(row, &p); err != nil {
		return nil, notFoundOr(err, "product")
	}
	return &p, nil
}

func (q *Queries) UpdateProduct(ctx context.Context, p *models.Product) error {
	query := `
		UPDATE products
		SET product_name = ?, image = ?, description = ?, quantity = ?,
			price = ?, discount = ?, special_price = ?, category_id = ?
		WHERE product_id = ?`

	_, err := q.db.ExecContext(ctx, query,
		p.Name, p.Image, p.Description, p.Quantity, p.Price, p.Discount, p.SpecialPrice, p.CategoryID, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

// AdjustProductQuantity adds delta (which may be negative) to the stock on hand.
// A zero delta is a no-op: MySQL reports changed rows, so it could not be told
// apart from a missing product.
func (q *Queries) AdjustProductQuantity(ctx context.Context, productID int64, delta int) error {
	if delta == 0 {
		return nil
	}
	result, err := q.db.ExecContext(ctx,
		"UPDATE products SET quantity = quantity + ? WHERE product_id = ?", delta, productID)
	if err != nil {
		return fmt.Errorf("failed to adjust product stock: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("product %d: %w", productID, ErrNotFound)
	}
	return nil
}

func (q *Queries) DeleteProduct(ctx context.Context, id int64) error {
	if _, err := q.db.ExecContext(ctx, "DELETE FROM products WHERE product_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// ProductFilter narrows ListProducts. Zero values mean "no filter".
type ProductFilter struct {
	CategoryID int64
	Keyword    string
}

// ListProducts returns one page of products and the total matching count.
func (q *Queries) ListProducts(ctx context.Context, f ProductFilter, page PageQuery) ([]models.Product, int64, error) {
	order, err := orderClause(productSortColumns, page, "p.product_id")
	if err != nil {
		return nil, 0, err
	}

	var where strings.Builder
	var args []any
	where.WriteString(" WHERE 1 = 1")
	if f.CategoryID != 0 {
		where.WriteString(" AND p.category_id = ?")
		args = append(args, f.CategoryID)
	}
	if f.Keyword != "" {
		where.WriteString(" AND LOWER(p.product_name) LIKE ?")
		args = append(args, "%"+strings.ToLower(f.Keyword)+"%")
	}

	var total int64
	if err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products p"+where.String(), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query := "SELECT " + productColumns + " FROM products p" + where.String() + order + " LIMIT ? OFFSET ?"
	rows, err := q.db.QueryContext(ctx, query, append(args, page.Limit, page.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("row iteration error: %w", err)
	}
	return products, total, nil
}

// ListProductIDsByCategory returns every product id in a category.
func (q *Queries) ListProductIDsByCategory(ctx context.Context, categoryID int64) ([]int64, error) {
	return q.listIDs(ctx, "SELECT product_id FROM products WHERE category_id = ? ORDER BY product_id", categoryID)
}

func (q *Queries) listIDs(ctx context.Context, query string, args ...any) ([]int64, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
