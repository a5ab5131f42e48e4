package repository

import (
	"context"
	"fmt"

	"github.com/01moynul/storefront-golang/internal/models"
)

var categorySortColumns = map[string]string{
	"categoryId":   "category_id",
	"categoryName": "category_name",
}

func (q *Queries) CreateCategory(ctx context.Context, c *models.Category) error {
	result, err := q.db.ExecContext(ctx,
		"INSERT INTO categories (category_name, slug) VALUES (?, ?)", c.Name, c.Slug)
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get new category ID: %w", err)
	}
	c.ID = id
	return nil
}

func (q *Queries) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	var c models.Category
	err := q.db.QueryRowContext(ctx,
		"SELECT category_id, category_name, slug FROM categories WHERE category_id = ?", id).
		Scan(&c.ID, &c.Name, &c.Slug)
	if err != nil {
		return nil, notFoundOr(err, "category")
	}
	return &c, nil
}

func (q *Queries) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	var c models.Category
	err := q.db.QueryRowContext(ctx,
		"SELECT category_id, category_name, slug FROM categories WHERE category_name = ?", name).
		Scan(&c.ID, &c.Name, &c.Slug)
	if err != nil {
		return nil, notFoundOr(err, "category")
	}
	return &c, nil
}

func (q *Queries) UpdateCategory(ctx context.Context, c *models.Category) error {
	_, err := q.db.ExecContext(ctx,
		"UPDATE categories SET category_name = ?, slug = ? WHERE category_id = ?", c.Name, c.Slug, c.ID)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	return nil
}

func (q *Queries) DeleteCategory(ctx context.Context, id int64) error {
	if _, err := q.db.ExecContext(ctx, "DELETE FROM categories WHERE category_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

func (q *Queries) ListCategories(ctx context.Context, page PageQuery) ([]models.Category, int64, error) {
	order, err := orderClause(categorySortColumns, page, "category_id")
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count categories: %w", err)
	}

	rows, err := q.db.QueryContext(ctx,
		"SELECT category_id, category_name, slug FROM categories"+order+" LIMIT ? OFFSET ?",
		page.Limit, page.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, 0, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("row iteration error: %w", err)
	}
	return categories, total, nil
}
