package models

// Cart defines the struct for the 'carts' table
type Cart struct {
	ID         int64   `db:"cart_id"`
	UserID     int64   `db:"user_id"`
	TotalPrice float64 `db:"total_price"`

	// Joins (not columns, populated by the repository)
	Email string     `db:"-"`
	Items []CartItem `db:"-"`
}

// CartItem defines the struct for the 'cart_items' table.
// Discount and ProductPrice are snapshots taken when the product was added.
type CartItem struct {
	ID           int64   `db:"cart_item_id"`
	CartID       int64   `db:"cart_id"`
	ProductID    int64   `db:"product_id"`
	Quantity     int     `db:"quantity"`
	Discount     float64 `db:"discount"`
	ProductPrice float64 `db:"product_price"`

	Product Product `db:"-"`
}

// Subtotal is the line total at the snapshot price.
func (i CartItem) Subtotal() float64 {
	return i.ProductPrice * float64(i.Quantity)
}

// ComputeTotal sums the item subtotals.
func (c *Cart) ComputeTotal() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	return total
}
