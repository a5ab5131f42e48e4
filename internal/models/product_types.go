package models

import "math"

// DefaultProductImage is stored until an image is attached by the upload pipeline.
const DefaultProductImage = "default.png"

// Product is the model for the 'products' table.
type Product struct {
	ID           int64   `db:"product_id"`
	Name         string  `db:"product_name"`
	Image        string  `db:"image"`
	Description  string  `db:"description"`
	Quantity     int     `db:"quantity"`
	Price        float64 `db:"price"`
	Discount     float64 `db:"discount"`
	SpecialPrice float64 `db:"special_price"`
	CategoryID   int64   `db:"category_id"`
}

// SpecialPriceFor returns price reduced by discount percent, rounded to cents.
func SpecialPriceFor(price, discount float64) float64 {
	special := price - (discount*0.01)*price
	return math.Round(special*100) / 100
}

// RecomputeSpecialPrice refreshes the derived special price after a price or discount change.
func (p *Product) RecomputeSpecialPrice() {
	p.SpecialPrice = SpecialPriceFor(p.Price, p.Discount)
}
