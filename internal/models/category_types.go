package models

// Category defines the struct for the 'categories' table
type Category struct {
	ID   int64  `db:"category_id"`
	Name string `db:"category_name"`
	Slug string `db:"slug"`
}
