package domain

import (
	"time"
)

// CartLine is one product selection in a user's cart, joined with the catalog
// fields the storefront renders.
type CartLine struct {
	UserID    int64     `json:"-"`
	ProductID int64     `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Title     string    `json:"title"`
	Price     float64   `json:"price"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"-"`
}

// LineTotal returns the total price for this cart line.
func (l *CartLine) LineTotal() float64 {
	return l.Price * float64(l.Quantity)
}
