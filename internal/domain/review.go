package domain

import (
	"time"
)

// Review represents a product review tied to a purchase. At most one review
// exists per (order, product, user) triple.
type Review struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"order_id"`
	ProductID int64     `json:"product_id"`
	UserID    int64     `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	Title     string    `json:"title,omitempty"`
	Image     string    `json:"image,omitempty"`
}
