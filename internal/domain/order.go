package domain

import "time"

// Order status constants. Orders start as Processing; admins move them
// forward from there.
const (
	OrderStatusProcessing = "Processing"
	OrderStatusShipped    = "Shipped"
	OrderStatusDelivered  = "Delivered"
	OrderStatusCancelled  = "Cancelled"
)

// ValidOrderStatuses returns all valid order statuses.
func ValidOrderStatuses() []string {
	return []string{
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled,
	}
}

// IsValidOrderStatus checks if a status string is valid.
func IsValidOrderStatus(status string) bool {
	for _, s := range ValidOrderStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// Order represents a placed order. Everything except Status is immutable
// after checkout.
type Order struct {
	ID              int64       `json:"id"`
	UserID          int64       `json:"user_id"`
	Total           float64     `json:"total"`
	ShippingAddress string      `json:"shipping_address"`
	ShippingPrice   float64     `json:"shipping_price"`
	ShippingMethod  string      `json:"shipping_method"`
	TrackingNumber  string      `json:"tracking_number"`
	Date            time.Time   `json:"date"`
	Status          string      `json:"status"`
	Username        string      `json:"username,omitempty"`
	Items           []OrderItem `json:"items,omitempty"`
}

// OrderItem is a line on an order. PriceAtTime is the unit price snapshot
// taken at checkout, decoupled from later catalog price changes.
type OrderItem struct {
	OrderID     int64   `json:"order_id"`
	ProductID   int64   `json:"product_id"`
	Quantity    int     `json:"quantity"`
	PriceAtTime float64 `json:"price_at_time"`
	Title       string  `json:"title,omitempty"`
	Image       string  `json:"image,omitempty"`
}

// LineTotal returns the total for this line at the snapshot price.
func (i *OrderItem) LineTotal() float64 {
	return i.PriceAtTime * float64(i.Quantity)
}
