package domain

// Product represents a catalog item. Quantity is the live stock count,
// already reduced by pending cart reservations.
type Product struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
}

// CatalogProduct is the public listing shape: stock is not exposed on the
// storefront list.
type CatalogProduct struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Description string  `json:"description"`
}

// Public returns the storefront view of the product.
func (p *Product) Public() CatalogProduct {
	return CatalogProduct{
		ID:          p.ID,
		Title:       p.Title,
		Price:       p.Price,
		Image:       p.Image,
		Description: p.Description,
	}
}
