package repository

import (
	"context"

	"github.com/rhankbrguw/rumah-kosim-api/internal/domain"
)

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create inserts a new user and returns the generated id.
	Create(ctx context.Context, user *domain.User) (int64, error)

	// GetByUsername retrieves a user by username.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// GetByID retrieves a user by id.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// UpdateAddress replaces the user's saved shipping address.
	UpdateAddress(ctx context.Context, userID int64, address string) error
}

// ProductRepository defines the interface for catalog persistence operations.
type ProductRepository interface {
	// List returns all products, newest first.
	List(ctx context.Context) ([]domain.Product, error)

	// GetByID retrieves a product by id.
	GetByID(ctx context.Context, id int64) (*domain.Product, error)

	// Create inserts a new product and returns the generated id.
	Create(ctx context.Context, product *domain.Product) (int64, error)

	// UpdateImage replaces the product image reference.
	UpdateImage(ctx context.Context, id int64, image string) error

	// Delete removes a product.
	Delete(ctx context.Context, id int64) error

	// SetStock sets the absolute stock quantity.
	SetStock(ctx context.Context, id int64, quantity int) error

	// ExistsByTitle reports whether a product with the given title exists.
	ExistsByTitle(ctx context.Context, title string) (bool, error)
}

// CartRepository defines the interface for cart persistence. Stock
// reservation happens here: every cart mutation adjusts product quantity in
// the same transaction.
type CartRepository interface {
	// Adjust applies a signed quantity delta to the user's cart line for the
	// product, moving the same amount out of (or back into) product stock
	// atomically. A resulting line quantity of zero deletes the line.
	Adjust(ctx context.Context, userID, productID int64, delta int) error

	// Remove deletes the user's cart line for the product, restoring its full
	// quantity to stock. Returns the restored quantity.
	Remove(ctx context.Context, userID, productID int64) (int, error)

	// GetByUser returns the user's cart lines joined with catalog fields,
	// oldest line first.
	GetByUser(ctx context.Context, userID int64) ([]domain.CartLine, error)
}

// OrderRepository defines the interface for order persistence operations.
type OrderRepository interface {
	// Create inserts the order and its items and clears the user's cart, all
	// in one transaction. The generated id is written back to the order. A
	// tracking number collision returns a conflict error; callers regenerate
	// and retry.
	Create(ctx context.Context, order *domain.Order) error

	// ListByUser returns the user's orders, newest first, with nested items.
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)

	// ListAll returns every order with nested items and the buyer's username.
	ListAll(ctx context.Context) ([]domain.Order, error)

	// UpdateStatus changes the status of an order.
	UpdateStatus(ctx context.Context, orderID int64, status string) error
}

// ReviewRepository defines the interface for review persistence operations.
type ReviewRepository interface {
	// Create inserts a review after verifying, in one transaction, that the
	// order exists and belongs to the reviewer and that no review exists yet
	// for the (order, product, user) triple. Returns the generated id.
	Create(ctx context.Context, review *domain.Review) (int64, error)

	// ListByUser returns the user's reviews, newest first.
	ListByUser(ctx context.Context, userID int64) ([]domain.Review, error)
}
