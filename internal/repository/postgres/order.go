package postgres

import (
	"context"
	"fmt"

	apperrors "github.com/rhankbrguw/rumah-kosim-api/pkg/errors"

	"github.com/rhankbrguw/rumah-kosim-api/internal/domain"
	"github.com/rhankbrguw/rumah-kosim-api/pkg/database"
)

// OrderRepository implements repository.OrderRepository using PostgreSQL.
type OrderRepository struct {
	pool database.DBTX
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool database.DBTX) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create inserts the order and its items and clears the user's cart, all in
// one transaction. Stock is not touched here; it was reserved when the items
// entered the cart. A tracking number collision surfaces as a conflict so the
// caller can regenerate and retry.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) (err error) {
	ctx, end := database.TraceQuery(ctx, "OrderRepository.Create", "orders + order_items insert, cart clear")
	defer func() { end(err) }()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	orderQuery := `
		INSERT INTO orders (user_id, total, shipping_address, shipping_price, shipping_method, tracking_number, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, date`

	err = tx.QueryRow(ctx, orderQuery,
		o.UserID,
		o.Total,
		o.ShippingAddress,
		o.ShippingPrice,
		o.ShippingMethod,
		o.TrackingNumber,
		o.Status,
	).Scan(&o.ID, &o.Date)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.TrackingConflict()
		}
		return fmt.Errorf("insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, product_id, quantity, price_at_time)
		VALUES ($1, $2, $3, $4)`

	for _, item := range o.Items {
		_, err = tx.Exec(ctx, itemQuery,
			o.ID,
			item.ProductID,
			item.Quantity,
			item.PriceAtTime,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	clearQuery := `DELETE FROM cart WHERE user_id = $1`
	if _, err := tx.Exec(ctx, clearQuery, o.UserID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

const orderSelect = `
	SELECT o.id, o.user_id, o.total, o.shipping_address, o.shipping_price,
	       o.shipping_method, o.tracking_number, o.date, o.status, u.username
	FROM orders o
	JOIN users u ON u.id = o.user_id`

// ListByUser returns the user's orders, newest first, with nested items.
func (r *OrderRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	query := orderSelect + `
	WHERE o.user_id = $1
	ORDER BY o.date DESC, o.id DESC`

	return r.listOrders(ctx, query, userID)
}

// ListAll returns every order, newest first, with nested items.
func (r *OrderRepository) ListAll(ctx context.Context) ([]domain.Order, error) {
	query := orderSelect + `
	ORDER BY o.date DESC, o.id DESC`

	return r.listOrders(ctx, query)
}

func (r *OrderRepository) listOrders(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		var o domain.Order
		err := rows.Scan(
			&o.ID, &o.UserID, &o.Total, &o.ShippingAddress, &o.ShippingPrice,
			&o.ShippingMethod, &o.TrackingNumber, &o.Date, &o.Status, &o.Username,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// attachItems loads the line items for the given orders in one query.
func (r *OrderRepository) attachItems(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]int64, len(orders))
	index := make(map[int64]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		index[o.ID] = i
	}

	query := `
		SELECT oi.order_id, oi.product_id, oi.quantity, oi.price_at_time,
		       p.title, p.image
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.order_id, oi.product_id`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		err := rows.Scan(
			&item.OrderID, &item.ProductID, &item.Quantity, &item.PriceAtTime,
			&item.Title, &item.Image,
		)
		if err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		if i, ok := index[item.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate order items: %w", err)
	}

	return nil
}

// UpdateStatus changes the status of an order.
func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID int64, status string) error {
	query := `UPDATE orders SET status = $1 WHERE id = $2`

	ct, err := r.pool.Exec(ctx, query, status, orderID)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("order")
	}

	return nil
}
