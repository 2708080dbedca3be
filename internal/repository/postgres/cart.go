package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/rhankbrguw/rumah-kosim-api/pkg/errors"

	"github.com/rhankbrguw/rumah-kosim-api/internal/domain"
	"github.com/rhankbrguw/rumah-kosim-api/pkg/database"
)

// CartRepository implements repository.CartRepository using PostgreSQL.
// Stock is reserved at cart time: every mutation moves quantity between the
// product row and the cart line inside one transaction, with the product row
// locked for the duration.
type CartRepository struct {
	pool database.DBTX
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool database.DBTX) *CartRepository {
	return &CartRepository{pool: pool}
}

// Adjust applies a signed quantity delta to the user's cart line for the
// product, adjusting product stock by the opposite amount atomically.
func (r *CartRepository) Adjust(ctx context.Context, userID, productID int64, delta int) (err error) {
	ctx, end := database.TraceQuery(ctx, "CartRepository.Adjust", "cart upsert + products quantity transfer")
	defer func() { end(err) }()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Lock the product row so concurrent cart mutations serialize on it.
	var stock int
	lockQuery := `
		SELECT quantity
		FROM products
		WHERE id = $1
		FOR UPDATE`

	if err := tx.QueryRow(ctx, lockQuery, productID).Scan(&stock); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFound("product")
		}
		return fmt.Errorf("lock product row: %w", err)
	}

	if delta > 0 && delta > stock {
		return apperrors.InsufficientStock(delta, stock)
	}

	var current int
	lineQuery := `
		SELECT quantity
		FROM cart
		WHERE user_id = $1 AND product_id = $2`

	err = tx.QueryRow(ctx, lineQuery, userID, productID).Scan(&current)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("query cart line: %w", err)
	}

	newQuantity := current + delta
	if newQuantity < 0 {
		return apperrors.NegativeQuantity()
	}

	switch {
	case newQuantity == 0:
		deleteQuery := `DELETE FROM cart WHERE user_id = $1 AND product_id = $2`
		if _, err := tx.Exec(ctx, deleteQuery, userID, productID); err != nil {
			return fmt.Errorf("delete cart line: %w", err)
		}
	case current == 0:
		insertQuery := `
			INSERT INTO cart (user_id, product_id, quantity)
			VALUES ($1, $2, $3)`
		if _, err := tx.Exec(ctx, insertQuery, userID, productID, newQuantity); err != nil {
			return fmt.Errorf("insert cart line: %w", err)
		}
	default:
		updateQuery := `
			UPDATE cart
			SET quantity = $1
			WHERE user_id = $2 AND product_id = $3`
		if _, err := tx.Exec(ctx, updateQuery, newQuantity, userID, productID); err != nil {
			return fmt.Errorf("update cart line: %w", err)
		}
	}

	stockQuery := `UPDATE products SET quantity = quantity - $1 WHERE id = $2`
	if _, err := tx.Exec(ctx, stockQuery, delta, productID); err != nil {
		return fmt.Errorf("adjust product stock: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// Remove deletes the user's cart line and restores its full quantity to
// product stock. Returns the restored quantity.
func (r *CartRepository) Remove(ctx context.Context, userID, productID int64) (restored int, err error) {
	ctx, end := database.TraceQuery(ctx, "CartRepository.Remove", "cart delete + products quantity restore")
	defer func() { end(err) }()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var quantity int
	lineQuery := `
		SELECT quantity
		FROM cart
		WHERE user_id = $1 AND product_id = $2
		FOR UPDATE`

	if err := tx.QueryRow(ctx, lineQuery, userID, productID).Scan(&quantity); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.NotFound("cart item")
		}
		return 0, fmt.Errorf("lock cart line: %w", err)
	}

	stockQuery := `UPDATE products SET quantity = quantity + $1 WHERE id = $2`
	if _, err := tx.Exec(ctx, stockQuery, quantity, productID); err != nil {
		return 0, fmt.Errorf("restore product stock: %w", err)
	}

	deleteQuery := `DELETE FROM cart WHERE user_id = $1 AND product_id = $2`
	if _, err := tx.Exec(ctx, deleteQuery, userID, productID); err != nil {
		return 0, fmt.Errorf("delete cart line: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	return quantity, nil
}

// GetByUser returns the user's cart lines joined with catalog fields, oldest
// line first.
func (r *CartRepository) GetByUser(ctx context.Context, userID int64) ([]domain.CartLine, error) {
	query := `
		SELECT c.user_id, c.product_id, c.quantity, c.created_at,
		       p.title, p.price, p.image
		FROM cart c
		JOIN products p ON p.id = c.product_id
		WHERE c.user_id = $1
		ORDER BY c.created_at, c.product_id`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query cart: %w", err)
	}
	defer rows.Close()

	lines := make([]domain.CartLine, 0)
	for rows.Next() {
		var l domain.CartLine
		if err := rows.Scan(&l.UserID, &l.ProductID, &l.Quantity, &l.CreatedAt, &l.Title, &l.Price, &l.Image); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart lines: %w", err)
	}

	return lines, nil
}
