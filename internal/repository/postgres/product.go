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

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	pool database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool database.DBTX) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// List returns all products, newest first.
func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT id, title, price, image, description, quantity
		FROM products
		ORDER BY id DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Title, &p.Price, &p.Image, &p.Description, &p.Quantity); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a product by its ID.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		SELECT id, title, price, image, description, quantity
		FROM products
		WHERE id = $1`

	var p domain.Product
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Title, &p.Price, &p.Image, &p.Description, &p.Quantity,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product")
		}
		return nil, fmt.Errorf("query product: %w", err)
	}

	return &p, nil
}

// Create inserts a new product.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) (int64, error) {
	query := `
		INSERT INTO products (title, price, image, description, quantity)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		p.Title, p.Price, p.Image, p.Description, p.Quantity,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert product: %w", err)
	}

	return id, nil
}

// UpdateImage replaces the product image reference.
func (r *ProductRepository) UpdateImage(ctx context.Context, id int64, image string) error {
	query := `UPDATE products SET image = $1 WHERE id = $2`

	ct, err := r.pool.Exec(ctx, query, image, id)
	if err != nil {
		return fmt.Errorf("update product image: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product")
	}

	return nil
}

// Delete removes a product by its ID.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM products WHERE id = $1`

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product")
	}

	return nil
}

// SetStock sets the absolute stock quantity.
func (r *ProductRepository) SetStock(ctx context.Context, id int64, quantity int) error {
	query := `UPDATE products SET quantity = $1 WHERE id = $2`

	ct, err := r.pool.Exec(ctx, query, quantity, id)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product")
	}

	return nil
}

// ExistsByTitle reports whether a product with the given title exists.
func (r *ProductRepository) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM products WHERE title = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, title).Scan(&exists); err != nil {
		return false, fmt.Errorf("query product by title: %w", err)
	}

	return exists, nil
}
