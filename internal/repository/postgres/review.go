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

// ReviewRepository implements repository.ReviewRepository using PostgreSQL.
type ReviewRepository struct {
	pool database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool database.DBTX) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// Create inserts a review after verifying ownership and uniqueness in one
// transaction. The order row is locked so two concurrent submissions for the
// same triple serialize; the UNIQUE constraint backstops the race anyway.
func (r *ReviewRepository) Create(ctx context.Context, rev *domain.Review) (id int64, err error) {
	ctx, end := database.TraceQuery(ctx, "ReviewRepository.Create", "order ownership lock + review insert")
	defer func() { end(err) }()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// An order that exists but belongs to someone else is indistinguishable
	// from a missing one.
	var orderID int64
	ownQuery := `
		SELECT id
		FROM orders
		WHERE id = $1 AND user_id = $2
		FOR UPDATE`

	if err := tx.QueryRow(ctx, ownQuery, rev.OrderID, rev.UserID).Scan(&orderID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.NotFound("order")
		}
		return 0, fmt.Errorf("lock order row: %w", err)
	}

	var exists bool
	dupQuery := `
		SELECT EXISTS (
			SELECT 1 FROM reviews
			WHERE order_id = $1 AND product_id = $2 AND user_id = $3
		)`

	if err := tx.QueryRow(ctx, dupQuery, rev.OrderID, rev.ProductID, rev.UserID).Scan(&exists); err != nil {
		return 0, fmt.Errorf("query existing review: %w", err)
	}
	if exists {
		return 0, apperrors.DuplicateReview()
	}

	insertQuery := `
		INSERT INTO reviews (order_id, product_id, user_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err = tx.QueryRow(ctx, insertQuery,
		rev.OrderID, rev.ProductID, rev.UserID, rev.Rating, rev.Comment,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, apperrors.DuplicateReview()
		}
		return 0, fmt.Errorf("insert review: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		if isUniqueViolation(err) {
			return 0, apperrors.DuplicateReview()
		}
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	rev.ID = id
	return id, nil
}

// ListByUser returns the user's reviews, newest first, joined with the
// reviewed product's title and image.
func (r *ReviewRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Review, error) {
	query := `
		SELECT rv.id, rv.order_id, rv.product_id, rv.user_id, rv.rating,
		       rv.comment, rv.created_at, p.title, p.image
		FROM reviews rv
		JOIN products p ON p.id = rv.product_id
		WHERE rv.user_id = $1
		ORDER BY rv.created_at DESC, rv.id DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]domain.Review, 0)
	for rows.Next() {
		var rv domain.Review
		err := rows.Scan(
			&rv.ID, &rv.OrderID, &rv.ProductID, &rv.UserID, &rv.Rating,
			&rv.Comment, &rv.CreatedAt, &rv.Title, &rv.Image,
		)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}

	return reviews, nil
}
