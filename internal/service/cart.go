package service

import (
	"context"
	"log/slog"

	apperrors "github.com/rhankbrguw/rumah-kosim-api/pkg/errors"

	"github.com/rhankbrguw/rumah-kosim-api/internal/domain"
	"github.com/rhankbrguw/rumah-kosim-api/internal/event"
	"github.com/rhankbrguw/rumah-kosim-api/internal/repository"
)

// CartService implements the cart operations. Stock reservation happens in
// the repository transaction; this layer validates input and publishes the
// resulting stock movements.
type CartService struct {
	repo     repository.CartRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(repo repository.CartRepository, producer *event.Producer, logger *slog.Logger) *CartService {
	return &CartService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// Get returns the user's cart lines.
func (s *CartService) Get(ctx context.Context, userID int64) ([]domain.CartLine, error) {
	return s.repo.GetByUser(ctx, userID)
}

// Add applies a signed quantity delta to the user's cart line for the
// product. Positive deltas reserve stock, negative ones release it; a line
// reaching zero disappears.
func (s *CartService) Add(ctx context.Context, userID, productID int64, quantity int) error {
	if productID <= 0 {
		return apperrors.InvalidInput("productId is required")
	}
	if quantity == 0 {
		return apperrors.InvalidInput("quantity must not be zero")
	}

	if err := s.repo.Adjust(ctx, userID, productID, quantity); err != nil {
		return err
	}

	if err := s.producer.PublishStockAdjusted(ctx, productID, -quantity, event.StockReasonCartAdd); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish stock.adjusted event",
			slog.Int64("product_id", productID),
			slog.String("error", err.Error()),
		)
	}

	return nil
}

// Remove deletes the user's cart line for the product and restores its
// quantity to stock.
func (s *CartService) Remove(ctx context.Context, userID, productID int64) error {
	if productID <= 0 {
		return apperrors.InvalidInput("productId is required")
	}

	restored, err := s.repo.Remove(ctx, userID, productID)
	if err != nil {
		return err
	}

	if err := s.producer.PublishStockAdjusted(ctx, productID, restored, event.StockReasonCartRemove); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish stock.adjusted event",
			slog.Int64("product_id", productID),
			slog.String("error", err.Error()),
		)
	}

	return nil
}
