package service

import (
	"context"
	"log/slog"

	apperrors "github.com/rhankbrguw/rumah-kosim-api/pkg/errors"

	"github.com/rhankbrguw/rumah-kosim-api/internal/domain"
	"github.com/rhankbrguw/rumah-kosim-api/internal/event"
	"github.com/rhankbrguw/rumah-kosim-api/internal/repository"
)

// ReviewService implements review submission and listing. Ownership and
// uniqueness are enforced in the repository transaction.
type ReviewService struct {
	repo     repository.ReviewRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(repo repository.ReviewRepository, producer *event.Producer, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// Submit validates and persists a review for a purchased product.
func (s *ReviewService) Submit(ctx context.Context, userID, orderID, productID int64, rating int, comment string) (*domain.Review, error) {
	if orderID <= 0 || productID <= 0 {
		return nil, apperrors.InvalidInput("orderId and productId are required")
	}
	if rating < 1 || rating > 5 {
		return nil, apperrors.InvalidInput("rating must be between 1 and 5")
	}

	review := &domain.Review{
		OrderID:   orderID,
		ProductID: productID,
		UserID:    userID,
		Rating:    rating,
		Comment:   comment,
	}

	if _, err := s.repo.Create(ctx, review); err != nil {
		return nil, err
	}

	if err := s.producer.PublishReviewCreated(ctx, review); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.created event",
			slog.Int64("review_id", review.ID),
			slog.String("error", err.Error()),
		)
	}

	return review, nil
}

// ListByUser returns the caller's reviews, newest first.
func (s *ReviewService) ListByUser(ctx context.Context, userID int64) ([]domain.Review, error) {
	return s.repo.ListByUser(ctx, userID)
}
