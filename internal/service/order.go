package service

import (
	"context"
	"log/slog"

	apperrors "github.com/rhankbrguw/rumah-kosim-api/pkg/errors"

	"github.com/rhankbrguw/rumah-kosim-api/internal/domain"
	"github.com/rhankbrguw/rumah-kosim-api/internal/event"
	"github.com/rhankbrguw/rumah-kosim-api/internal/repository"
)

// OrderService implements order listing and admin status management.
type OrderService struct {
	repo     repository.OrderRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(repo repository.OrderRepository, producer *event.Producer, logger *slog.Logger) *OrderService {
	return &OrderService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// ListByUser returns the caller's orders, newest first.
func (s *OrderService) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

// ListAll returns every order for the admin panel.
func (s *OrderService) ListAll(ctx context.Context) ([]domain.Order, error) {
	return s.repo.ListAll(ctx)
}

// UpdateStatus changes an order's status.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, status string) error {
	if !domain.IsValidOrderStatus(status) {
		return apperrors.InvalidInput("invalid order status")
	}

	if err := s.repo.UpdateStatus(ctx, orderID, status); err != nil {
		return err
	}

	if err := s.producer.PublishOrderStatusChanged(ctx, orderID, status); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.status_changed event",
			slog.Int64("order_id", orderID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order status updated",
		slog.Int64("order_id", orderID),
		slog.String("status", status),
	)

	return nil
}
