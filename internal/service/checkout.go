package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	apperrors "github.com/rhankbrguw/rumah-kosim-api/pkg/errors"

	"github.com/rhankbrguw/rumah-kosim-api/internal/domain"
	"github.com/rhankbrguw/rumah-kosim-api/internal/event"
	"github.com/rhankbrguw/rumah-kosim-api/internal/repository"
)

// minAddressChars is the minimum length of a shipping address.
const minAddressChars = 10

// maxTrackingAttempts bounds tracking number regeneration when the generated
// value collides with an existing order.
const maxTrackingAttempts = 5

// CheckoutService converts a cart snapshot into a persisted order and
// manages the user's saved shipping address.
type CheckoutService struct {
	orders   repository.OrderRepository
	users    repository.UserRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(orders repository.OrderRepository, users repository.UserRepository, producer *event.Producer, logger *slog.Logger) *CheckoutService {
	return &CheckoutService{
		orders:   orders,
		users:    users,
		producer: producer,
		logger:   logger,
	}
}

// PlaceOrderItemInput is one cart line submitted at checkout. Price is the
// client-side snapshot recorded as price_at_time.
type PlaceOrderItemInput struct {
	ProductID int64
	Quantity  int
	Price     float64
}

// PlaceOrderInput holds the parameters for placing an order.
type PlaceOrderInput struct {
	Items           []PlaceOrderItemInput
	Total           float64
	ShippingAddress string
	ShippingPrice   float64
	ShippingMethod  string
}

// PlaceOrder validates the checkout payload, generates a tracking number,
// and persists the order atomically. Stock is not touched here; it was
// reserved when each item entered the cart.
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID int64, input PlaceOrderInput) (*domain.Order, error) {
	if len(input.Items) == 0 {
		return nil, apperrors.InvalidInput("cart is empty")
	}
	if strings.TrimSpace(input.ShippingAddress) == "" {
		return nil, apperrors.InvalidInput("shippingAddress is required")
	}
	if strings.TrimSpace(input.ShippingMethod) == "" {
		return nil, apperrors.InvalidInput("shippingMethod is required")
	}
	seen := make(map[int64]struct{}, len(input.Items))
	for _, item := range input.Items {
		if item.ProductID <= 0 || item.Quantity <= 0 {
			return nil, apperrors.InvalidInput("each cart item needs a product and a positive quantity")
		}
		if _, ok := seen[item.ProductID]; ok {
			return nil, apperrors.InvalidInput("duplicate product in cart items")
		}
		seen[item.ProductID] = struct{}{}
	}

	items := make([]domain.OrderItem, len(input.Items))
	for i, item := range input.Items {
		items[i] = domain.OrderItem{
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
			PriceAtTime: item.Price,
		}
	}

	order := &domain.Order{
		UserID:          userID,
		Total:           input.Total,
		ShippingAddress: input.ShippingAddress,
		ShippingPrice:   input.ShippingPrice,
		ShippingMethod:  input.ShippingMethod,
		Status:          domain.OrderStatusProcessing,
		Items:           items,
	}

	// Regenerate on tracking number collision; the UNIQUE constraint is the
	// arbiter.
	var err error
	for attempt := 1; attempt <= maxTrackingAttempts; attempt++ {
		order.TrackingNumber = domain.NewTrackingNumber()
		err = s.orders.Create(ctx, order)
		if err == nil {
			break
		}
		if !errors.Is(err, apperrors.ErrConflict) {
			return nil, err
		}
		s.logger.WarnContext(ctx, "tracking number collision, regenerating",
			slog.String("tracking_number", order.TrackingNumber),
			slog.Int("attempt", attempt),
		)
	}
	if err != nil {
		// Exhausting every regeneration is a server-side anomaly, not
		// something the client can correct.
		return nil, apperrors.Internal(fmt.Errorf("tracking number generation exhausted after %d attempts: %w", maxTrackingAttempts, err))
	}

	if err := s.producer.PublishOrderPlaced(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.placed event",
			slog.Int64("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order placed",
		slog.Int64("order_id", order.ID),
		slog.Int64("user_id", userID),
		slog.String("tracking_number", order.TrackingNumber),
	)

	return order, nil
}

// GetAddress returns the user's saved shipping address.
func (s *CheckoutService) GetAddress(ctx context.Context, userID int64) (string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.Address, nil
}

// SaveAddress updates the user's saved shipping address.
func (s *CheckoutService) SaveAddress(ctx context.Context, userID int64, address string) error {
	if len(strings.TrimSpace(address)) < minAddressChars {
		return apperrors.InvalidInput("address must be at least 10 characters")
	}
	return s.users.UpdateAddress(ctx, userID, address)
}
