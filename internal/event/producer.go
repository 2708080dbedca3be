package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/rhankbrguw/rumah-kosim-api/internal/domain"
	pkgkafka "github.com/rhankbrguw/rumah-kosim-api/pkg/kafka"
)

// Kafka topics for shop domain events.
var (
	TopicOrderPlaced        = pkgkafka.Topic("order", "placed")
	TopicOrderStatusChanged = pkgkafka.Topic("order", "status_changed")
	TopicStockAdjusted      = pkgkafka.Topic("stock", "adjusted")
	TopicUserRegistered     = pkgkafka.Topic("user", "registered")
	TopicReviewCreated      = pkgkafka.Topic("review", "created")
)

// Aggregate type constants.
const (
	AggregateTypeOrder   = "order"
	AggregateTypeProduct = "product"
	AggregateTypeUser    = "user"
	AggregateTypeReview  = "review"
)

// Source identifier for events originating from this API.
const Source = "rumah-kosim-api"

// OrderPlacedData is the payload for an order.placed event (full order snapshot).
type OrderPlacedData struct {
	OrderID         int64           `json:"order_id"`
	UserID          int64           `json:"user_id"`
	TrackingNumber  string          `json:"tracking_number"`
	Total           float64         `json:"total"`
	ShippingMethod  string          `json:"shipping_method"`
	ShippingPrice   float64         `json:"shipping_price"`
	ShippingAddress string          `json:"shipping_address"`
	Items           []OrderItemData `json:"items"`
}

// OrderItemData is the event payload for an order line.
type OrderItemData struct {
	ProductID   int64   `json:"product_id"`
	Quantity    int     `json:"quantity"`
	PriceAtTime float64 `json:"price_at_time"`
}

// OrderStatusChangedData is the payload for an order.status_changed event.
type OrderStatusChangedData struct {
	OrderID   int64  `json:"order_id"`
	NewStatus string `json:"new_status"`
}

// StockAdjustedData is the payload for a stock.adjusted event. Delta is the
// signed change applied to the product's stock; Reason records what caused it.
type StockAdjustedData struct {
	ProductID int64  `json:"product_id"`
	Delta     int    `json:"delta"`
	Reason    string `json:"reason"`
}

// Stock adjustment reasons.
const (
	StockReasonCartAdd    = "cart_add"
	StockReasonCartRemove = "cart_remove"
	StockReasonAdminSet   = "admin_set"
)

// UserRegisteredData is the payload for a user.registered event.
type UserRegisteredData struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ReviewCreatedData is the payload for a review.created event.
type ReviewCreatedData struct {
	ReviewID  int64 `json:"review_id"`
	OrderID   int64 `json:"order_id"`
	ProductID int64 `json:"product_id"`
	UserID    int64 `json:"user_id"`
	Rating    int   `json:"rating"`
}

// Producer publishes shop domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishOrderPlaced publishes an order.placed event with the full order snapshot.
func (p *Producer) PublishOrderPlaced(ctx context.Context, order *domain.Order) error {
	items := make([]OrderItemData, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemData{
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
			PriceAtTime: item.PriceAtTime,
		}
	}

	data := OrderPlacedData{
		OrderID:         order.ID,
		UserID:          order.UserID,
		TrackingNumber:  order.TrackingNumber,
		Total:           order.Total,
		ShippingMethod:  order.ShippingMethod,
		ShippingPrice:   order.ShippingPrice,
		ShippingAddress: order.ShippingAddress,
		Items:           items,
	}

	return p.publish(ctx, TopicOrderPlaced, formatID(order.ID), AggregateTypeOrder, data)
}

// PublishOrderStatusChanged publishes an order.status_changed event.
func (p *Producer) PublishOrderStatusChanged(ctx context.Context, orderID int64, newStatus string) error {
	data := OrderStatusChangedData{
		OrderID:   orderID,
		NewStatus: newStatus,
	}

	return p.publish(ctx, TopicOrderStatusChanged, formatID(orderID), AggregateTypeOrder, data)
}

// PublishStockAdjusted publishes a stock.adjusted event.
func (p *Producer) PublishStockAdjusted(ctx context.Context, productID int64, delta int, reason string) error {
	data := StockAdjustedData{
		ProductID: productID,
		Delta:     delta,
		Reason:    reason,
	}

	return p.publish(ctx, TopicStockAdjusted, formatID(productID), AggregateTypeProduct, data)
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	data := UserRegisteredData{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	}

	return p.publish(ctx, TopicUserRegistered, formatID(user.ID), AggregateTypeUser, data)
}

// PublishReviewCreated publishes a review.created event.
func (p *Producer) PublishReviewCreated(ctx context.Context, review *domain.Review) error {
	data := ReviewCreatedData{
		ReviewID:  review.ID,
		OrderID:   review.OrderID,
		ProductID: review.ProductID,
		UserID:    review.UserID,
		Rating:    review.Rating,
	}

	return p.publish(ctx, TopicReviewCreated, formatID(review.ID), AggregateTypeReview, data)
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	event, err := pkgkafka.NewEvent(ctx, topic, aggregateID, aggregateType, Source, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published event",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
	)

	return nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
