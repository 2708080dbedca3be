package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/rhankbrguw/rumah-kosim-api/pkg/errors"

	"github.com/rhankbrguw/rumah-kosim-api/internal/domain"
	"github.com/rhankbrguw/rumah-kosim-api/internal/event"
	"github.com/rhankbrguw/rumah-kosim-api/internal/repository"
)

const (
	catalogListKey      = "catalog:products"
	catalogProductKey   = "catalog:product:%d"
	maxDescriptionChars = 255
)

// CatalogService implements the storefront catalog and the admin product
// operations. Public reads go through a Redis read-through cache; admin
// mutations invalidate it.
type CatalogService struct {
	repo     repository.ProductRepository
	cache    *redis.Client
	cacheTTL time.Duration
	producer *event.Producer
	logger   *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(repo repository.ProductRepository, cache *redis.Client, cacheTTL time.Duration, producer *event.Producer, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		producer: producer,
		logger:   logger,
	}
}

// List returns the storefront product list. Stock quantities are not part of
// the public shape.
func (s *CatalogService) List(ctx context.Context) ([]domain.CatalogProduct, error) {
	if cached, ok := s.cacheGet(ctx, catalogListKey, &[]domain.CatalogProduct{}); ok {
		return *cached.(*[]domain.CatalogProduct), nil
	}

	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	public := make([]domain.CatalogProduct, len(products))
	for i, p := range products {
		public[i] = p.Public()
	}

	s.cacheSet(ctx, catalogListKey, public)
	return public, nil
}

// Get returns a single product including its stock quantity.
func (s *CatalogService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	key := fmt.Sprintf(catalogProductKey, id)
	if cached, ok := s.cacheGet(ctx, key, &domain.Product{}); ok {
		return cached.(*domain.Product), nil
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, key, product)
	return product, nil
}

// ListAll returns full product rows for the admin panel, bypassing the cache.
func (s *CatalogService) ListAll(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

// CreateProductInput holds the parameters for creating a product.
type CreateProductInput struct {
	Title       string
	Price       float64
	Image       string
	Description string
	Quantity    int
}

// CreateProduct validates and inserts a new product.
func (s *CatalogService) CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	if input.Title == "" || input.Image == "" || input.Description == "" {
		return nil, apperrors.InvalidInput("title, image, and description are required")
	}
	if len(input.Description) > maxDescriptionChars {
		return nil, apperrors.InvalidInput("description must be at most 255 characters")
	}
	if input.Price <= 0 {
		return nil, apperrors.InvalidInput("price must be positive")
	}
	if input.Quantity < 0 {
		return nil, apperrors.InvalidInput("quantity must not be negative")
	}

	exists, err := s.repo.ExistsByTitle(ctx, input.Title)
	if err != nil {
		return nil, fmt.Errorf("check product title: %w", err)
	}
	if exists {
		return nil, apperrors.AlreadyExists("product", "title", input.Title)
	}

	product := &domain.Product{
		Title:       input.Title,
		Price:       input.Price,
		Image:       input.Image,
		Description: input.Description,
		Quantity:    input.Quantity,
	}

	id, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, err
	}
	product.ID = id

	s.invalidate(ctx, id)
	s.logger.InfoContext(ctx, "product created",
		slog.Int64("product_id", id),
		slog.String("title", product.Title),
	)

	return product, nil
}

// UpdateProductImage replaces a product's image reference.
func (s *CatalogService) UpdateProductImage(ctx context.Context, id int64, image string) error {
	if image == "" {
		return apperrors.InvalidInput("image is required")
	}

	if err := s.repo.UpdateImage(ctx, id, image); err != nil {
		return err
	}

	s.invalidate(ctx, id)
	return nil
}

// DeleteProduct removes a product from the catalog.
func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, id)
	s.logger.InfoContext(ctx, "product deleted", slog.Int64("product_id", id))
	return nil
}

// SetStock sets a product's absolute stock quantity.
func (s *CatalogService) SetStock(ctx context.Context, id int64, quantity int) error {
	if quantity < 0 {
		return apperrors.InvalidInput("quantity must not be negative")
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.SetStock(ctx, id, quantity); err != nil {
		return err
	}

	s.invalidate(ctx, id)

	if err := s.producer.PublishStockAdjusted(ctx, id, quantity-current.Quantity, event.StockReasonAdminSet); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish stock.adjusted event",
			slog.Int64("product_id", id),
			slog.String("error", err.Error()),
		)
	}

	return nil
}

// cacheGet loads a cached value into target. A nil client, a miss, or a
// decode failure all report a miss.
func (s *CatalogService) cacheGet(ctx context.Context, key string, target any) (any, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.WarnContext(ctx, "catalog cache read failed",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
		return nil, false
	}

	if err := json.Unmarshal(data, target); err != nil {
		return nil, false
	}
	return target, true
}

func (s *CatalogService) cacheSet(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
		s.logger.WarnContext(ctx, "catalog cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}

func (s *CatalogService) invalidate(ctx context.Context, productID int64) {
	if s.cache == nil {
		return
	}

	keys := []string{catalogListKey, fmt.Sprintf(catalogProductKey, productID)}
	if err := s.cache.Del(ctx, keys...).Err(); err != nil {
		s.logger.WarnContext(ctx, "catalog cache invalidation failed",
			slog.Int64("product_id", productID),
			slog.String("error", err.Error()),
		)
	}
}
