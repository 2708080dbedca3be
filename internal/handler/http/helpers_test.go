package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	pkgkafka "github.com/rhankbrguw/rumah-kosim-api/pkg/kafka"
	"github.com/rhankbrguw/rumah-kosim-api/pkg/middleware"

	"github.com/rhankbrguw/rumah-kosim-api/internal/auth"
	"github.com/rhankbrguw/rumah-kosim-api/internal/domain"
	"github.com/rhankbrguw/rumah-kosim-api/internal/event"
	"github.com/rhankbrguw/rumah-kosim-api/internal/service"
)

// --- Mock repositories ---

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) UpdateAddress(ctx context.Context, userID int64, address string) error {
	args := m.Called(ctx, userID, address)
	return args.Error(0)
}

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) (int64, error) {
	args := m.Called(ctx, product)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockProductRepository) UpdateImage(ctx context.Context, id int64, image string) error {
	args := m.Called(ctx, id, image)
	return args.Error(0)
}

func (m *mockProductRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockProductRepository) SetStock(ctx context.Context, id int64, quantity int) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

func (m *mockProductRepository) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	args := m.Called(ctx, title)
	return args.Bool(0), args.Error(1)
}

type mockCartRepository struct {
	mock.Mock
}

func (m *mockCartRepository) Adjust(ctx context.Context, userID, productID int64, delta int) error {
	args := m.Called(ctx, userID, productID, delta)
	return args.Error(0)
}

func (m *mockCartRepository) Remove(ctx context.Context, userID, productID int64) (int, error) {
	args := m.Called(ctx, userID, productID)
	return args.Int(0), args.Error(1)
}

func (m *mockCartRepository) GetByUser(ctx context.Context, userID int64) ([]domain.CartLine, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CartLine), args.Error(1)
}

type mockOrderRepository struct {
	mock.Mock
}

func (m *mockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *mockOrderRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *mockOrderRepository) ListAll(ctx context.Context) ([]domain.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, orderID int64, status string) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

type mockReviewRepository struct {
	mock.Mock
}

func (m *mockReviewRepository) Create(ctx context.Context, review *domain.Review) (int64, error) {
	args := m.Called(ctx, review)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockReviewRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Review, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

// --- Test helpers ---

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testEventProducer() *event.Producer {
	logger := testLogger()
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:9092"})
	return event.NewProducer(pkgkafka.NewProducer(kafkaCfg, logger), logger)
}

func testJWTManager() *auth.JWTManager {
	return auth.NewJWTManager("test-secret", time.Hour)
}

func testUserService(repo *mockUserRepository) *service.UserService {
	return service.NewUserService(repo, testJWTManager(), testEventProducer(), testLogger())
}

func testCartService(repo *mockCartRepository) *service.CartService {
	return service.NewCartService(repo, testEventProducer(), testLogger())
}

func testCheckoutService(orders *mockOrderRepository, users *mockUserRepository) *service.CheckoutService {
	return service.NewCheckoutService(orders, users, testEventProducer(), testLogger())
}

func testOrderService(repo *mockOrderRepository) *service.OrderService {
	return service.NewOrderService(repo, testEventProducer(), testLogger())
}

func testReviewService(repo *mockReviewRepository) *service.ReviewService {
	return service.NewReviewService(repo, testEventProducer(), testLogger())
}

func testCatalogService(repo *mockProductRepository) *service.CatalogService {
	return service.NewCatalogService(repo, nil, time.Minute, testEventProducer(), testLogger())
}

// customerIdentity is the default authenticated caller used in tests.
func customerIdentity() *middleware.Identity {
	return &middleware.Identity{UserID: 1, Username: "dewi", Role: domain.RoleCustomer}
}

// withIdentity returns a context carrying an authenticated caller, as the
// auth middleware would set it.
func withIdentity(ctx context.Context, id *middleware.Identity) context.Context {
	return middleware.WithIdentity(ctx, id)
}

// decodeBody decodes a JSON response body into a generic map.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

// decodeInto decodes a JSON response body into the given target.
func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(target))
}

// errorCode extracts the error code from a standard error payload.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := decodeBody(t, rec)
	errObj, ok := body["error"].(map[string]any)
	require.True(t, ok, "response has no error object: %v", body)
	code, _ := errObj["code"].(string)
	return code
}
