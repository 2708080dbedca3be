package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rhankbrguw/rumah-kosim-api/pkg/health"
	"github.com/rhankbrguw/rumah-kosim-api/pkg/middleware"

	"github.com/rhankbrguw/rumah-kosim-api/internal/domain"
	"github.com/rhankbrguw/rumah-kosim-api/internal/service"
)

// RouterConfig bundles the dependencies of the HTTP router.
type RouterConfig struct {
	UserService     *service.UserService
	CatalogService  *service.CatalogService
	CartService     *service.CartService
	CheckoutService *service.CheckoutService
	OrderService    *service.OrderService
	ReviewService   *service.ReviewService
	HealthHandler   *health.Handler
	UploadDir       string
	UploadPath      string
	RateLimitRPS    int
	RateLimitBurst  int
	Logger          *slog.Logger
}

// NewRouter creates a chi router with all API routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("rumah-kosim-api"))

	// Operational endpoints
	r.Get("/health/live", cfg.HealthHandler.LivenessHandler())
	r.Get("/health/ready", cfg.HealthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	authHandler := NewAuthHandler(cfg.UserService, cfg.Logger)
	catalogHandler := NewCatalogHandler(cfg.CatalogService, cfg.Logger)
	cartHandler := NewCartHandler(cfg.CartService, cfg.Logger)
	checkoutHandler := NewCheckoutHandler(cfg.CheckoutService, cfg.Logger)
	orderHandler := NewOrderHandler(cfg.OrderService, cfg.Logger)
	reviewHandler := NewReviewHandler(cfg.ReviewService, cfg.Logger)
	adminProductHandler := NewAdminProductHandler(cfg.CatalogService, cfg.Logger)
	adminOrderHandler := NewAdminOrderHandler(cfg.OrderService, cfg.Logger)
	uploadHandler := NewUploadHandler(cfg.UploadDir, cfg.UploadPath, cfg.Logger)

	// Public endpoints take unauthenticated traffic and get rate limited.
	rateLimit := middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.Logger)
	r.Group(func(r chi.Router) {
		r.Use(rateLimit)
		r.Use(middleware.CacheControl(60))
		r.Get("/products", catalogHandler.ListProducts)
		r.Get("/product", catalogHandler.GetProduct)
	})
	r.Group(func(r chi.Router) {
		r.Use(rateLimit)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/validate", authHandler.Validate)
	})

	// Uploaded product images
	staticPrefix := strings.TrimSuffix(cfg.UploadPath, "/")
	fileServer := http.StripPrefix(staticPrefix+"/", http.FileServer(http.Dir(cfg.UploadDir)))
	r.With(middleware.CacheControl(86400)).Handle(staticPrefix+"/*", fileServer)

	authMiddleware := middleware.Auth(TokenValidator(cfg.UserService))

	// Authenticated customer endpoints
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/cart", cartHandler.GetCart)
		r.Post("/cart", cartHandler.AddToCart)
		r.Delete("/cart", cartHandler.RemoveFromCart)

		r.Get("/checkout/address", checkoutHandler.GetAddress)
		r.Post("/checkout/address", checkoutHandler.SaveAddress)
		r.Post("/checkout/payment", checkoutHandler.Payment)

		r.Get("/orders", orderHandler.ListOrders)

		r.Get("/reviews", reviewHandler.ListReviews)
		r.Post("/reviews", reviewHandler.SubmitReview)
	})

	// Admin endpoints
	r.Route("/admin", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(middleware.RequireRole(domain.RoleAdmin))

		r.Get("/products", adminProductHandler.ListProducts)
		r.Post("/products", adminProductHandler.CreateProduct)
		r.Patch("/products", adminProductHandler.UpdateProductImage)
		r.Delete("/products", adminProductHandler.DeleteProduct)
		r.Patch("/products/stock", adminProductHandler.SetStock)

		r.Get("/orders", adminOrderHandler.ListOrders)
		r.Patch("/orders", adminOrderHandler.UpdateOrderStatus)

		r.Post("/upload", uploadHandler.Upload)
	})

	return r
}

// TokenValidator adapts the user service's token verification to the auth
// middleware contract.
func TokenValidator(users *service.UserService) middleware.TokenValidator {
	return func(token string) (*middleware.Identity, error) {
		claims, err := users.Validate(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Identity{
			UserID:   claims.UserID,
			Username: claims.Username,
			Role:     claims.Role,
		}, nil
	}
}
