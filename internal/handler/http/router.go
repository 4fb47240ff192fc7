package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vendly/marketplace/pkg/health"
	"github.com/vendly/marketplace/pkg/middleware"

	"github.com/vendly/marketplace/internal/service"
)

// NewRouter creates a chi router with all marketplace routes registered.
func NewRouter(
	userService *service.UserService,
	storeService *service.StoreService,
	productService *service.ProductService,
	reviewService *service.ReviewService,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(CORS)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics("marketplace"))

	// Health and metrics endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	auth := NewAuthenticator(userService, logger)

	authHandler := NewAuthHandler(userService, logger)
	storeHandler := NewStoreHandler(storeService, logger)
	productHandler := NewProductHandler(productService, logger)
	reviewHandler := NewReviewHandler(reviewService, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.With(ContentTypeJSON).Post("/auth/register", authHandler.Register)

		r.Route("/stores", func(r chi.Router) {
			r.With(auth.Optional).Get("/", storeHandler.ListStores)
			r.With(auth.Optional).Get("/{id}", storeHandler.GetStore)
			r.With(auth.Require, ContentTypeJSON).Post("/", storeHandler.CreateStore)
			r.With(auth.Require, ContentTypeJSON).Put("/{id}", storeHandler.UpdateStore)
			r.With(auth.Require).Delete("/{id}", storeHandler.DeleteStore)

			r.With(auth.Optional).Get("/{storeId}/products", productHandler.ListStoreProducts)
			r.With(auth.Require, ContentTypeJSON).Post("/{storeId}/products", productHandler.CreateProduct)

			r.With(auth.Require).Get("/{storeId}/reviews", reviewHandler.ListStoreReviews)
		})

		r.Route("/products", func(r chi.Router) {
			r.With(auth.Optional).Get("/{id}", productHandler.GetProduct)
			r.With(auth.Require, ContentTypeJSON).Put("/{id}", productHandler.UpdateProduct)
			r.With(auth.Require).Delete("/{id}", productHandler.DeleteProduct)

			r.With(auth.Optional).Get("/{productId}/reviews", reviewHandler.ListProductReviews)
			r.With(auth.Require, ContentTypeJSON).Post("/{productId}/reviews", reviewHandler.CreateReview)
		})

		r.With(auth.Optional).Get("/vendors/{vendorId}/stores", storeHandler.ListVendorStores)

		r.With(auth.Require).Delete("/reviews/{id}", reviewHandler.DeleteReview)
	})

	return r
}
