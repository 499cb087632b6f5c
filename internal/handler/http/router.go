package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/saurabhgup98/food-Delivery-SERA-sub001/internal/service"
	"github.com/saurabhgup98/food-Delivery-SERA-sub001/pkg/health"
	"github.com/saurabhgup98/food-Delivery-SERA-sub001/pkg/middleware"
)

const serviceName = "cart"

// NewRouter creates a chi router with all cart service routes registered.
func NewRouter(
	cartService *service.CartService,
	checkoutService *service.CheckoutService,
	catalogService *service.CatalogService,
	healthHandler *health.Handler,
	logger *slog.Logger,
	pprofCIDRs []string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Metrics(serviceName))
	r.Use(middleware.Tracing(serviceName))

	// Operational endpoints
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})
	middleware.RegisterPprof(r, pprofCIDRs, logger)

	cartHandler := NewCartHandler(cartService, logger)
	checkoutHandler := NewCheckoutHandler(checkoutService, logger)
	catalogHandler := NewCatalogHandler(catalogService, logger)

	r.Route("/api/v1", func(r chi.Router) {
		// Public catalog: no auth required for browsing.
		r.Get("/restaurants", catalogHandler.ListRestaurants)
		r.Get("/restaurants/{restaurantId}", catalogHandler.GetRestaurant)
		r.Get("/restaurants/{restaurantId}/menu", catalogHandler.GetMenu)

		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(UserIDFromHeader)

			r.Get("/cart", cartHandler.GetCart)
			r.Delete("/cart", cartHandler.ClearCart)
			r.Post("/cart/items", cartHandler.AddItem)
			r.Put("/cart/items/{entryId}", cartHandler.UpdateQuantity)
			r.Delete("/cart/items/{entryId}", cartHandler.RemoveItem)

			r.Post("/checkout", checkoutHandler.Checkout)
		})
	})

	return r
}
