package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shopkeeperhq/shopkeeper-backend/api/controllers"
	"github.com/shopkeeperhq/shopkeeper-backend/api/middleware"
	cartsvc "github.com/shopkeeperhq/shopkeeper-backend/internal/cart"
	checkoutsvc "github.com/shopkeeperhq/shopkeeper-backend/internal/checkout"
	inventorysvc "github.com/shopkeeperhq/shopkeeper-backend/internal/inventory"
	receiptsvc "github.com/shopkeeperhq/shopkeeper-backend/internal/receipts"
	shopsvc "github.com/shopkeeperhq/shopkeeper-backend/internal/shops"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/config"
	"github.com/shopkeeperhq/shopkeeper-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	registry *prometheus.Registry,
	shopService shopsvc.Service,
	inventoryService inventorysvc.Service,
	cartService cartsvc.Service,
	cartRegistry *cartsvc.Registry,
	checkoutService checkoutsvc.Service,
	receiptService receiptsvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Route("/api/v1/shops", func(r chi.Router) {
		r.Post("/", controllers.ShopCreate(shopService, logg))
		r.Get("/", controllers.ShopList(shopService, logg))

		r.Route("/{shop}", func(r chi.Router) {
			r.Get("/", controllers.ShopGet(shopService, logg))
			r.Put("/", controllers.ShopUpdate(shopService, logg))
			r.Delete("/", controllers.ShopDelete(shopService, cartRegistry, logg))

			r.Route("/inventory", func(r chi.Router) {
				r.Get("/", controllers.InventoryList(inventoryService, logg))
				r.Post("/", controllers.InventoryAdd(inventoryService, logg))
				r.Get("/totals", controllers.InventoryTotals(inventoryService, logg))
				r.Put("/{item}", controllers.InventoryUpdate(inventoryService, logg))
				r.Delete("/{item}", controllers.InventoryDelete(inventoryService, logg))
			})
			r.Get("/categories", controllers.InventoryCategories(inventoryService, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(cartService, logg))
				r.Post("/lines", controllers.CartAddLine(cartService, logg))
				r.Delete("/", controllers.CartClear(cartService, logg))
			})

			r.Post("/checkout", controllers.CheckoutCommit(checkoutService, logg))
			r.Get("/receipts", controllers.ReceiptList(receiptService, logg))
		})
	})

	return r
}
