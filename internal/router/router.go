package router

import (
	"net/http"

	"cakery/internal/handler"
	"cakery/internal/middleware"
	"cakery/internal/service"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	orderHandler *handler.OrderHandler,
	cakeHandler *handler.CakeHandler,
	adminHandler *handler.AdminHandler,
	userService service.UserService,
	jwtSecret string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Prometheus scrape endpoint (no authentication required)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Customer routes
	mux.HandleFunc("POST /api/orders", orderHandler.Create)
	mux.HandleFunc("GET /api/orders", orderHandler.List)
	mux.HandleFunc("POST /api/orders/{id}/confirm-payment", orderHandler.ConfirmPayment)

	mux.HandleFunc("POST /api/cakes/quote", cakeHandler.Quote)
	mux.HandleFunc("POST /api/cakes", cakeHandler.Create)
	mux.HandleFunc("GET /api/cakes", cakeHandler.List)
	mux.HandleFunc("POST /api/cakes/{id}/preview", cakeHandler.UploadPreview)

	// Admin routes, wrapped with the role check
	admin := http.NewServeMux()
	admin.HandleFunc("GET /api/admin/orders", adminHandler.ListOrders)
	admin.HandleFunc("GET /api/admin/orders/{id}", adminHandler.GetOrder)
	admin.HandleFunc("PATCH /api/admin/orders/{id}", adminHandler.UpdateOrder)
	admin.HandleFunc("POST /api/admin/orders/{id}/events", adminHandler.AppendEvent)
	admin.HandleFunc("GET /api/admin/orders/{id}/events", adminHandler.ListEvents)
	admin.HandleFunc("GET /api/admin/customers", adminHandler.ListCustomers)
	mux.Handle("/api/admin/", middleware.RequireAdmin(userService, logger)(admin))

	// Apply middleware in order: Recovery -> Logging -> Metrics -> CORS -> Authenticate
	var h http.Handler = mux
	h = middleware.Authenticate(jwtSecret, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Metrics(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
