package router

import (
	"net/http"
	"strings"

	"agrimart/internal/handler"
	"agrimart/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	addressHandler *handler.AddressHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	fulfillmentHandler *handler.FulfillmentHandler,
	proofHandler *handler.ProofHandler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Address routes
	addressRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/addresses" || r.URL.Path == "/api/addresses/" {
			addressHandler.Collection(w, r)
			return
		}
		addressHandler.Member(w, r)
	}
	mux.HandleFunc("/api/addresses", addressRouteHandler)
	mux.HandleFunc("/api/addresses/", addressRouteHandler)

	// Cart routes
	mux.HandleFunc("/api/cart", cartHandler.Get)
	mux.HandleFunc("/api/cart/items", cartHandler.AddItem)
	mux.HandleFunc("/api/cart/items/", cartHandler.RemoveItem)

	// Order routes
	orderRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/orders" || r.URL.Path == "/api/orders/" {
			orderHandler.Create(w, r)
			return
		}
		orderHandler.Member(w, r)
	}
	mux.HandleFunc("/api/orders", orderRouteHandler)
	mux.HandleFunc("/api/orders/", orderRouteHandler)

	// Fulfillment routes
	mux.HandleFunc("/api/fulfillment-statuses", fulfillmentHandler.Statuses)
	mux.HandleFunc("/api/order-items/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/status") {
			fulfillmentHandler.TransitionItem(w, r)
			return
		}
		http.Error(w, "not found", http.StatusNotFound)
	})

	// Proof-of-delivery routes
	mux.HandleFunc("/api/order-details/", func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/proofs") {
			proofHandler.Proofs(w, r)
			return
		}
		http.Error(w, "not found", http.StatusNotFound)
	})

	// Apply middleware in order: Recovery -> Logging -> CORS -> APIKeyAuth
	var h http.Handler = mux
	h = middleware.APIKeyAuth(apiKey, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
