package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/medikart/storefront/internal/cart"
	"github.com/medikart/storefront/internal/checkout"
	"github.com/medikart/storefront/internal/port"
	"github.com/medikart/storefront/internal/session"
)

// Handler serves the storefront operations to a local UI over HTTP,
// one route per screen-level action of the app.
type Handler struct {
	catalog      port.Catalog
	auth         port.Auth
	orders       port.Orders
	store        *cart.Store
	orchestrator *checkout.Orchestrator
	sessions     *session.Manager
	logger       *zap.Logger
}

func NewHandler(
	catalog port.Catalog,
	auth port.Auth,
	orders port.Orders,
	store *cart.Store,
	orchestrator *checkout.Orchestrator,
	sessions *session.Manager,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		catalog:      catalog,
		auth:         auth,
		orders:       orders,
		store:        store,
		orchestrator: orchestrator,
		sessions:     sessions,
		logger:       logger,
	}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", h.listProducts)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.getCart)
			r.Delete("/", h.clearCart)
			r.Post("/items", h.addItem)
			r.Put("/items/{index}", h.updateQuantity)
			r.Delete("/items/{index}", h.removeItem)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", h.checkoutSummary)
			r.Post("/", h.submitCheckout)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.login)
			r.Post("/register", h.register)
			r.Post("/logout", h.logout)
		})

		r.Get("/profile", h.getProfile)
		r.Put("/profile", h.updateProfile)
		r.Get("/orders", h.orderHistory)
	})

	return r
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if payload == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("encoding response failed", zap.Error(err))
	}
}

type errorView struct {
	Error string `json:"error"`
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, errorView{Error: message})
}

func decodeJSON(r *http.Request, out any) error {
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}
