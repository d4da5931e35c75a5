package gateway

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, toCartView(h.store.Lines()))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	h.store.Clear()
	h.respondJSON(w, http.StatusNoContent, nil)
}

type addItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Quantity <= 0 {
		h.respondError(w, http.StatusBadRequest, "quantity must be positive")
		return
	}

	// resolve the product from the live catalog; the snapshot captured
	// here is what the cart validates against from now on
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		h.logger.Error("catalog listing failed", zap.Error(err))
		h.respondError(w, http.StatusBadGateway, "catalog is unavailable")
		return
	}

	for _, product := range products {
		if product.ID != req.ProductID {
			continue
		}

		if !h.store.AddItem(product, req.Quantity) {
			h.respondError(w, http.StatusConflict, "requested quantity exceeds available stock")
			return
		}

		h.respondJSON(w, http.StatusOK, toCartView(h.store.Lines()))
		return
	}

	h.respondError(w, http.StatusNotFound, "product not found")
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	index, ok := h.lineIndex(w, r)
	if !ok {
		return
	}

	var req updateQuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !h.store.UpdateQuantity(index, req.Quantity) {
		h.respondError(w, http.StatusConflict, "requested quantity exceeds available stock")
		return
	}

	h.respondJSON(w, http.StatusOK, toCartView(h.store.Lines()))
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	index, ok := h.lineIndex(w, r)
	if !ok {
		return
	}

	h.store.RemoveItem(index)
	h.respondJSON(w, http.StatusOK, toCartView(h.store.Lines()))
}

// lineIndex parses and bounds-checks the {index} route parameter so
// the store never sees an out-of-range index from HTTP callers.
func (h *Handler) lineIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "index must be an integer")
		return 0, false
	}

	if index < 0 || index >= len(h.store.Lines()) {
		h.respondError(w, http.StatusNotFound, "no cart line at index")
		return 0, false
	}

	return index, true
}
