package gateway

import (
	"net/http"

	"go.uber.org/zap"
)

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		h.logger.Error("catalog listing failed", zap.Error(err))
		h.respondError(w, http.StatusBadGateway, "catalog is unavailable")
		return
	}

	views := make([]productView, 0, len(products))
	for _, product := range products {
		views = append(views, toProductView(product))
	}

	h.respondJSON(w, http.StatusOK, views)
}
