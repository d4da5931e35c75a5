package gateway

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/medikart/storefront/internal/api"
	"github.com/medikart/storefront/internal/checkout"
	"github.com/medikart/storefront/internal/domain"
)

type checkoutSummaryView struct {
	Cart       cartView  `json:"cart"`
	GrandTotal moneyView `json:"grand_total"`
}

func (h *Handler) checkoutSummary(w http.ResponseWriter, r *http.Request) {
	grandTotal, err := h.orchestrator.GrandTotal()
	if err != nil {
		h.logger.Error("grand total computation failed", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "could not compute totals")
		return
	}

	h.respondJSON(w, http.StatusOK, checkoutSummaryView{
		Cart:       toCartView(h.store.Lines()),
		GrandTotal: toMoneyView(grandTotal),
	})
}

type checkoutRequest struct {
	PaymentMethod string `json:"payment_method"`
}

func (h *Handler) submitCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	method := domain.PaymentMethod(req.PaymentMethod)
	switch method {
	case domain.PaymentCOD, domain.PaymentBankTransfer, domain.PaymentEWallet:
	case "":
		method = domain.PaymentCOD
	default:
		h.respondError(w, http.StatusBadRequest, "unknown payment method")
		return
	}

	customer, ok := h.sessions.Customer()
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "not logged in")
		return
	}

	confirmation, err := h.orchestrator.Submit(r.Context(), customer, method)
	if err != nil {
		h.checkoutError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, toOrderView(confirmation))
}

func (h *Handler) checkoutError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		h.respondError(w, http.StatusConflict, "cart is empty")
	case errors.Is(err, checkout.ErrNoCustomer):
		h.respondError(w, http.StatusUnauthorized, "profile is incomplete")
	default:
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			h.respondError(w, http.StatusBadGateway, apiErr.Message)
			return
		}

		h.logger.Error("checkout submission failed", zap.Error(err))
		h.respondError(w, http.StatusBadGateway, "order submission failed")
	}
}
