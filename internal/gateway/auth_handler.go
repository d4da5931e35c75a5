package gateway

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/medikart/storefront/internal/api"
	"github.com/medikart/storefront/internal/domain"
	"github.com/medikart/storefront/internal/port"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Customer customerView `json:"customer"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		h.respondError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	token, customer, err := h.auth.Login(r.Context(), port.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.upstreamError(w, err, http.StatusUnauthorized, "login failed")
		return
	}

	if err := h.sessions.Start(r.Context(), token, customer); err != nil {
		// the session is live in memory; losing the mirror only costs
		// the next launch a login
		h.logger.Warn("persisting session failed", zap.Error(err))
	}

	h.respondJSON(w, http.StatusOK, loginResponse{Customer: toCustomerView(customer)})
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Password string `json:"password"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" || req.Name == "" {
		h.respondError(w, http.StatusBadRequest, "name, email and password are required")
		return
	}

	err := h.auth.Register(r.Context(), port.Registration{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		Password: req.Password,
	})
	if err != nil {
		h.upstreamError(w, err, http.StatusUnprocessableEntity, "registration failed")
		return
	}

	h.respondJSON(w, http.StatusCreated, nil)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	// best effort upstream; the local session ends regardless
	if err := h.auth.Logout(r.Context()); err != nil {
		h.logger.Warn("upstream logout failed", zap.Error(err))
	}

	if err := h.sessions.End(r.Context()); err != nil {
		h.logger.Warn("clearing session failed", zap.Error(err))
	}

	h.respondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	customer, ok := h.sessions.Customer()
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "not logged in")
		return
	}

	h.respondJSON(w, http.StatusOK, toCustomerView(customer))
}

type updateProfileRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	current, ok := h.sessions.Customer()
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "not logged in")
		return
	}

	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.auth.UpdateProfile(r.Context(), domain.Customer{
		ID:      current.ID,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		h.upstreamError(w, err, http.StatusUnprocessableEntity, "profile update failed")
		return
	}

	if err := h.sessions.UpdateCustomer(r.Context(), updated); err != nil {
		h.logger.Warn("persisting profile failed", zap.Error(err))
	}

	h.respondJSON(w, http.StatusOK, toCustomerView(updated))
}

func (h *Handler) orderHistory(w http.ResponseWriter, r *http.Request) {
	customer, ok := h.sessions.Customer()
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "not logged in")
		return
	}

	history, err := h.orders.OrderHistory(r.Context(), customer.ID)
	if err != nil {
		h.upstreamError(w, err, http.StatusBadGateway, "could not load order history")
		return
	}

	views := make([]orderView, 0, len(history))
	for _, order := range history {
		views = append(views, toOrderView(order))
	}

	h.respondJSON(w, http.StatusOK, views)
}

// upstreamError relays the backend's message when it has one and
// falls back to a generic text otherwise.
func (h *Handler) upstreamError(w http.ResponseWriter, err error, status int, fallback string) {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		h.respondError(w, status, apiErr.Message)
		return
	}

	h.logger.Error("upstream call failed", zap.Error(err))
	h.respondError(w, status, fallback)
}
