package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/medikart/storefront/internal/domain"
)

// SubmitOrder sends the order in a single attempt. The caller decides
// what a failure means for its own state; no retry happens here.
func (c *Client) SubmitOrder(ctx context.Context, order domain.Order) (domain.OrderConfirmation, error) {
	if order.CustomerID == 0 {
		return domain.OrderConfirmation{}, fmt.Errorf("order has no customer ID")
	}
	if len(order.Lines) == 0 {
		return domain.OrderConfirmation{}, fmt.Errorf("order has no lines")
	}

	var envelope struct {
		Data orderResponseDTO `json:"data"`
	}

	if err := c.doJSON(ctx, http.MethodPost, "/penjualan", mapOrderToDTO(order), &envelope); err != nil {
		return domain.OrderConfirmation{}, fmt.Errorf("doJSON: %w", err)
	}

	return mapOrderResponseDTO(envelope.Data, c.cfg.Currency), nil
}

func (c *Client) OrderHistory(ctx context.Context, customerID int64) ([]domain.OrderConfirmation, error) {
	if customerID == 0 {
		return nil, fmt.Errorf("customerID is zero")
	}

	var envelope struct {
		Data []orderResponseDTO `json:"data"`
	}

	path := fmt.Sprintf("/penjualan/pelanggan/%d", customerID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &envelope); err != nil {
		return nil, fmt.Errorf("doJSON: %w", err)
	}

	orders := make([]domain.OrderConfirmation, 0, len(envelope.Data))
	for _, dto := range envelope.Data {
		orders = append(orders, mapOrderResponseDTO(dto, c.cfg.Currency))
	}

	return orders, nil
}
