package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/medikart/storefront/internal/domain"
	"go.uber.org/zap"
)

// ListProducts fetches the catalog. Concurrent calls collapse into a
// single request; a tripped breaker fails fast without touching the
// network. Neither path retries.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	v, err, _ := c.sfg.Do("catalog", func() (any, error) {
		return c.catalogBreaker.Execute(func() ([]domain.Product, error) {
			return c.fetchProducts(ctx)
		})
	})
	if err != nil {
		return nil, err
	}

	return v.([]domain.Product), nil
}

func (c *Client) fetchProducts(ctx context.Context) ([]domain.Product, error) {
	var envelope struct {
		Data []productDTO `json:"data"`
	}

	if err := c.doJSON(ctx, http.MethodGet, "/obat", nil, &envelope); err != nil {
		return nil, fmt.Errorf("doJSON: %w", err)
	}

	products := make([]domain.Product, 0, len(envelope.Data))
	for _, dto := range envelope.Data {
		product, err := mapProductDTO(dto, c.cfg.Currency, c.cfg.PhotoBaseURL)
		if err != nil {
			// skip malformed records instead of failing the whole listing
			c.logger.Warn("skipping malformed product record",
				zap.Int64("product_id", dto.ID), zap.Error(err))
			continue
		}

		products = append(products, product)
	}

	return products, nil
}
