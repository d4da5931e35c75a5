package cart

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/medikart/storefront/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// persisted wire form of a cart, decoupled from the domain types so
// the stored format stays stable across refactors.

type persistedProduct struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	UnitPrice  string     `json:"unit_price"`
	Currency   string     `json:"currency"`
	Stock      int        `json:"stock"`
	PhotoURL   *string    `json:"photo_url,omitempty"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
}

type persistedLine struct {
	Product  persistedProduct `json:"product"`
	Quantity int              `json:"quantity"`
	Subtotal string           `json:"subtotal"`
}

func marshalLines(lines []domain.CartLine) (string, error) {
	out := make([]persistedLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, persistedLine{
			Product: persistedProduct{
				ID:         line.Product.ID,
				Name:       line.Product.Name,
				UnitPrice:  line.Product.UnitPrice.Amount.String(),
				Currency:   line.Product.UnitPrice.Currency.String(),
				Stock:      line.Product.Stock,
				PhotoURL:   line.Product.PhotoURL,
				ExpiryDate: line.Product.ExpiryDate,
			},
			Quantity: line.Quantity,
			Subtotal: line.Subtotal.Amount.String(),
		})
	}

	data, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("json.Marshal: %w", err)
	}

	return string(data), nil
}

func unmarshalLines(raw string) ([]domain.CartLine, error) {
	var in []persistedLine
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}

	var lines []domain.CartLine
	for _, pl := range in {
		line, err := mapPersistedLine(pl)
		if err != nil {
			return nil, fmt.Errorf("mapPersistedLine: %w", err)
		}

		lines = append(lines, line)
	}

	return lines, nil
}

func mapPersistedLine(pl persistedLine) (domain.CartLine, error) {
	unit, err := currency.ParseISO(pl.Product.Currency)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("currency[%s] is not valid: %w", pl.Product.Currency, err)
	}

	price, err := decimal.NewFromString(pl.Product.UnitPrice)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("unit price[%s] is not valid: %w", pl.Product.UnitPrice, err)
	}

	subtotal, err := decimal.NewFromString(pl.Subtotal)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("subtotal[%s] is not valid: %w", pl.Subtotal, err)
	}

	if pl.Quantity <= 0 {
		return domain.CartLine{}, fmt.Errorf("quantity[%d] is not positive", pl.Quantity)
	}

	return domain.CartLine{
		Product: domain.Product{
			ID:         pl.Product.ID,
			Name:       pl.Product.Name,
			UnitPrice:  domain.NewMoney(price, unit),
			Stock:      pl.Product.Stock,
			PhotoURL:   pl.Product.PhotoURL,
			ExpiryDate: pl.Product.ExpiryDate,
		},
		Quantity: pl.Quantity,
		Subtotal: domain.NewMoney(subtotal, unit),
	}, nil
}
