package gateway

import (
	"time"

	"github.com/medikart/storefront/internal/domain"
)

type moneyView struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

func toMoneyView(m domain.Money) moneyView {
	return moneyView{
		Amount:   m.Amount.StringFixed(0),
		Currency: m.Currency.String(),
	}
}

type productView struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	UnitPrice  moneyView  `json:"unit_price"`
	Stock      int        `json:"stock"`
	PhotoURL   *string    `json:"photo_url,omitempty"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
}

func toProductView(p domain.Product) productView {
	return productView{
		ID:         p.ID,
		Name:       p.Name,
		UnitPrice:  toMoneyView(p.UnitPrice),
		Stock:      p.Stock,
		PhotoURL:   p.PhotoURL,
		ExpiryDate: p.ExpiryDate,
	}
}

type cartLineView struct {
	Product  productView `json:"product"`
	Quantity int         `json:"quantity"`
	Subtotal moneyView   `json:"subtotal"`
}

type cartView struct {
	Lines      []cartLineView `json:"lines"`
	TotalItems int            `json:"total_items"`
	TotalPrice *moneyView     `json:"total_price,omitempty"`
}

func toCartView(lines []domain.CartLine) cartView {
	view := cartView{Lines: make([]cartLineView, 0, len(lines))}
	for _, line := range lines {
		view.Lines = append(view.Lines, cartLineView{
			Product:  toProductView(line.Product),
			Quantity: line.Quantity,
			Subtotal: toMoneyView(line.Subtotal),
		})
	}

	c := domain.Cart{Lines: lines}
	view.TotalItems = c.TotalItems()
	if !c.IsEmpty() {
		total := toMoneyView(c.TotalPrice())
		view.TotalPrice = &total
	}

	return view
}

type customerView struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func toCustomerView(c domain.Customer) customerView {
	return customerView{
		ID:      c.ID,
		Name:    c.Name,
		Email:   c.Email,
		Phone:   c.Phone,
		Address: c.Address,
	}
}

type orderLineView struct {
	ProductID int64     `json:"product_id"`
	Quantity  int       `json:"quantity"`
	UnitPrice moneyView `json:"unit_price"`
	Subtotal  moneyView `json:"subtotal"`
}

type orderView struct {
	OrderID       int64           `json:"order_id"`
	Timestamp     time.Time       `json:"timestamp"`
	TotalAmount   moneyView       `json:"total_amount"`
	PaymentMethod string          `json:"payment_method"`
	Lines         []orderLineView `json:"lines"`
}

func toOrderView(conf domain.OrderConfirmation) orderView {
	view := orderView{
		OrderID:       conf.OrderID,
		Timestamp:     conf.Timestamp,
		TotalAmount:   toMoneyView(conf.TotalAmount),
		PaymentMethod: string(conf.PaymentMethod),
	}

	for _, line := range conf.Lines {
		view.Lines = append(view.Lines, orderLineView{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: toMoneyView(line.UnitPrice),
			Subtotal:  toMoneyView(line.Subtotal),
		})
	}

	return view
}
